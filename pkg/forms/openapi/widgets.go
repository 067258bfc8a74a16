package openapi

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-sniplates/pkg/forms"
)

// Matcher decides whether a widget kind should handle the supplied property.
type Matcher func(name string, schema *openapi3.Schema) bool

type rule struct {
	widget   string
	priority int
	match    Matcher
	order    int
}

// WidgetRegistry selects widget kinds for schema properties. Higher priority
// wins; ties fall back to registration order. Resolution always succeeds: a
// property no rule claims gets the plain text widget.
type WidgetRegistry struct {
	rules []rule
}

// NewWidgetRegistry constructs a registry with the builtin matchers.
func NewWidgetRegistry() *WidgetRegistry {
	registry := &WidgetRegistry{}
	registry.registerBuiltins()
	return registry
}

// Register adds a matcher for a widget kind. Higher priority values take
// precedence over lower ones.
func (r *WidgetRegistry) Register(widget string, priority int, matcher Matcher) {
	if r == nil || widget == "" || matcher == nil {
		return
	}
	r.rules = append(r.rules, rule{
		widget:   widget,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget kind for a property.
func (r *WidgetRegistry) Resolve(name string, schema *openapi3.Schema) string {
	if r == nil || schema == nil {
		return forms.WidgetTextInput
	}

	rules := append([]rule(nil), r.rules...)
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})

	for _, entry := range rules {
		if entry.match(name, schema) {
			return entry.widget
		}
	}
	return forms.WidgetTextInput
}

func (r *WidgetRegistry) registerBuiltins() {
	r.Register(forms.WidgetCheckboxInput, 90, func(_ string, schema *openapi3.Schema) bool {
		return firstType(schema.Type) == "boolean"
	})

	r.Register(forms.WidgetSelectMulti, 85, func(_ string, schema *openapi3.Schema) bool {
		if firstType(schema.Type) != "array" {
			return false
		}
		return schema.Items != nil && schema.Items.Value != nil && len(schema.Items.Value.Enum) > 0
	})

	r.Register(forms.WidgetSelect, 80, func(_ string, schema *openapi3.Schema) bool {
		return firstType(schema.Type) != "array" && len(schema.Enum) > 0
	})

	r.Register(forms.WidgetEmailInput, 70, func(_ string, schema *openapi3.Schema) bool {
		return schema.Format == "email"
	})

	r.Register(forms.WidgetURLInput, 65, func(_ string, schema *openapi3.Schema) bool {
		return schema.Format == "uri" || schema.Format == "url"
	})

	r.Register(forms.WidgetDateTimeInput, 60, func(_ string, schema *openapi3.Schema) bool {
		return schema.Format == "date-time"
	})

	r.Register(forms.WidgetDateInput, 55, func(_ string, schema *openapi3.Schema) bool {
		return schema.Format == "date"
	})

	r.Register(forms.WidgetPasswordInput, 50, func(_ string, schema *openapi3.Schema) bool {
		return schema.Format == "password"
	})

	r.Register(forms.WidgetNumberInput, 45, func(_ string, schema *openapi3.Schema) bool {
		kind := firstType(schema.Type)
		return kind == "integer" || kind == "number"
	})

	r.Register(forms.WidgetTextarea, 40, func(_ string, schema *openapi3.Schema) bool {
		if firstType(schema.Type) != "string" {
			return false
		}
		return schema.MaxLength != nil && *schema.MaxLength > 255
	})
}
