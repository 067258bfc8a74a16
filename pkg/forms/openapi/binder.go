// Package openapi binds OpenAPI 3 schema definitions to forms.BoundField
// values, so form_field directives can render fields for schema-described
// payloads. Widget kinds are chosen by a priority matcher registry; field
// kinds derive from schema type and format.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-sniplates/pkg/forms"
)

// Binder converts schema properties into bound fields using its widget
// registry. The zero value is not usable; construct with NewBinder.
type Binder struct {
	widgets *WidgetRegistry
}

// Option customises a Binder.
type Option func(*Binder)

// WithWidgetRegistry replaces the builtin widget matcher registry.
func WithWidgetRegistry(registry *WidgetRegistry) Option {
	return func(b *Binder) {
		if registry != nil {
			b.widgets = registry
		}
	}
}

// NewBinder constructs a Binder with the builtin widget matchers.
func NewBinder(options ...Option) *Binder {
	b := &Binder{widgets: NewWidgetRegistry()}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Fields loads an OpenAPI document and binds the named component schema's
// properties, sorted by property name so output is deterministic.
func (b *Binder) Fields(ctx context.Context, raw []byte, schemaName string) ([]forms.BoundField, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	if spec.Components == nil {
		return nil, fmt.Errorf("openapi: document has no component schemas")
	}
	ref, ok := spec.Components.Schemas[schemaName]
	if !ok {
		return nil, fmt.Errorf("openapi: schema %q not found", schemaName)
	}
	return b.BindSchema(ref)
}

// BindSchema binds one object schema's properties.
func (b *Binder) BindSchema(ref *openapi3.SchemaRef) ([]forms.BoundField, error) {
	if ref == nil || ref.Value == nil {
		return nil, errors.New("openapi: schema is empty")
	}
	schema := ref.Value

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	fields := make([]forms.BoundField, 0, len(names))
	for _, name := range names {
		property := schema.Properties[name]
		if property == nil || property.Value == nil {
			continue
		}
		fields = append(fields, b.bindProperty(name, property.Value, required[name]))
	}
	return fields, nil
}

func (b *Binder) bindProperty(name string, schema *openapi3.Schema, required bool) forms.BoundField {
	field := forms.BoundField{
		Name:     name,
		ID:       "id_" + name,
		HTMLName: name,
		Label:    labelize(name),
		HelpText: schema.Description,
		Required: required,
		Value:    schema.Default,
	}
	if schema.Title != "" {
		field.Label = schema.Title
	}

	field.FieldType = fieldType(schema)
	field.Choices = enumChoices(schema)
	field.WidgetType = b.widgets.Resolve(name, schema)

	return field
}

func fieldType(schema *openapi3.Schema) string {
	switch firstType(schema.Type) {
	case "boolean":
		return forms.FieldBoolean
	case "integer":
		return forms.FieldInteger
	case "number":
		return forms.FieldFloat
	case "array":
		return forms.FieldMultipleChoice
	case "string":
		if len(schema.Enum) > 0 {
			return forms.FieldChoice
		}
		switch schema.Format {
		case "email":
			return forms.FieldEmail
		case "uri", "url":
			return forms.FieldURL
		case "date":
			return forms.FieldDate
		case "date-time":
			return forms.FieldDateTime
		}
		return forms.FieldChar
	default:
		if len(schema.Enum) > 0 {
			return forms.FieldChoice
		}
		return forms.FieldChar
	}
}

func enumChoices(schema *openapi3.Schema) []forms.Choice {
	values := schema.Enum
	if len(values) == 0 && schema.Items != nil && schema.Items.Value != nil {
		values = schema.Items.Value.Enum
	}
	if len(values) == 0 {
		return nil
	}
	choices := make([]forms.Choice, 0, len(values))
	for _, value := range values {
		choices = append(choices, forms.Choice{
			Value:   value,
			Display: labelize(fmt.Sprint(value)),
		})
	}
	return choices
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func labelize(name string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(name))
	if cleaned == "" {
		return ""
	}
	return strings.ToUpper(cleaned[:1]) + cleaned[1:]
}
