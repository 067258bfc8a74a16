package forms

import (
	"fmt"
)

// BoundField carries the field metadata the widget layer consumes: a widget
// kind, a field kind, and a name, plus the presentation attributes templates
// expect. Hosts build these from whatever form machinery they own; the
// openapi subpackage builds them from schema documents.
type BoundField struct {
	Name       string
	FieldType  string
	WidgetType string
	ID         string
	Label      string
	HelpText   string
	HTMLName   string
	CSSClasses string
	Errors     []string
	Required   bool
	Value      any
	Choices    []Choice
}

// IDForLabel returns the id a <label for=...> should reference.
func (f *BoundField) IDForLabel() string { return f.ID }

// AsBoundField converts a template-supplied value into a *BoundField.
func AsBoundField(value any) (*BoundField, error) {
	switch v := value.(type) {
	case *BoundField:
		if v == nil {
			return nil, fmt.Errorf("forms: field is nil")
		}
		return v, nil
	case BoundField:
		return &v, nil
	default:
		return nil, fmt.Errorf("forms: expected a bound field, got %T", value)
	}
}

// FieldData assembles the variable overrides a widget block renders with:
// every field attribute under its conventional name, kind transforms applied,
// choices wrapped, the value normalized, and caller overrides winning over
// all derived data.
func FieldData(field *BoundField, overrides map[string]any) map[string]any {
	data := map[string]any{
		"form_field":   field,
		"id":           field.ID,
		"widget_type":  field.WidgetType,
		"field_type":   field.FieldType,
		"css_classes":  field.CSSClasses,
		"errors":       field.Errors,
		"help_text":    field.HelpText,
		"html_name":    field.HTMLName,
		"id_for_label": field.IDForLabel(),
		"label":        field.Label,
		"name":         field.Name,
		"required":     field.Required,
		"choices":      nil,
	}

	data = fieldTransform(field.FieldType)(data)
	data = widgetTransform(field.WidgetType)(data)

	value := normalizeValue(field.Value)

	if len(field.Choices) > 0 {
		if _, multi := value.([]string); multi {
			// Multi-valued choice fields get no display entry; templates
			// resolve labels through the wrapped choices instead.
		} else if s, ok := value.(string); ok {
			data["display"] = displayFor(field.Choices, s)
		}
		data["choices"] = WrapChoices(field.Choices)
	}

	data["value"] = value

	for key, override := range overrides {
		data[key] = override
	}
	return data
}

// normalizeValue flattens field values the way select rendering expects:
// multi-valued inputs become a slice of strings, single values a string, nil
// stays nil.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, forceString(item))
		}
		return out
	default:
		return forceString(v)
	}
}

func forceString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func displayFor(choices []Choice, value string) any {
	for _, choice := range choices {
		if nested, ok := choice.Display.([]Choice); ok {
			if display := displayFor(nested, value); display != "" {
				return display
			}
			continue
		}
		if forceString(choice.Value) == value {
			return choice.Display
		}
	}
	return ""
}
