package forms

import "fmt"

// Common widget kinds. Sources are free to use other names; these are the
// ones the builtin transforms and the openapi binder know about.
const (
	WidgetTextInput     = "TextInput"
	WidgetNumberInput   = "NumberInput"
	WidgetEmailInput    = "EmailInput"
	WidgetURLInput      = "URLInput"
	WidgetPasswordInput = "PasswordInput"
	WidgetTextarea      = "Textarea"
	WidgetCheckboxInput = "CheckboxInput"
	WidgetSelect        = "Select"
	WidgetSelectMulti   = "SelectMultiple"
	WidgetDateInput     = "DateInput"
	WidgetDateTimeInput = "DateTimeInput"
	WidgetHiddenInput   = "HiddenInput"
)

// Common field kinds.
const (
	FieldChar           = "CharField"
	FieldInteger        = "IntegerField"
	FieldFloat          = "FloatField"
	FieldBoolean        = "BooleanField"
	FieldDate           = "DateField"
	FieldDateTime       = "DateTimeField"
	FieldEmail          = "EmailField"
	FieldURL            = "URLField"
	FieldChoice         = "ChoiceField"
	FieldMultipleChoice = "MultipleChoiceField"
)

// DefaultAlias is the widget library alias form_field resolves against when
// the caller names neither a widget nor an alias.
const DefaultAlias = "form"

// AutoWidget returns the candidate block names for a field, most specific
// first: every combination of field kind, widget kind, and field name down to
// each attribute alone. The order backs FindBlock's first-match semantics.
func AutoWidget(field *BoundField) []string {
	widget := field.WidgetType
	kind := field.FieldType
	name := field.Name

	return []string{
		fmt.Sprintf("%s_%s_%s", kind, widget, name),
		fmt.Sprintf("%s_%s", kind, name),
		fmt.Sprintf("%s_%s", widget, name),
		fmt.Sprintf("%s_%s", kind, widget),
		name,
		widget,
		kind,
	}
}

// Transform rewrites the derived field data for one field or widget kind
// before caller overrides apply.
type Transform func(data map[string]any) map[string]any

var (
	fieldTransforms = map[string]Transform{}

	widgetTransforms = map[string]Transform{
		WidgetCheckboxInput: checkboxTransform,
	}
)

// RegisterFieldTransform installs a transform for a field kind, replacing any
// prior registration. Unknown kinds fall back to a no-op. Intended for wiring
// at program start, not during renders.
func RegisterFieldTransform(fieldType string, fn Transform) {
	if fieldType == "" || fn == nil {
		return
	}
	fieldTransforms[fieldType] = fn
}

// RegisterWidgetTransform installs a transform for a widget kind.
func RegisterWidgetTransform(widgetType string, fn Transform) {
	if widgetType == "" || fn == nil {
		return
	}
	widgetTransforms[widgetType] = fn
}

func fieldTransform(fieldType string) Transform {
	if fn, ok := fieldTransforms[fieldType]; ok {
		return fn
	}
	return identityTransform
}

func widgetTransform(widgetType string) Transform {
	if fn, ok := widgetTransforms[widgetType]; ok {
		return fn
	}
	return identityTransform
}

func identityTransform(data map[string]any) map[string]any { return data }

func checkboxTransform(data map[string]any) map[string]any {
	if field, ok := data["form_field"].(*BoundField); ok {
		data["checked"] = isTruthy(field.Value)
	}
	return data
}

func isTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "false" && v != "0"
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}
