package forms

// Choice is a raw (value, display) pair as supplied by the field source.
// Grouped choices nest: Display holds a []Choice and Value the group label.
type Choice struct {
	Value   any
	Display any
}

// ChoiceWrapper is the template-facing form of a choice: the value coerced to
// a string and a display that is either a label or, for groups, a nested
// []ChoiceWrapper. Wrappers are immutable and compared by value.
type ChoiceWrapper struct {
	Value   string
	Display any
}

// IsGroup reports whether the wrapper represents a group of choices rather
// than a single choice, so templates can branch between <option> and
// <optgroup> shapes.
func (c ChoiceWrapper) IsGroup() bool {
	_, ok := c.Display.([]ChoiceWrapper)
	return ok
}

// Options returns the nested choices of a group, or nil for a single choice.
func (c ChoiceWrapper) Options() []ChoiceWrapper {
	nested, _ := c.Display.([]ChoiceWrapper)
	return nested
}

// WrapChoices converts raw choices into wrappers, recursively marking grouped
// entries.
func WrapChoices(choices []Choice) []ChoiceWrapper {
	if len(choices) == 0 {
		return nil
	}
	wrapped := make([]ChoiceWrapper, 0, len(choices))
	for _, choice := range choices {
		wrapper := ChoiceWrapper{Value: forceString(choice.Value)}
		if nested, ok := choice.Display.([]Choice); ok {
			wrapper.Display = WrapChoices(nested)
		} else {
			wrapper.Display = choice.Display
		}
		wrapped = append(wrapped, wrapper)
	}
	return wrapped
}
