package widgets

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed widget reference or directive argument.
// Hosts raise it at directive-compile time where their parser allows,
// otherwise at first render.
type SyntaxError struct {
	Msg string
	Ref string
}

func (e *SyntaxError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("widgets: %s - %q", e.Msg, e.Ref)
	}
	return "widgets: " + e.Msg
}

// ConfigurationError reports that widget libraries were referenced before any
// were loaded, or that the referenced alias was never loaded. Alias is empty
// in the no-libraries case.
type ConfigurationError struct {
	Alias string
}

func (e *ConfigurationError) Error() string {
	if e.Alias == "" {
		return "widgets: no widget libraries loaded"
	}
	return fmt.Sprintf("widgets: no widget library loaded for alias %q", e.Alias)
}

// LookupError reports that none of the candidate block names exist in the
// active registry. Names preserves the candidate order that was tried.
type LookupError struct {
	Names []string
}

func (e *LookupError) Error() string {
	return "widgets: no widget found for: " + strings.Join(e.Names, ", ")
}
