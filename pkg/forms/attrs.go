package forms

import (
	"html"
	"sort"
	"strings"
)

// FlatAttrs serializes a map into HTML attribute pairs, each preceded by a
// space: ` key="value"`. Boolean true renders the bare attribute, boolean
// false and nil drop it, everything else is stringified and escaped. Keys are
// emitted in sorted order so output is deterministic.
func FlatAttrs(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}

	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		switch value := attrs[key]; value {
		case nil, false:
			continue
		case true:
			b.WriteString(" ")
			b.WriteString(key)
		default:
			b.WriteString(" ")
			b.WriteString(key)
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(forceString(value)))
			b.WriteString(`"`)
		}
	}
	return b.String()
}
