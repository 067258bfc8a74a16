package pongo2tpl

import (
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-sniplates/pkg/forms"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists("flatattrs") {
		_ = pongo2.RegisterFilter("flatattrs", filterFlatAttrs)
	}
}

// filterFlatAttrs renders a map as HTML attributes, each prefixed with a
// space. The output is already escaped, so it is returned as a safe value.
func filterFlatAttrs(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	switch attrs := in.Interface().(type) {
	case nil:
		return pongo2.AsValue(""), nil
	case map[string]any:
		return pongo2.AsSafeValue(forms.FlatAttrs(attrs)), nil
	case pongo2.Context:
		return pongo2.AsSafeValue(forms.FlatAttrs(map[string]any(attrs))), nil
	default:
		return nil, &pongo2.Error{
			Sender:    "filter:flatattrs",
			OrigError: fmt.Errorf("flatattrs expects a map, got %T", in.Interface()),
		}
	}
}
