package forms

import (
	"github.com/goliatone/go-sniplates/pkg/widgets"
)

// RenderField renders the widget block for a bound form field. With an
// explicit widgetRef ("alias:block") only that block is tried; otherwise the
// candidates come from AutoWidget and the library alias defaults to "form",
// overridable through an "alias" entry in overrides. All remaining overrides
// win over derived field data.
func RenderField(rc *widgets.RenderContext, field *BoundField, widgetRef string, overrides map[string]any) (string, error) {
	kwargs := make(map[string]any, len(overrides))
	for key, value := range overrides {
		kwargs[key] = value
	}

	alias := DefaultAlias
	var candidates []string

	if widgetRef != "" {
		refAlias, block, err := widgets.ParseRef(widgetRef)
		if err != nil {
			return "", err
		}
		alias = refAlias
		candidates = []string{block}
	} else {
		if v, ok := kwargs["alias"]; ok {
			alias = forceString(v)
			delete(kwargs, "alias")
		}
		candidates = AutoWidget(field)
	}

	data := FieldData(field, kwargs)

	var out string
	err := rc.Using(alias, func(registry *widgets.BlockRegistry) error {
		def, err := widgets.FindBlock(registry, candidates...)
		if err != nil {
			return err
		}
		out, err = rc.RenderBlock(def, data)
		return err
	})
	return out, err
}
