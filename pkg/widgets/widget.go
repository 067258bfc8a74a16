package widgets

import (
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-sniplates/pkg/engine"
)

// ContentVar is the variable name a nested widget's rendered inner content is
// bound to while the wrapping block renders.
const ContentVar = "content"

// ParseRef splits an "alias:blockname" reference. The alias may be empty,
// meaning the currently active library. A reference without a colon is a
// SyntaxError.
func ParseRef(ref string) (alias, blockName string, err error) {
	alias, blockName, found := strings.Cut(ref, ":")
	if !found {
		return "", "", &SyntaxError{Msg: `widget name must be "alias:block_name"`, Ref: ref}
	}
	return alias, blockName, nil
}

// RenderBlock renders a resolved block with overrides pushed as a temporary
// scope layer, popped again when rendering finishes or fails.
func (rc *RenderContext) RenderBlock(def *BlockDefinition, overrides map[string]any) (string, error) {
	var out string
	err := rc.scope.With(overrides, func() error {
		rendered, err := def.Body().Render(rc.scope)
		if err != nil {
			return err
		}
		out = rendered
		return nil
	})
	return out, err
}

// RenderWidget resolves ref, activates its library, renders the named block
// with overrides, and returns the output. When storeAs is non-empty the
// result is bound to that variable in the caller's scope instead and the
// returned string is empty.
func (rc *RenderContext) RenderWidget(ref string, overrides map[string]any, storeAs string) (string, error) {
	alias, blockName, err := ParseRef(ref)
	if err != nil {
		return "", err
	}

	var out string
	err = rc.Using(alias, func(registry *BlockRegistry) error {
		def, err := FindBlock(registry, blockName)
		if err != nil {
			return err
		}
		out, err = rc.RenderBlock(def, overrides)
		return err
	})
	if err != nil {
		return "", err
	}

	if storeAs != "" {
		rc.scope.Set(storeAs, out)
		return "", nil
	}
	return out, nil
}

// RenderNested behaves like RenderWidget but first renders body inside the
// overridden scope, so overrides are visible to the nested content, then
// exposes the result to the block under ContentVar. Wrapper widgets use this
// to decorate caller-supplied inner content.
func (rc *RenderContext) RenderNested(ref string, overrides map[string]any, body engine.Block, storeAs string) (string, error) {
	alias, blockName, err := ParseRef(ref)
	if err != nil {
		return "", err
	}

	var out string
	err = rc.Using(alias, func(registry *BlockRegistry) error {
		def, err := FindBlock(registry, blockName)
		if err != nil {
			return err
		}

		return rc.scope.With(overrides, func() error {
			content := ""
			if body != nil {
				content, err = body.Render(rc.scope)
				if err != nil {
					return err
				}
			}
			return rc.scope.With(map[string]any{ContentVar: content}, func() error {
				out, err = def.Body().Render(rc.scope)
				return err
			})
		})
	})
	if err != nil {
		return "", err
	}

	if storeAs != "" {
		rc.scope.Set(storeAs, out)
		return "", nil
	}
	return out, nil
}

// Reuse renders the first candidate block found in the currently active
// registry with overrides applied. No alias indirection happens and a miss is
// not an error: when nothing matches the result is empty output, which keeps
// optional sibling blocks cheap to reference inside one document.
func (rc *RenderContext) Reuse(names []string, overrides map[string]any) (string, error) {
	def, err := FindBlock(rc.active, names...)
	if err != nil {
		Logger().Debug("reuse found no block", zap.Strings("candidates", names))
		return "", nil
	}
	return rc.RenderBlock(def, overrides)
}
