package widgets

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-sniplates/pkg/engine"
)

// Option customises a RenderContext at construction.
type Option func(*RenderContext)

// WithVars seeds the base layer of the render scope.
func WithVars(vars map[string]any) Option {
	return func(rc *RenderContext) {
		rc.scope = engine.NewScope(vars)
	}
}

// WithScope attaches an existing scope instead of creating a fresh one.
func WithScope(scope *engine.Scope) Option {
	return func(rc *RenderContext) {
		if scope != nil {
			rc.scope = scope
		}
	}
}

// RenderContext owns the state of one render pass: the variable scope, the
// widget library table, and the currently active block registry. It is not
// safe for concurrent use; concurrent renders get independent contexts.
type RenderContext struct {
	loader    engine.Loader
	scope     *engine.Scope
	libraries map[string]*BlockRegistry
	active    *BlockRegistry
}

// NewRenderContext constructs a context for one render pass. The library
// table is created lazily on first Load, matching a pass that never touches
// widgets paying nothing.
func NewRenderContext(loader engine.Loader, options ...Option) *RenderContext {
	rc := &RenderContext{loader: loader}
	for _, opt := range options {
		if opt != nil {
			opt(rc)
		}
	}
	if rc.scope == nil {
		rc.scope = engine.NewScope(nil)
	}
	return rc
}

// Scope returns the render pass's variable scope.
func (rc *RenderContext) Scope() *engine.Scope { return rc.scope }

// ActiveBlocks returns the registry unqualified references resolve against,
// or nil when no library scope is active.
func (rc *RenderContext) ActiveBlocks() *BlockRegistry { return rc.active }

// Libraries returns the loaded aliases. Intended for diagnostics.
func (rc *RenderContext) Libraries() []string {
	aliases := make([]string, 0, len(rc.libraries))
	for alias := range rc.libraries {
		aliases = append(aliases, alias)
	}
	return aliases
}

// Load resolves each alias's document chain into a fresh registry and stores
// it in the library table, overwriting prior entries. With soft set, aliases
// already present are skipped so the first load wins; this backs composable
// imports that want "load unless already loaded" semantics.
func (rc *RenderContext) Load(aliases map[string]string, soft bool) error {
	if rc.libraries == nil {
		rc.libraries = make(map[string]*BlockRegistry, len(aliases))
	}

	for alias, document := range aliases {
		if soft {
			if _, loaded := rc.libraries[alias]; loaded {
				continue
			}
		}

		registry := NewBlockRegistry()
		if err := ResolveBlocks(rc.loader, document, registry); err != nil {
			return err
		}
		rc.libraries[alias] = registry

		Logger().Debug("loaded widget library",
			zap.String("alias", alias),
			zap.String("document", document),
			zap.Int("blocks", registry.Len()),
		)
	}
	return nil
}

// Using runs fn with the named alias's registry active, restoring the
// previously active registry afterward even when fn fails. The empty alias
// leaves whatever registry is already active in place, so widgets can
// reference sibling blocks without repeating their library alias. Nested
// activations unwind LIFO.
func (rc *RenderContext) Using(alias string, fn func(*BlockRegistry) error) error {
	if alias == "" {
		return fn(rc.active)
	}

	if rc.libraries == nil {
		return &ConfigurationError{}
	}
	registry, ok := rc.libraries[alias]
	if !ok {
		return &ConfigurationError{Alias: alias}
	}

	previous := rc.active
	rc.active = registry
	defer func() { rc.active = previous }()

	return fn(registry)
}
