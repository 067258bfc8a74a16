package widgets

import "github.com/goliatone/go-sniplates/pkg/engine"

// BlockDefinition is one named block contribution held by a BlockRegistry.
// Definitions are immutable once added; the override chain is expressed as an
// arena index rather than an owning reference.
type BlockDefinition struct {
	name     string
	body     engine.Block
	parent   int
	registry *BlockRegistry
}

// Name returns the block name the definition answers to.
func (d *BlockDefinition) Name() string { return d.name }

// Body returns the renderable block body supplied by the host document.
func (d *BlockDefinition) Body() engine.Block { return d.body }

// Parent returns the next-most-general definition shadowed by this one, or
// nil when the definition is the end of its override chain.
func (d *BlockDefinition) Parent() *BlockDefinition {
	if d.parent < 0 {
		return nil
	}
	return d.registry.arena[d.parent]
}

// BlockRegistry maps block names to definitions with layered override: the
// first layer added for a name stays the most specific, later layers for the
// same name queue up behind it as increasingly general ancestors. Registries
// live for one widget-library load or one render pass. The arena holds
// pointers, so definitions handed out by Get stay valid across later adds.
type BlockRegistry struct {
	arena []*BlockDefinition
	index map[string]int
	tail  map[string]int
}

// NewBlockRegistry constructs an empty registry.
func NewBlockRegistry() *BlockRegistry {
	return &BlockRegistry{
		index: make(map[string]int),
		tail:  make(map[string]int),
	}
}

// AddBlocks folds one document's blocks into the registry as a single layer.
// Names seen for the first time become the most specific definition; names
// already present are appended to the end of that name's override chain.
// Re-adding a body that is already part of a chain is a no-op, so repeated
// resolution of the same document chain cannot duplicate layers.
func (r *BlockRegistry) AddBlocks(blocks []engine.Block) {
	for _, block := range blocks {
		if block == nil {
			continue
		}
		r.add(block)
	}
}

func (r *BlockRegistry) add(block engine.Block) {
	name := block.Name()
	head, exists := r.index[name]
	if !exists {
		r.arena = append(r.arena, &BlockDefinition{
			name:     name,
			body:     block,
			parent:   -1,
			registry: r,
		})
		r.index[name] = len(r.arena) - 1
		r.tail[name] = len(r.arena) - 1
		return
	}

	// Walk the chain once to keep AddBlocks idempotent for repeated bodies.
	for i := head; i >= 0; i = r.arena[i].parent {
		if r.arena[i].body == block {
			return
		}
	}

	r.arena = append(r.arena, &BlockDefinition{
		name:     name,
		body:     block,
		parent:   -1,
		registry: r,
	})
	idx := len(r.arena) - 1
	r.arena[r.tail[name]].parent = idx
	r.tail[name] = idx
}

// Get returns the most specific definition for name.
func (r *BlockRegistry) Get(name string) (*BlockDefinition, bool) {
	if r == nil {
		return nil, false
	}
	idx, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.arena[idx], true
}

// Names returns every block name the registry can resolve. Order is
// unspecified.
func (r *BlockRegistry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.index))
	for name := range r.index {
		names = append(names, name)
	}
	return names
}

// Len reports how many distinct block names the registry resolves.
func (r *BlockRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.index)
}

// FindBlock tries each candidate name in order against the registry and
// returns the first match. A nil registry matches nothing. Failure is a
// LookupError carrying the candidate list in the order it was tried.
func FindBlock(registry *BlockRegistry, names ...string) (*BlockDefinition, error) {
	for _, name := range names {
		if def, ok := registry.Get(name); ok {
			return def, nil
		}
	}
	return nil, &LookupError{Names: names}
}
