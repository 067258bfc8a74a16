package engine

// Scope is an ordered stack of variable layers with lexical shadowing: a
// lookup walks from the most recently pushed layer down to the base layer.
// Scopes belong to a single render pass and are not safe for concurrent use.
type Scope struct {
	layers []map[string]any
}

// NewScope constructs a scope seeded with a copy of base as its bottom layer.
// A nil base yields an empty bottom layer.
func NewScope(base map[string]any) *Scope {
	bottom := make(map[string]any, len(base))
	for key, value := range base {
		bottom[key] = value
	}
	return &Scope{layers: []map[string]any{bottom}}
}

// Push adds a new layer containing a copy of vars. Pass nil to push an empty
// layer.
func (s *Scope) Push(vars map[string]any) {
	layer := make(map[string]any, len(vars))
	for key, value := range vars {
		layer[key] = value
	}
	s.layers = append(s.layers, layer)
}

// Pop removes the most recent layer. The base layer is never popped.
func (s *Scope) Pop() {
	if len(s.layers) <= 1 {
		return
	}
	s.layers = s.layers[:len(s.layers)-1]
}

// Depth reports the number of layers currently on the stack.
func (s *Scope) Depth() int {
	return len(s.layers)
}

// Set binds key in the most recent layer, shadowing any binding below.
func (s *Scope) Set(key string, value any) {
	s.layers[len(s.layers)-1][key] = value
}

// Lookup returns the binding for key from the innermost layer that defines it.
func (s *Scope) Lookup(key string) (any, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if value, ok := s.layers[i][key]; ok {
			return value, true
		}
	}
	return nil, false
}

// Flatten merges every layer into a single map, innermost bindings winning.
func (s *Scope) Flatten() map[string]any {
	size := 0
	for _, layer := range s.layers {
		size += len(layer)
	}
	merged := make(map[string]any, size)
	for _, layer := range s.layers {
		for key, value := range layer {
			merged[key] = value
		}
	}
	return merged
}

// With runs fn with vars pushed as a new layer, popping the layer when fn
// returns, including on error.
func (s *Scope) With(vars map[string]any, fn func() error) error {
	s.Push(vars)
	defer s.Pop()
	return fn()
}
