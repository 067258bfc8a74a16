package testsupport

import (
	"fmt"
	"os"

	"github.com/goliatone/go-sniplates/pkg/engine"
)

// Block is an in-memory engine.Block whose body is a Go function. Text and
// Func build the two common shapes; tests that need scope-sensitive bodies
// supply their own Body.
type Block struct {
	BlockName string
	Body      func(scope *engine.Scope) (string, error)
}

// Name implements engine.Block.
func (b *Block) Name() string { return b.BlockName }

// Render implements engine.Block.
func (b *Block) Render(scope *engine.Scope) (string, error) {
	if b.Body == nil {
		return "", nil
	}
	return b.Body(scope)
}

// Text builds a block that renders fixed output regardless of scope.
func Text(name, output string) *Block {
	return &Block{
		BlockName: name,
		Body: func(*engine.Scope) (string, error) {
			return output, nil
		},
	}
}

// Func builds a block from a render function.
func Func(name string, body func(scope *engine.Scope) (string, error)) *Block {
	return &Block{BlockName: name, Body: body}
}

// Var builds a block that renders the named scope variable as a string,
// using fallback when the variable is unbound.
func Var(name, variable, fallback string) *Block {
	return Func(name, func(scope *engine.Scope) (string, error) {
		value, ok := scope.Lookup(variable)
		if !ok {
			return fallback, nil
		}
		return fmt.Sprint(value), nil
	})
}

// Document is an in-memory engine.Document.
type Document struct {
	DocName   string
	Parent    string
	DocBlocks []engine.Block
}

// Name implements engine.Document.
func (d *Document) Name() string { return d.DocName }

// Extends implements engine.Document.
func (d *Document) Extends() string { return d.Parent }

// Blocks implements engine.Document.
func (d *Document) Blocks() []engine.Block { return d.DocBlocks }

// Loader serves Documents by name. Unknown names fail the way a host loader
// would, with a file-not-found error.
type Loader map[string]*Document

// Load implements engine.Loader.
func (l Loader) Load(name string) (engine.Document, error) {
	doc, ok := l[name]
	if !ok {
		return nil, fmt.Errorf("testsupport: load %q: %w", name, os.ErrNotExist)
	}
	return doc, nil
}
