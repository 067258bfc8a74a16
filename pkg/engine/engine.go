package engine

// Loader resolves a document identifier into a loaded document. Load errors
// are returned verbatim; the widget layer propagates them without wrapping so
// callers see the host engine's own failure.
type Loader interface {
	Load(name string) (Document, error)
}

// Document is a loaded template document. A document may extend at most one
// parent; Extends returns the parent identifier or "" when the document is the
// root of its inheritance chain.
type Document interface {
	Name() string
	Extends() string
	Blocks() []Block
}

// Block is a named renderable fragment declared inside a document. Render
// evaluates the block body against the supplied scope and returns the
// produced output.
type Block interface {
	Name() string
	Render(scope *Scope) (string, error)
}
