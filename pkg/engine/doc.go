// Package engine declares the host-engine collaborators the widget layer
// renders against: document loading by identifier, inheritance-chain
// introspection on loaded documents, renderable block bodies, and a variable
// scope with lexical shadowing. Concrete hosts (the pongo2 adapter under
// pkg/render/template/pongo2tpl, the in-memory fixtures under pkg/testsupport)
// implement these interfaces; the core never parses template syntax itself.
package engine
