// Package widgets implements reusable template widgets: named blocks defined
// across a chain of inheriting template documents, collected into override
// aware registries, addressed as "alias:blockname", and rendered with a
// temporarily overridden variable scope.
//
// The package is host-agnostic. Documents, blocks, and loading come from the
// pkg/engine collaborator interfaces; the pongo2 host under
// pkg/render/template/pongo2tpl exposes these operations as template tags.
//
// All state lives on a RenderContext owned by a single render pass. Contexts
// are cheap, created per render, and must never be shared between concurrent
// renders.
package widgets
