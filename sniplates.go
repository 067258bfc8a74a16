// Package sniplates composes reusable template widgets: blocks defined in
// ordinary templates, layered through template inheritance, and rendered
// through directives like widget, nested_widget, and form_field.
package sniplates

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-sniplates/pkg/forms"
	formsopenapi "github.com/goliatone/go-sniplates/pkg/forms/openapi"
	"github.com/goliatone/go-sniplates/pkg/render/template/pongo2tpl"
	"github.com/goliatone/go-sniplates/pkg/widgets"
)

// Engine is the pongo2-backed template engine with the widget directives
// installed; alias exported via the root package for convenience.
type Engine = pongo2tpl.Engine

// RenderContext owns the widget state of one render pass.
type RenderContext = widgets.RenderContext

// BlockRegistry holds the resolved blocks of one widget library.
type BlockRegistry = widgets.BlockRegistry

// BoundField is the field description form_field renders from.
type BoundField = forms.BoundField

// Choice is one selectable option on a choice field.
type Choice = forms.Choice

// New constructs a template engine. See pongo2tpl for the full option set.
func New(options ...pongo2tpl.Option) (*Engine, error) {
	return pongo2tpl.New(options...)
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) pongo2tpl.Option { return pongo2tpl.WithBaseDir(dir) }

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) pongo2tpl.Option { return pongo2tpl.WithFS(files) }

// WithWidgetLibraries preloads widget libraries into every render pass.
func WithWidgetLibraries(aliases map[string]string) pongo2tpl.Option {
	return pongo2tpl.WithWidgetLibraries(aliases)
}

// FieldsFromOpenAPI builds bound fields from an OpenAPI document's named
// schema, ready to feed the form_field directive.
func FieldsFromOpenAPI(ctx context.Context, document []byte, schemaName string) ([]BoundField, error) {
	binder := formsopenapi.NewBinder()
	return binder.Fields(ctx, document, schemaName)
}
