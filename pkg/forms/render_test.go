package forms

import (
	"errors"
	"testing"

	"github.com/goliatone/go-sniplates/pkg/engine"
	"github.com/goliatone/go-sniplates/pkg/testsupport"
	"github.com/goliatone/go-sniplates/pkg/widgets"
)

func formLibrary() testsupport.Loader {
	render := func(name string) *testsupport.Block {
		return testsupport.Func(name, func(scope *engine.Scope) (string, error) {
			label, _ := scope.Lookup("label")
			value, _ := scope.Lookup("value")
			out := name + "("
			if s, ok := label.(string); ok && s != "" {
				out += "label=" + s + " "
			}
			if s, ok := value.(string); ok {
				out += "value=" + s
			}
			return out + ")", nil
		})
	}
	return testsupport.Loader{
		"widgets/form.html": {
			DocName: "widgets/form.html",
			DocBlocks: []engine.Block{
				render("title"),
				render("TextInput"),
				render("CharField"),
			},
		},
		"widgets/admin.html": {
			DocName:   "widgets/admin.html",
			DocBlocks: []engine.Block{render("TextInput")},
		},
	}
}

func formContext(t *testing.T) *widgets.RenderContext {
	t.Helper()
	rc := widgets.NewRenderContext(formLibrary())
	err := rc.Load(map[string]string{
		"form":  "widgets/form.html",
		"admin": "widgets/admin.html",
	}, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return rc
}

func TestRenderFieldAutoWidgetPrecedence(t *testing.T) {
	rc := formContext(t)
	field := &BoundField{
		Name:       "title",
		FieldType:  FieldChar,
		WidgetType: WidgetTextInput,
		Label:      "Title",
		Value:      "hello",
	}

	// Registry defines blocks for the field name, widget kind, and field
	// kind; the name candidate precedes both and must win.
	out, err := RenderField(rc, field, "", nil)
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if out != "title(label=Title value=hello)" {
		t.Fatalf("expected name block to win, got %q", out)
	}
}

func TestRenderFieldFallsBackToWidgetBlock(t *testing.T) {
	rc := formContext(t)
	field := &BoundField{
		Name:       "subtitle",
		FieldType:  "UnknownField",
		WidgetType: WidgetTextInput,
		Value:      "x",
	}

	out, err := RenderField(rc, field, "", nil)
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if out != "TextInput(value=x)" {
		t.Fatalf("expected widget block fallback, got %q", out)
	}
}

func TestRenderFieldExplicitWidgetRef(t *testing.T) {
	rc := formContext(t)
	field := &BoundField{Name: "anything", Value: "v"}

	out, err := RenderField(rc, field, "admin:TextInput", nil)
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if out != "TextInput(value=v)" {
		t.Fatalf("expected explicit ref block, got %q", out)
	}
}

func TestRenderFieldAliasOverride(t *testing.T) {
	rc := formContext(t)
	field := &BoundField{Name: "x", WidgetType: WidgetTextInput, Value: "v"}

	out, err := RenderField(rc, field, "", map[string]any{"alias": "admin"})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if out != "TextInput(value=v)" {
		t.Fatalf("expected admin library block, got %q", out)
	}
}

func TestRenderFieldNoCandidateMatches(t *testing.T) {
	rc := formContext(t)
	field := &BoundField{Name: "ghost", FieldType: "GhostField", WidgetType: "GhostWidget"}

	_, err := RenderField(rc, field, "", nil)
	var lookupErr *widgets.LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected LookupError, got %v", err)
	}
	if len(lookupErr.Names) != 7 {
		t.Fatalf("expected all seven candidates reported, got %v", lookupErr.Names)
	}
}

func TestRenderFieldMalformedWidgetRef(t *testing.T) {
	rc := formContext(t)

	_, err := RenderField(rc, &BoundField{Name: "x"}, "nocolon", nil)
	var synErr *widgets.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
}
