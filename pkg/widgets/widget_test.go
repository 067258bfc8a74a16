package widgets

import (
	"errors"
	"testing"

	"github.com/goliatone/go-sniplates/pkg/engine"
	"github.com/goliatone/go-sniplates/pkg/testsupport"
)

func TestParseRef(t *testing.T) {
	cases := []struct {
		ref   string
		alias string
		block string
		fails bool
	}{
		{ref: "form:input", alias: "form", block: "input"},
		{ref: ":sibling", alias: "", block: "sibling"},
		{ref: "a:b:c", alias: "a", block: "b:c"},
		{ref: "noseparator", fails: true},
		{ref: "", fails: true},
	}

	for _, tc := range cases {
		alias, block, err := ParseRef(tc.ref)
		if tc.fails {
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("ref %q: expected SyntaxError, got %v", tc.ref, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ref %q: %v", tc.ref, err)
		}
		if alias != tc.alias || block != tc.block {
			t.Fatalf("ref %q: got (%q, %q)", tc.ref, alias, block)
		}
	}
}

func widgetFixture(t *testing.T) *RenderContext {
	t.Helper()
	loader := testsupport.Loader{
		"widgets/form.html": {
			DocName: "widgets/form.html",
			DocBlocks: []engine.Block{
				testsupport.Var("input", "value", "<empty>"),
				testsupport.Func("wrap", func(scope *engine.Scope) (string, error) {
					content, _ := scope.Lookup(ContentVar)
					label, ok := scope.Lookup("label")
					if !ok {
						label = "?"
					}
					return "<fieldset>" + toString(label) + "|" + toString(content) + "</fieldset>", nil
				}),
				testsupport.Func("sibling_caller", func(scope *engine.Scope) (string, error) {
					return "sibling says " + lookupString(scope, "greeting"), nil
				}),
			},
		},
	}

	rc := NewRenderContext(loader, WithVars(map[string]any{"greeting": "hello"}))
	if err := rc.Load(map[string]string{"form": "widgets/form.html"}, false); err != nil {
		t.Fatalf("load: %v", err)
	}
	return rc
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func lookupString(scope *engine.Scope, key string) string {
	v, _ := scope.Lookup(key)
	return toString(v)
}

func TestRenderWidgetAppliesOverrides(t *testing.T) {
	rc := widgetFixture(t)

	out, err := rc.RenderWidget("form:input", map[string]any{"value": "bound"}, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "bound" {
		t.Fatalf("expected override visible to block, got %q", out)
	}

	// The override layer is popped after the render.
	if _, ok := rc.Scope().Lookup("value"); ok {
		t.Fatal("expected override layer popped after render")
	}
}

func TestRenderWidgetStoreAs(t *testing.T) {
	rc := widgetFixture(t)

	out, err := rc.RenderWidget("form:input", map[string]any{"value": "stored"}, "rendered")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no emitted output with store-as, got %q", out)
	}
	if got, _ := rc.Scope().Lookup("rendered"); got != "stored" {
		t.Fatalf("expected result bound in caller scope, got %v", got)
	}
}

func TestRenderWidgetUnknownBlock(t *testing.T) {
	rc := widgetFixture(t)

	_, err := rc.RenderWidget("form:nope", nil, "")
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected LookupError, got %v", err)
	}
}

func TestRenderWidgetScopeRestoredOnBlockFailure(t *testing.T) {
	boom := errors.New("block exploded")
	loader := testsupport.Loader{
		"lib.html": {
			DocName: "lib.html",
			DocBlocks: []engine.Block{
				testsupport.Func("bad", func(*engine.Scope) (string, error) {
					return "", boom
				}),
			},
		},
	}
	rc := NewRenderContext(loader)
	if err := rc.Load(map[string]string{"lib": "lib.html"}, false); err != nil {
		t.Fatalf("load: %v", err)
	}

	depth := rc.Scope().Depth()
	active := rc.ActiveBlocks()

	_, err := rc.RenderWidget("lib:bad", map[string]any{"x": 1}, "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected block failure to propagate, got %v", err)
	}
	if rc.Scope().Depth() != depth {
		t.Fatal("expected no leaked scope layer after failure")
	}
	if rc.ActiveBlocks() != active {
		t.Fatal("expected active registry restored after failure")
	}
}

func TestRenderNestedContentVisibility(t *testing.T) {
	rc := widgetFixture(t)

	body := testsupport.Func("", func(scope *engine.Scope) (string, error) {
		// Overrides must be visible while the nested body renders.
		return "inner:" + lookupString(scope, "label"), nil
	})

	out, err := rc.RenderNested("form:wrap", map[string]any{"label": "Name"}, body, "")
	if err != nil {
		t.Fatalf("render nested: %v", err)
	}
	if out != "<fieldset>Name|inner:Name</fieldset>" {
		t.Fatalf("unexpected nested output %q", out)
	}

	// Changing the body changes only the content variable's value.
	other := testsupport.Text("", "static")
	out, err = rc.RenderNested("form:wrap", map[string]any{"label": "Name"}, other, "")
	if err != nil {
		t.Fatalf("render nested: %v", err)
	}
	if out != "<fieldset>Name|static</fieldset>" {
		t.Fatalf("unexpected nested output %q", out)
	}
}

func TestRenderNestedNilBody(t *testing.T) {
	rc := widgetFixture(t)

	out, err := rc.RenderNested("form:wrap", map[string]any{"label": "L"}, nil, "")
	if err != nil {
		t.Fatalf("render nested: %v", err)
	}
	if out != "<fieldset>L|</fieldset>" {
		t.Fatalf("expected empty content for nil body, got %q", out)
	}
}

func TestEmptyAliasResolvesAgainstActiveLibrary(t *testing.T) {
	loader := testsupport.Loader{
		"p.html": {
			DocName: "p.html",
			DocBlocks: []engine.Block{
				testsupport.Text("sibling", "p-sibling"),
			},
		},
		"q.html": {
			DocName: "q.html",
			DocBlocks: []engine.Block{
				testsupport.Text("sibling", "q-sibling"),
			},
		},
	}
	rc := NewRenderContext(loader)
	if err := rc.Load(map[string]string{"p": "p.html", "q": "q.html"}, false); err != nil {
		t.Fatalf("load: %v", err)
	}

	// A ":sibling" reference made while p is active must resolve in p.
	var out string
	err := rc.Using("p", func(*BlockRegistry) error {
		var err error
		out, err = rc.RenderWidget(":sibling", nil, "")
		return err
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "p-sibling" {
		t.Fatalf("expected active library's sibling, got %q", out)
	}
}

func TestReuseRendersActiveSibling(t *testing.T) {
	rc := widgetFixture(t)

	var out string
	err := rc.Using("form", func(*BlockRegistry) error {
		var err error
		out, err = rc.Reuse([]string{"missing", "sibling_caller"}, map[string]any{"greeting": "hi"})
		return err
	})
	if err != nil {
		t.Fatalf("reuse: %v", err)
	}
	if out != "sibling says hi" {
		t.Fatalf("unexpected reuse output %q", out)
	}
}

func TestReuseDegradesToEmptyOutput(t *testing.T) {
	rc := widgetFixture(t)

	out, err := rc.Reuse([]string{"nothing", "here"}, nil)
	if err != nil {
		t.Fatalf("reuse must not fail on miss: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
