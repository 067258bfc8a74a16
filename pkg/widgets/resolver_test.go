package widgets

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-sniplates/pkg/engine"
	"github.com/goliatone/go-sniplates/pkg/testsupport"
)

func inheritanceChain() testsupport.Loader {
	// a extends b extends c; c defines x and y, a redefines x.
	return testsupport.Loader{
		"a": {
			DocName:   "a",
			Parent:    "b",
			DocBlocks: []engine.Block{testsupport.Text("x", "from-a")},
		},
		"b": {
			DocName:   "b",
			Parent:    "c",
			DocBlocks: []engine.Block{testsupport.Text("z", "from-b")},
		},
		"c": {
			DocName: "c",
			DocBlocks: []engine.Block{
				testsupport.Text("x", "from-c"),
				testsupport.Text("y", "from-c"),
			},
		},
	}
}

func TestResolveBlocksOverrideLayering(t *testing.T) {
	loader := inheritanceChain()
	registry := NewBlockRegistry()

	if err := ResolveBlocks(loader, "a", registry); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	def, ok := registry.Get("x")
	if !ok {
		t.Fatal("expected x to resolve")
	}
	out, err := def.Body().Render(engine.NewScope(nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "from-a" {
		t.Fatalf("expected most derived definition, got %q", out)
	}

	// Blocks only the root declares still resolve.
	if _, ok := registry.Get("y"); !ok {
		t.Fatal("expected y from the chain root to resolve")
	}
	if _, ok := registry.Get("z"); !ok {
		t.Fatal("expected z from the middle document to resolve")
	}

	// The overridden ancestor stays reachable through the chain.
	parent := def.Parent()
	if parent == nil {
		t.Fatal("expected x to keep its overridden ancestor")
	}
	out, _ = parent.Body().Render(engine.NewScope(nil))
	if out != "from-c" {
		t.Fatalf("expected ancestor definition, got %q", out)
	}
}

func TestResolveBlocksRepeatedResolutionIsStable(t *testing.T) {
	loader := inheritanceChain()
	registry := NewBlockRegistry()

	if err := ResolveBlocks(loader, "a", registry); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := ResolveBlocks(loader, "a", registry); err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	def, _ := registry.Get("x")
	depth := 0
	for d := def; d != nil; d = d.Parent() {
		depth++
	}
	if depth != 2 {
		t.Fatalf("expected chain depth 2 after repeated resolution, got %d", depth)
	}
}

func TestResolveBlocksPropagatesLoaderError(t *testing.T) {
	loader := testsupport.Loader{
		"orphan": {DocName: "orphan", Parent: "missing"},
	}

	err := ResolveBlocks(loader, "orphan", NewBlockRegistry())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected loader error to propagate untouched, got %v", err)
	}
}

func TestResolveBlocksCircularExtendsChain(t *testing.T) {
	loader := testsupport.Loader{
		"a": {
			DocName:   "a",
			Parent:    "b",
			DocBlocks: []engine.Block{testsupport.Text("x", "from-a")},
		},
		"b": {
			DocName:   "b",
			Parent:    "a",
			DocBlocks: []engine.Block{testsupport.Text("y", "from-b")},
		},
	}

	err := ResolveBlocks(loader, "a", NewBlockRegistry())
	if err == nil {
		t.Fatal("expected error for circular extends chain")
	}
	if !strings.Contains(err.Error(), "circular extends chain") {
		t.Fatalf("error = %v, want circular extends failure", err)
	}
	if !strings.Contains(err.Error(), "a -> b -> a") {
		t.Fatalf("error = %v, want the cycle spelled out", err)
	}
}

func TestResolveDocumentSelfExtendsChain(t *testing.T) {
	loader := testsupport.Loader{
		"solo": {
			DocName:   "solo",
			Parent:    "solo",
			DocBlocks: []engine.Block{testsupport.Text("x", "from-solo")},
		},
	}

	doc, err := loader.Load("solo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := ResolveDocument(loader, doc, NewBlockRegistry()); err == nil {
		t.Fatal("expected error for self-extending document")
	}
}
