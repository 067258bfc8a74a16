package engine

import (
	"errors"
	"testing"
)

func TestScopeShadowing(t *testing.T) {
	scope := NewScope(map[string]any{"name": "base", "keep": 1})

	scope.Push(map[string]any{"name": "inner"})

	if got, _ := scope.Lookup("name"); got != "inner" {
		t.Fatalf("expected inner binding to shadow base, got %v", got)
	}
	if got, _ := scope.Lookup("keep"); got != 1 {
		t.Fatalf("expected base binding to remain visible, got %v", got)
	}

	scope.Pop()
	if got, _ := scope.Lookup("name"); got != "base" {
		t.Fatalf("expected base binding after pop, got %v", got)
	}
}

func TestScopeBaseLayerNeverPopped(t *testing.T) {
	scope := NewScope(map[string]any{"x": true})
	scope.Pop()
	scope.Pop()

	if scope.Depth() != 1 {
		t.Fatalf("expected base layer to survive, depth %d", scope.Depth())
	}
	if _, ok := scope.Lookup("x"); !ok {
		t.Fatal("expected base binding to survive repeated pops")
	}
}

func TestScopeWithRestoresOnError(t *testing.T) {
	scope := NewScope(nil)
	boom := errors.New("boom")

	err := scope.With(map[string]any{"v": 1}, func() error {
		if _, ok := scope.Lookup("v"); !ok {
			t.Fatal("expected pushed binding inside With")
		}
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected error to propagate, got %v", err)
	}
	if scope.Depth() != 1 {
		t.Fatalf("expected layer popped after error, depth %d", scope.Depth())
	}
	if _, ok := scope.Lookup("v"); ok {
		t.Fatal("expected binding removed after With returned")
	}
}

func TestScopeSetBindsTopLayer(t *testing.T) {
	scope := NewScope(nil)
	scope.Push(nil)
	scope.Set("result", "stored")

	if got, _ := scope.Lookup("result"); got != "stored" {
		t.Fatalf("expected stored binding, got %v", got)
	}

	scope.Pop()
	if _, ok := scope.Lookup("result"); ok {
		t.Fatal("expected binding to disappear with its layer")
	}
}

func TestScopeFlatten(t *testing.T) {
	scope := NewScope(map[string]any{"a": 1, "b": 1})
	scope.Push(map[string]any{"b": 2, "c": 2})

	flat := scope.Flatten()
	if flat["a"] != 1 || flat["b"] != 2 || flat["c"] != 2 {
		t.Fatalf("unexpected flatten result: %v", flat)
	}
}

func TestScopeCopiesBase(t *testing.T) {
	base := map[string]any{"a": 1}
	scope := NewScope(base)
	scope.Set("a", 2)

	if base["a"] != 1 {
		t.Fatalf("expected caller map untouched, got %v", base["a"])
	}
}
