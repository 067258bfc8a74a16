package widgets

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-sniplates/pkg/engine"
)

// ResolveBlocks loads the named document and folds every block along its
// inheritance chain into registry, most specific document first. Load
// failures propagate from the host loader untouched; a circular extends
// chain fails with an error naming the cycle instead of recursing forever.
func ResolveBlocks(loader engine.Loader, name string, registry *BlockRegistry) error {
	return resolveBlocks(loader, name, registry, nil)
}

// ResolveDocument folds an already-loaded document into registry, then
// recurses through its parent chain. Calling it repeatedly with the same
// chain leaves the registry unchanged.
func ResolveDocument(loader engine.Loader, doc engine.Document, registry *BlockRegistry) error {
	return resolveDocument(loader, doc, registry, []string{doc.Name()})
}

func resolveBlocks(loader engine.Loader, name string, registry *BlockRegistry, chain []string) error {
	for _, seen := range chain {
		if seen == name {
			return fmt.Errorf("widgets: circular extends chain: %s",
				strings.Join(append(chain, name), " -> "))
		}
	}

	doc, err := loader.Load(name)
	if err != nil {
		return err
	}
	return resolveDocument(loader, doc, registry, append(chain, name))
}

func resolveDocument(loader engine.Loader, doc engine.Document, registry *BlockRegistry, chain []string) error {
	registry.AddBlocks(doc.Blocks())

	Logger().Debug("resolved document blocks",
		zap.String("document", doc.Name()),
		zap.Int("blocks", len(doc.Blocks())),
	)

	if parent := doc.Extends(); parent != "" {
		return resolveBlocks(loader, parent, registry, chain)
	}
	return nil
}
