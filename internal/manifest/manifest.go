// Package manifest parses the YAML project file the CLI renders from: where
// templates live, which widget libraries to preload, and which pages to
// produce.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest describes one rendering project.
type Manifest struct {
	// Templates is the directory templates and widget libraries load from.
	Templates string `yaml:"templates"`
	// Extension overrides the default template extension.
	Extension string `yaml:"extension"`
	// Libraries maps widget library aliases to their documents, preloaded
	// into every page render.
	Libraries map[string]string `yaml:"libraries"`
	// Soft makes the preload keep aliases a page already loaded itself.
	Soft bool `yaml:"soft"`
	// Context is data shared by every page.
	Context map[string]any `yaml:"context"`
	// Pages lists the templates to render.
	Pages []Page `yaml:"pages"`
	// Sanitize runs rendered output through an HTML sanitizer.
	Sanitize bool `yaml:"sanitize"`
}

// Page is one template to render, with optional page-local context layered
// over the shared context.
type Page struct {
	Template string         `yaml:"template"`
	Output   string         `yaml:"output"`
	Context  map[string]any `yaml:"context"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates manifest data. The source name only feeds
// error messages.
func Parse(data []byte, source string) (*Manifest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("manifest: file %s is empty", source)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", source, err)
	}

	if strings.TrimSpace(m.Templates) == "" {
		m.Templates = "."
	}

	for alias, document := range m.Libraries {
		if strings.TrimSpace(alias) == "" {
			return nil, fmt.Errorf("manifest: file %s defines a library with an empty alias", source)
		}
		if strings.TrimSpace(document) == "" {
			return nil, fmt.Errorf("manifest: file %s library %q needs a document", source, alias)
		}
	}

	if len(m.Pages) == 0 {
		return nil, fmt.Errorf("manifest: file %s declares no pages", source)
	}
	for i, page := range m.Pages {
		if strings.TrimSpace(page.Template) == "" {
			return nil, fmt.Errorf("manifest: file %s page %d needs a template", source, i)
		}
	}

	return &m, nil
}

// ContextFor merges the shared context with a page's own, the page winning on
// conflicts.
func (m *Manifest) ContextFor(page Page) map[string]any {
	merged := make(map[string]any, len(m.Context)+len(page.Context))
	for key, value := range m.Context {
		merged[key] = value
	}
	for key, value := range page.Context {
		merged[key] = value
	}
	return merged
}
