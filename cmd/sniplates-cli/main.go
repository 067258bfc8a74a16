package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-sniplates/internal/manifest"
	"github.com/goliatone/go-sniplates/pkg/render/template/pongo2tpl"
	"github.com/goliatone/go-sniplates/pkg/widgets"
)

func main() {
	manifestPath := flag.String("manifest", "sniplates.yaml", "project manifest to render")
	templates := flag.String("templates", "", "template directory (overrides the manifest)")
	page := flag.String("page", "", "render only the page with this template name")
	output := flag.String("output", "", "output file for a single page (stdout if empty)")
	sanitize := flag.Bool("sanitize", false, "sanitize rendered HTML (overrides the manifest)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Failed to build logger: %v", err)
		}
		widgets.SetLogger(logger)
	}

	m, err := manifest.Load(*manifestPath)
	if err != nil {
		log.Fatalf("Failed to load manifest: %v", err)
	}
	if *templates != "" {
		m.Templates = *templates
	}
	if *sanitize {
		m.Sanitize = true
	}

	options := []pongo2tpl.Option{
		pongo2tpl.WithBaseDir(m.Templates),
	}
	if m.Extension != "" {
		options = append(options, pongo2tpl.WithExtension(m.Extension))
	}
	if len(m.Libraries) > 0 {
		options = append(options, pongo2tpl.WithWidgetLibraries(m.Libraries))
	}

	engine, err := pongo2tpl.New(options...)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	var policy *bluemonday.Policy
	if m.Sanitize {
		policy = bluemonday.UGCPolicy()
	}

	rendered := 0
	for _, pg := range m.Pages {
		if *page != "" && pg.Template != *page {
			continue
		}

		html, err := engine.RenderTemplate(pg.Template, m.ContextFor(pg))
		if err != nil {
			log.Fatalf("Failed to render %s: %v", pg.Template, err)
		}
		if policy != nil {
			html = policy.Sanitize(html)
		}

		dest := pg.Output
		if *page != "" && *output != "" {
			dest = *output
		}

		if dest == "" {
			fmt.Println(html)
		} else {
			if err := writePage(dest, html); err != nil {
				log.Fatalf("Failed to write %s: %v", dest, err)
			}
			fmt.Printf("Rendered %s to %s\n", pg.Template, dest)
		}
		rendered++
	}

	if rendered == 0 {
		if *page != "" {
			log.Fatalf("No page %q in manifest %s", *page, *manifestPath)
		}
		log.Fatalf("Manifest %s has no pages", *manifestPath)
	}
}

func writePage(dest, html string) error {
	dir := filepath.Dir(dest)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if !strings.HasSuffix(html, "\n") {
		html += "\n"
	}
	return os.WriteFile(dest, []byte(html), 0o644)
}
