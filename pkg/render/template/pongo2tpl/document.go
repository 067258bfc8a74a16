package pongo2tpl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-sniplates/pkg/engine"
)

// Document is a widget library template reduced to what block resolution
// needs: its inheritance parent and its blocks, nested ones included. Block
// bodies are compiled as standalone pongo2 templates so they can render
// against any scope a widget call hands them.
type Document struct {
	name   string
	parent string
	blocks []engine.Block
}

// Name returns the template name the document was loaded under.
func (d *Document) Name() string { return d.name }

// Extends returns the parent template name, or empty for a root document.
func (d *Document) Extends() string { return d.parent }

// Blocks returns the document's blocks in source order.
func (d *Document) Blocks() []engine.Block { return d.blocks }

type documentBlock struct {
	name string
	tpl  *pongo2.Template
}

func (b *documentBlock) Name() string { return b.name }

// Render executes the block body against the flattened scope. Widget state
// rides along in the scope's base layer, so widget tags inside the body keep
// working.
func (b *documentBlock) Render(scope *engine.Scope) (string, error) {
	var buf bytes.Buffer
	if err := b.tpl.ExecuteWriter(pongo2.Context(scope.Flatten()), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Load fetches and scans a widget library document, compiling its block
// bodies. Documents are cached per engine; repeated resolution of the same
// library reuses the same block instances.
func (e *Engine) Load(name string) (engine.Document, error) {
	path := name
	if !strings.HasSuffix(path, e.tplExt) {
		path += e.tplExt
	}

	e.mu.RLock()
	if doc, ok := e.documents[path]; ok {
		e.mu.RUnlock()
		return doc, nil
	}
	e.mu.RUnlock()

	source, err := e.readSource(path)
	if err != nil {
		return nil, err
	}

	scanned, err := scanDocument(source)
	if err != nil {
		return nil, fmt.Errorf("pongo2tpl: scan document %q: %w", path, err)
	}

	doc := &Document{name: name, parent: scanned.extends}
	for _, block := range scanned.blocks {
		tpl, err := e.templateSet.FromString(block.body)
		if err != nil {
			return nil, fmt.Errorf("pongo2tpl: parse block %q in %q: %w", block.name, path, err)
		}
		doc.blocks = append(doc.blocks, &documentBlock{name: block.name, tpl: tpl})
	}

	e.mu.Lock()
	e.documents[path] = doc
	e.mu.Unlock()

	return doc, nil
}

func (e *Engine) readSource(path string) (string, error) {
	var firstErr error
	for _, loader := range e.loaders {
		rd, err := loader.Get(loader.Abs("", path))
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		raw, err := io.ReadAll(rd)
		if err != nil {
			return "", fmt.Errorf("pongo2tpl: read document %q: %w", path, err)
		}
		return string(raw), nil
	}
	if firstErr != nil {
		return "", fmt.Errorf("pongo2tpl: load document %q: %w", path, firstErr)
	}
	return "", fmt.Errorf("pongo2tpl: load document %q: no loaders configured", path)
}

type scannedDoc struct {
	extends string
	blocks  []scannedBlock
}

type scannedBlock struct {
	name string
	body string
}

// scanDocument extracts the extends target and block spans from template
// source without fully parsing it. Every block registers as a widget of its
// own, nested ones included; a nested block's markup also stays inside its
// enclosing block's body so it still renders inline there. Comments,
// comment sections, and verbatim sections are skipped, and pongo2's
// whitespace-control markers ({%- ... -%}) are tolerated.
func scanDocument(source string) (*scannedDoc, error) {
	doc := &scannedDoc{}

	type openBlock struct {
		idx       int
		bodyStart int
	}

	var (
		stack      []openBlock
		inVerbatim bool
		inComment  bool
	)

	pos := 0
	for {
		open := strings.Index(source[pos:], "{%")
		comment := strings.Index(source[pos:], "{#")
		if !inVerbatim && !inComment && comment >= 0 && (open < 0 || comment < open) {
			end := strings.Index(source[pos+comment:], "#}")
			if end < 0 {
				return nil, errors.New("unterminated comment")
			}
			pos += comment + end + 2
			continue
		}
		if open < 0 {
			break
		}

		tagStart := pos + open
		closeRel := strings.Index(source[tagStart:], "%}")
		if closeRel < 0 {
			return nil, errors.New("unterminated tag")
		}
		tagEnd := tagStart + closeRel + 2

		content := strings.TrimSpace(source[tagStart+2 : tagStart+closeRel])
		content = strings.TrimPrefix(content, "-")
		content = strings.TrimSuffix(content, "-")
		fields := strings.Fields(content)
		pos = tagEnd
		if len(fields) == 0 {
			continue
		}

		if inVerbatim {
			if fields[0] == "endverbatim" {
				inVerbatim = false
			}
			continue
		}
		if inComment {
			if fields[0] == "endcomment" {
				inComment = false
			}
			continue
		}

		switch fields[0] {
		case "verbatim":
			inVerbatim = true
		case "comment":
			inComment = true
		case "extends":
			if len(stack) > 0 {
				continue
			}
			if len(fields) < 2 {
				return nil, errors.New("extends needs a template name")
			}
			parent, ok := unquote(fields[1])
			if !ok {
				return nil, fmt.Errorf("extends %s: widget documents only support literal parents", fields[1])
			}
			doc.extends = parent
		case "block":
			if len(fields) < 2 {
				return nil, errors.New("block needs a name")
			}
			doc.blocks = append(doc.blocks, scannedBlock{name: fields[1]})
			stack = append(stack, openBlock{idx: len(doc.blocks) - 1, bodyStart: tagEnd})
		case "endblock":
			if len(stack) == 0 {
				return nil, errors.New("endblock without a matching block")
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			doc.blocks[top.idx].body = source[top.bodyStart:tagStart]
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("block %q is never closed", doc.blocks[stack[len(stack)-1].idx].name)
	}
	return doc, nil
}

func unquote(token string) (string, bool) {
	if len(token) >= 2 && (token[0] == '"' || token[0] == '\'') && token[len(token)-1] == token[0] {
		return token[1 : len(token)-1], true
	}
	return "", false
}
