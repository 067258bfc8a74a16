package pongo2tpl

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-sniplates/pkg/engine"
	"github.com/goliatone/go-sniplates/pkg/forms"
	"github.com/goliatone/go-sniplates/pkg/widgets"
)

var registerTagsOnce sync.Once

// registerWidgetTags installs the widget directives into pongo2's global tag
// table. pongo2 rejects duplicate registrations, so this runs once per
// process regardless of how many engines get built.
func registerWidgetTags() {
	registerTagsOnce.Do(func() {
		mustRegisterTag("load_widgets", loadWidgetsParser)
		mustRegisterTag("widget", widgetParser)
		mustRegisterTag("nested_widget", nestedWidgetParser)
		mustRegisterTag("form_field", formFieldParser)
		mustRegisterTag("reuse", reuseParser)
	})
}

func mustRegisterTag(name string, parser pongo2.TagParser) {
	if err := pongo2.RegisterTag(name, parser); err != nil {
		panic(fmt.Sprintf("pongo2tpl: register tag %q: %v", name, err))
	}
}

// kwarg is a keyword argument parsed at compile time and evaluated per
// execution.
type kwarg struct {
	key   string
	value pongo2.IEvaluator
}

func peekAs(arguments *pongo2.Parser) bool {
	return arguments.Peek(pongo2.TokenKeyword, "as") != nil ||
		arguments.Peek(pongo2.TokenIdentifier, "as") != nil
}

func matchAs(arguments *pongo2.Parser) bool {
	return arguments.Match(pongo2.TokenKeyword, "as") != nil ||
		arguments.Match(pongo2.TokenIdentifier, "as") != nil
}

// parseTagArguments consumes "key=expr" pairs and an optional trailing
// "as var" capture.
func parseTagArguments(arguments *pongo2.Parser, allowAsVar bool) ([]kwarg, string, *pongo2.Error) {
	var kwargs []kwarg
	for arguments.Remaining() > 0 {
		if allowAsVar && peekAs(arguments) {
			break
		}
		ident := arguments.MatchType(pongo2.TokenIdentifier)
		if ident == nil {
			return nil, "", arguments.Error("expected a keyword argument (name=value)", arguments.Current())
		}
		if arguments.Match(pongo2.TokenSymbol, "=") == nil {
			return nil, "", arguments.Error(fmt.Sprintf("argument %q is missing '=value'", ident.Val), arguments.Current())
		}
		value, err := arguments.ParseExpression()
		if err != nil {
			return nil, "", err
		}
		kwargs = append(kwargs, kwarg{key: ident.Val, value: value})
	}

	asVar := ""
	if allowAsVar && matchAs(arguments) {
		ident := arguments.MatchType(pongo2.TokenIdentifier)
		if ident == nil {
			return nil, "", arguments.Error("'as' must be followed by a variable name", arguments.Current())
		}
		asVar = ident.Val
	}

	if arguments.Remaining() > 0 {
		return nil, "", arguments.Error("unexpected extra arguments", arguments.Current())
	}
	return kwargs, asVar, nil
}

func evalKwargs(ctx *pongo2.ExecutionContext, kwargs []kwarg) (map[string]any, *pongo2.Error) {
	overrides := make(map[string]any, len(kwargs))
	for _, kw := range kwargs {
		value, err := kw.value.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		overrides[kw.key] = value.Interface()
	}
	return overrides, nil
}

// stateFromContext digs the render pass state out of the execution context.
// Page renders carry it in Public; block bodies get it through the flattened
// scope.
func stateFromContext(ctx *pongo2.ExecutionContext, sender string) (*renderState, *pongo2.Error) {
	if st, ok := ctx.Private[stateKey].(*renderState); ok {
		return st, nil
	}
	if st, ok := ctx.Public[stateKey].(*renderState); ok {
		return st, nil
	}
	return nil, &pongo2.Error{
		Sender:    sender,
		OrigError: errors.New("pongo2tpl: widget tags need a pongo2tpl engine driving the render"),
	}
}

// wrapperBlock adapts the nodes between nested_widget and endnested into an
// engine.Block, so the widget layer can render the caller's inner content
// with overrides in scope.
type wrapperBlock struct {
	wrapper *pongo2.NodeWrapper
	ctx     *pongo2.ExecutionContext
}

func (w *wrapperBlock) Name() string { return widgets.ContentVar }

func (w *wrapperBlock) Render(scope *engine.Scope) (string, error) {
	child := pongo2.NewChildExecutionContext(w.ctx)
	for key, value := range scope.Flatten() {
		child.Private[key] = value
	}

	var buf bytes.Buffer
	if err := w.wrapper.Execute(child, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type widgetNode struct {
	position *pongo2.Token
	ref      pongo2.IEvaluator
	kwargs   []kwarg
	asVar    string
	content  *pongo2.NodeWrapper
}

func (node *widgetNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	sender := "tag:widget"
	if node.content != nil {
		sender = "tag:nested_widget"
	}

	st, perr := stateFromContext(ctx, sender)
	if perr != nil {
		return perr
	}
	refValue, perr := node.ref.Evaluate(ctx)
	if perr != nil {
		return perr
	}
	overrides, perr := evalKwargs(ctx, node.kwargs)
	if perr != nil {
		return perr
	}

	// template-local variables become visible to the widget for this call
	st.rc.Scope().Push(map[string]any(ctx.Private))
	defer st.rc.Scope().Pop()

	var (
		out string
		err error
	)
	if node.content != nil {
		body := &wrapperBlock{wrapper: node.content, ctx: ctx}
		out, err = st.rc.RenderNested(refValue.String(), overrides, body, "")
	} else {
		out, err = st.rc.RenderWidget(refValue.String(), overrides, "")
	}
	if err != nil {
		return &pongo2.Error{Sender: sender, OrigError: err}
	}

	if node.asVar != "" {
		ctx.Private[node.asVar] = out
		return nil
	}
	if _, werr := writer.WriteString(out); werr != nil {
		return ctx.Error(werr.Error(), node.position)
	}
	return nil
}

func parseWidgetRef(arguments *pongo2.Parser, start *pongo2.Token) (pongo2.IEvaluator, *pongo2.Error) {
	if arguments.Remaining() == 0 {
		return nil, arguments.Error("missing widget reference (\"alias:block_name\")", start)
	}
	// literal references get validated at compile time
	if tok := arguments.PeekType(pongo2.TokenString); tok != nil {
		if _, _, err := widgets.ParseRef(tok.Val); err != nil {
			return nil, arguments.Error(err.Error(), tok)
		}
	}
	return arguments.ParseExpression()
}

func widgetParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node := &widgetNode{position: start}

	ref, err := parseWidgetRef(arguments, start)
	if err != nil {
		return nil, err
	}
	node.ref = ref

	node.kwargs, node.asVar, err = parseTagArguments(arguments, true)
	if err != nil {
		return nil, err
	}
	return node, nil
}

func nestedWidgetParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node := &widgetNode{position: start}

	ref, err := parseWidgetRef(arguments, start)
	if err != nil {
		return nil, err
	}
	node.ref = ref

	node.kwargs, node.asVar, err = parseTagArguments(arguments, true)
	if err != nil {
		return nil, err
	}

	wrapper, _, err := doc.WrapUntilTag("endnested")
	if err != nil {
		return nil, err
	}
	node.content = wrapper
	return node, nil
}

type loadWidgetsNode struct {
	position *pongo2.Token
	kwargs   []kwarg
}

func (node *loadWidgetsNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	st, perr := stateFromContext(ctx, "tag:load_widgets")
	if perr != nil {
		return perr
	}
	values, perr := evalKwargs(ctx, node.kwargs)
	if perr != nil {
		return perr
	}

	soft := false
	if v, ok := values["_soft"]; ok {
		soft = pongo2.AsValue(v).IsTrue()
		delete(values, "_soft")
	}

	aliases := make(map[string]string, len(values))
	for alias, value := range values {
		document, ok := value.(string)
		if !ok {
			return ctx.Error(fmt.Sprintf("load_widgets: alias %q needs a template name, got %T", alias, value), node.position)
		}
		aliases[alias] = document
	}

	if err := st.rc.Load(aliases, soft); err != nil {
		return &pongo2.Error{Sender: "tag:load_widgets", OrigError: err}
	}
	return nil
}

func loadWidgetsParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node := &loadWidgetsNode{position: start}

	kwargs, _, err := parseTagArguments(arguments, false)
	if err != nil {
		return nil, err
	}
	if len(kwargs) == 0 {
		return nil, arguments.Error("load_widgets needs at least one alias=template pair", start)
	}
	node.kwargs = kwargs
	return node, nil
}

type reuseNode struct {
	position *pongo2.Token
	names    pongo2.IEvaluator
	kwargs   []kwarg
}

func (node *reuseNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	st, perr := stateFromContext(ctx, "tag:reuse")
	if perr != nil {
		return perr
	}
	namesValue, perr := node.names.Evaluate(ctx)
	if perr != nil {
		return perr
	}
	overrides, perr := evalKwargs(ctx, node.kwargs)
	if perr != nil {
		return perr
	}

	var names []string
	switch v := namesValue.Interface().(type) {
	case string:
		names = []string{v}
	case []string:
		names = v
	case []any:
		for _, item := range v {
			names = append(names, fmt.Sprint(item))
		}
	default:
		return ctx.Error(fmt.Sprintf("reuse: expected a block name or list of names, got %T", v), node.position)
	}

	st.rc.Scope().Push(map[string]any(ctx.Private))
	defer st.rc.Scope().Pop()

	out, err := st.rc.Reuse(names, overrides)
	if err != nil {
		return &pongo2.Error{Sender: "tag:reuse", OrigError: err}
	}
	if _, werr := writer.WriteString(out); werr != nil {
		return ctx.Error(werr.Error(), node.position)
	}
	return nil
}

func reuseParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node := &reuseNode{position: start}

	if arguments.Remaining() == 0 {
		return nil, arguments.Error("reuse needs a block name or list of names", start)
	}
	names, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	node.names = names

	node.kwargs, _, err = parseTagArguments(arguments, false)
	if err != nil {
		return nil, err
	}
	return node, nil
}

type formFieldNode struct {
	position *pongo2.Token
	field    pongo2.IEvaluator
	kwargs   []kwarg
}

func (node *formFieldNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	st, perr := stateFromContext(ctx, "tag:form_field")
	if perr != nil {
		return perr
	}
	fieldValue, perr := node.field.Evaluate(ctx)
	if perr != nil {
		return perr
	}
	overrides, perr := evalKwargs(ctx, node.kwargs)
	if perr != nil {
		return perr
	}

	field, err := forms.AsBoundField(fieldValue.Interface())
	if err != nil {
		return &pongo2.Error{Sender: "tag:form_field", OrigError: err}
	}

	widgetRef := ""
	if v, ok := overrides["widget"]; ok {
		widgetRef = fmt.Sprint(v)
		delete(overrides, "widget")
	}

	st.rc.Scope().Push(map[string]any(ctx.Private))
	defer st.rc.Scope().Pop()

	out, err := forms.RenderField(st.rc, field, widgetRef, overrides)
	if err != nil {
		return &pongo2.Error{Sender: "tag:form_field", OrigError: err}
	}
	if _, werr := writer.WriteString(out); werr != nil {
		return ctx.Error(werr.Error(), node.position)
	}
	return nil
}

func formFieldParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node := &formFieldNode{position: start}

	if arguments.Remaining() == 0 {
		return nil, arguments.Error("form_field needs a field", start)
	}
	field, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	node.field = field

	node.kwargs, _, err = parseTagArguments(arguments, false)
	if err != nil {
		return nil, err
	}
	return node, nil
}
