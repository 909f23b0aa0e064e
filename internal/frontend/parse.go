package frontend

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/roach88/stylusport/internal/syntax"
)

// ParseFile reads path and parses it as Rust source.
func ParseFile(ctx context.Context, path string) (*syntax.File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseSource(ctx, path, content)
}

// ParseSource parses Rust source into the structural view.
// path is recorded on the result and used in error messages only.
//
// Each call uses its own tree-sitter parser, so concurrent calls are safe.
func ParseSource(ctx context.Context, path string, content []byte) (*syntax.File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxErrorAt(path, root, content)
	}

	w := &walker{content: content}
	file := &syntax.File{
		Path:  path,
		Lines: int(root.EndPoint().Row) + 1,
	}
	file.Items, file.Doc = w.items(root)
	return file, nil
}

// syntaxErrorAt locates the first ERROR or MISSING node in document order.
func syntaxErrorAt(path string, root *sitter.Node, content []byte) *SyntaxError {
	bad := firstBadNode(root)
	if bad == nil {
		bad = root
	}
	pos := bad.StartPoint()
	msg := "unexpected syntax"
	switch {
	case bad.IsMissing():
		msg = fmt.Sprintf("missing %s", bad.Type())
	case bad.IsError():
		text := strings.TrimSpace(bad.Content(content))
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
		if text != "" {
			msg = fmt.Sprintf("unexpected %q", text)
		}
	}
	return &SyntaxError{
		Path:    path,
		Line:    int(pos.Row) + 1,
		Column:  int(pos.Column) + 1,
		Message: msg,
	}
}

func firstBadNode(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstBadNode(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

type walker struct {
	content []byte
}

func (w *walker) text(n *sitter.Node) string {
	return n.Content(w.content)
}

// items converts the items of a source_file or declaration_list.
// Outer attributes and /// comments attach to the next item; //! comments
// are returned as the container's doc.
func (w *walker) items(container *sitter.Node) ([]*syntax.Item, string) {
	var (
		out       []*syntax.Item
		attrs     []syntax.Attribute
		docs      []string
		innerDocs []string
	)

	for i := 0; i < int(container.NamedChildCount()); i++ {
		child := container.NamedChild(i)
		switch child.Type() {
		case "attribute_item":
			if a, ok := w.attribute(child); ok {
				attrs = append(attrs, a)
			}
			continue
		case "inner_attribute_item", "block_comment":
			continue
		case "line_comment":
			text := w.text(child)
			if doc, ok := outerDoc(text); ok {
				docs = append(docs, doc)
			} else if doc, ok := innerDoc(text); ok {
				innerDocs = append(innerDocs, doc)
			}
			continue
		}

		item := w.item(child)
		item.Attributes = attrs
		item.Doc = strings.Join(docs, "\n")
		out = append(out, item)
		attrs, docs = nil, nil
	}
	return out, strings.Join(innerDocs, "\n")
}

func (w *walker) item(n *sitter.Node) *syntax.Item {
	item := &syntax.Item{
		Kind:       syntax.ItemOther,
		Visibility: w.visibility(n),
		Line:       int(n.StartPoint().Row) + 1,
		EndLine:    int(n.EndPoint().Row) + 1,
	}
	if name := n.ChildByFieldName("name"); name != nil {
		item.Name = w.text(name)
	}

	switch n.Type() {
	case "mod_item":
		item.Kind = syntax.ItemModule
		if body := n.ChildByFieldName("body"); body != nil {
			item.Items, _ = w.items(body)
			if item.Items == nil {
				item.Items = []*syntax.Item{}
			}
		}
	case "function_item":
		item.Kind = syntax.ItemFunction
		if params := n.ChildByFieldName("parameters"); params != nil {
			item.Params = w.params(params)
		}
		if ret := n.ChildByFieldName("return_type"); ret != nil {
			item.ReturnType = w.typ(ret)
		}
	case "struct_item":
		item.Kind = syntax.ItemStruct
		if body := n.ChildByFieldName("body"); body != nil && body.Type() == "field_declaration_list" {
			item.Fields = w.fields(body)
		}
	}
	return item
}

// visibility returns the normalized visibility_modifier text, or "".
func (w *walker) visibility(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "visibility_modifier" {
			return syntax.Canonicalize(w.text(child))
		}
	}
	return ""
}

// attribute converts #[path(args)]. The argument text is the source
// between the delimiters with each comment replaced by a single space.
func (w *walker) attribute(n *sitter.Node) (syntax.Attribute, bool) {
	var attr *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "attribute" || c.Type() == "meta_item" {
			attr = c
			break
		}
	}
	if attr == nil || attr.NamedChildCount() == 0 {
		return syntax.Attribute{}, false
	}

	out := syntax.Attribute{Path: syntax.Canonicalize(w.text(attr.NamedChild(0)))}
	if args := attr.ChildByFieldName("arguments"); args != nil {
		raw := w.withoutComments(args)
		if len(raw) >= 2 {
			out.Args = raw[1 : len(raw)-1]
		}
		out.HasArgs = true
	}
	return out, true
}

func (w *walker) fields(list *sitter.Node) []syntax.Field {
	var (
		out   []syntax.Field
		attrs []syntax.Attribute
		docs  []string
	)
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "attribute_item":
			if a, ok := w.attribute(child); ok {
				attrs = append(attrs, a)
			}
		case "line_comment":
			if doc, ok := outerDoc(w.text(child)); ok {
				docs = append(docs, doc)
			}
		case "field_declaration":
			f := syntax.Field{
				Visibility: w.visibility(child),
				Attributes: attrs,
				Doc:        strings.Join(docs, "\n"),
			}
			if name := child.ChildByFieldName("name"); name != nil {
				f.Name = w.text(name)
			}
			if ty := child.ChildByFieldName("type"); ty != nil {
				f.Type = w.typ(ty)
			}
			out = append(out, f)
			attrs, docs = nil, nil
		}
	}
	return out
}

func (w *walker) params(list *sitter.Node) []syntax.Param {
	var out []syntax.Param
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "self_parameter":
			out = append(out, syntax.Param{Receiver: true, Pattern: w.text(child)})
		case "parameter":
			p := syntax.Param{}
			if pat := child.ChildByFieldName("pattern"); pat != nil {
				p.Pattern = w.text(pat)
				switch pat.Type() {
				case "identifier":
					p.Ident = p.Pattern
				case "self":
					p.Receiver = true
				}
			}
			if ty := child.ChildByFieldName("type"); ty != nil {
				p.Type = w.typ(ty)
			}
			out = append(out, p)
		}
	}
	return out
}

// typ converts a type node into the structural view.
func (w *walker) typ(n *sitter.Node) *syntax.Type {
	t := &syntax.Type{Tokens: w.tokens(n)}

	switch n.Type() {
	case "reference_type":
		t.Kind = syntax.TypeReference
		if elem := n.ChildByFieldName("type"); elem != nil {
			t.Elem = w.typ(elem)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "mutable_specifier" {
				t.Mutable = true
			}
		}
	case "type_identifier", "primitive_type", "scoped_type_identifier", "generic_type":
		t.Kind = syntax.TypePath
		t.Segments = w.segments(n)
	default:
		t.Kind = syntax.TypeOther
	}
	return t
}

// segments flattens a (possibly scoped, possibly generic) path into segments.
func (w *walker) segments(n *sitter.Node) []syntax.Segment {
	switch n.Type() {
	case "scoped_type_identifier", "scoped_identifier":
		var segs []syntax.Segment
		if path := n.ChildByFieldName("path"); path != nil {
			segs = w.segments(path)
		}
		if name := n.ChildByFieldName("name"); name != nil {
			segs = append(segs, syntax.Segment{Name: w.text(name)})
		}
		return segs
	case "generic_type", "generic_type_with_turbofish":
		var segs []syntax.Segment
		if base := n.ChildByFieldName("type"); base != nil {
			segs = w.segments(base)
		}
		if args := n.ChildByFieldName("type_arguments"); args != nil && len(segs) > 0 {
			segs[len(segs)-1].Args = w.genericArgs(args)
		}
		return segs
	default:
		return []syntax.Segment{{Name: w.text(n)}}
	}
}

func (w *walker) genericArgs(n *sitter.Node) []syntax.GenericArg {
	var out []syntax.GenericArg
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "lifetime":
			out = append(out, syntax.GenericArg{Kind: syntax.ArgLifetime, Lifetime: w.text(child)})
		case "type_binding", "block", "integer_literal", "string_literal",
			"boolean_literal", "char_literal", "negative_literal", "trait_bounds":
			out = append(out, syntax.GenericArg{Kind: syntax.ArgOther, Text: w.text(child)})
		case "line_comment", "block_comment":
		default:
			out = append(out, syntax.GenericArg{Kind: syntax.ArgType, Type: w.typ(child)})
		}
	}
	return out
}

// withoutComments returns the source text of n with every comment under it
// collapsed to one space. String literals are kept byte for byte.
func (w *walker) withoutComments(n *sitter.Node) string {
	start, end := n.StartByte(), n.EndByte()
	var b strings.Builder
	pos := start
	var visit func(*sitter.Node)
	visit = func(c *sitter.Node) {
		switch c.Type() {
		case "line_comment", "block_comment":
			b.Write(w.content[pos:c.StartByte()])
			b.WriteByte(' ')
			pos = c.EndByte()
			return
		case "string_literal", "raw_string_literal", "char_literal":
			return
		}
		for i := 0; i < int(c.ChildCount()); i++ {
			visit(c.Child(i))
		}
	}
	visit(n)
	b.Write(w.content[pos:end])
	return b.String()
}

// tokens returns the leaf tokens under n. A lifetime is one token.
func (w *walker) tokens(n *sitter.Node) []string {
	var out []string
	var visit func(*sitter.Node)
	visit = func(n *sitter.Node) {
		switch {
		case n.Type() == "line_comment" || n.Type() == "block_comment":
			return
		case n.Type() == "lifetime" || n.ChildCount() == 0:
			if text := w.text(n); text != "" {
				out = append(out, text)
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(n)
	return out
}

func outerDoc(comment string) (string, bool) {
	if !strings.HasPrefix(comment, "///") || strings.HasPrefix(comment, "////") {
		return "", false
	}
	return docLine(comment[3:]), true
}

func innerDoc(comment string) (string, bool) {
	if !strings.HasPrefix(comment, "//!") {
		return "", false
	}
	return docLine(comment[3:]), true
}

func docLine(s string) string {
	s = strings.TrimRight(s, "\r\n")
	return strings.TrimPrefix(s, " ")
}
