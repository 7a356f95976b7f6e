package transpile

import (
	"bytes"
	"context"
	"sort"

	"github.com/arthur-debert/addonc/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScript transpiles TypeScript to JavaScript by erasing type syntax
// from a tree-sitter parse tree. Enums are lowered to the usual IIFE form.
// Everything else is emitted byte-for-byte, so line numbers are preserved
// except where an enum expands.
type TypeScript struct{}

// NewTypeScript returns the built-in TypeScript transpiler
func NewTypeScript() *TypeScript {
	return &TypeScript{}
}

// Transpile implements Transpiler. A parser is created per call so the
// transpiler is safe for concurrent use.
func (t *TypeScript) Transpile(ctx context.Context, source []byte, dialect string) ([]byte, error) {
	rank, err := dialectRank(dialect)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTranspileSyntax, "parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		bad := firstErrorNode(root)
		p := bad.StartPoint()
		return nil, errors.Newf(errors.ErrTranspileSyntax, "syntax error at %d:%d", p.Row+1, p.Column+1)
	}

	e := &eraser{src: source, rank: rank}
	if err := e.walk(root); err != nil {
		return nil, err
	}
	return e.apply(), nil
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			return firstErrorNode(child)
		}
	}
	return n
}

// typeOnlyNodes are removed together with everything below them
var typeOnlyNodes = map[string]bool{
	"type_annotation":           true,
	"type_parameters":           true,
	"type_arguments":            true,
	"type_predicate_annotation": true,
	"asserts_annotation":        true,
	"implements_clause":         true,
	"override_modifier":         true,
}

// typeOnlyDeclarations are statements with no runtime meaning
var typeOnlyDeclarations = map[string]bool{
	"interface_declaration":     true,
	"type_alias_declaration":    true,
	"function_signature":        true,
	"abstract_method_signature": true,
	"index_signature":           true,
	"ambient_declaration":       true,
}

type edit struct {
	start, end uint32
	text       string
}

type eraser struct {
	src   []byte
	rank  int
	edits []edit
}

func (e *eraser) remove(n *sitter.Node) {
	e.cut(n.StartByte(), n.EndByte())
}

func (e *eraser) cut(start, end uint32) {
	if end > start {
		e.edits = append(e.edits, edit{start: start, end: end})
	}
}

func (e *eraser) replace(n *sitter.Node, text string) {
	e.edits = append(e.edits, edit{start: n.StartByte(), end: n.EndByte(), text: text})
}

func (e *eraser) unsupported(n *sitter.Node, what string) error {
	p := n.StartPoint()
	return errors.Newf(errors.ErrTranspileUnsupported, "%s at %d:%d", what, p.Row+1, p.Column+1)
}

func (e *eraser) walk(n *sitter.Node) error {
	typ := n.Type()

	if need, ok := minimumDialect[typ]; ok && e.rank < dialectRanks[need] {
		return e.unsupported(n, typ+" requires "+need)
	}

	switch {
	case typeOnlyNodes[typ]:
		e.remove(n)
		return nil
	case typeOnlyDeclarations[typ]:
		e.remove(n)
		return nil
	}

	switch typ {
	case "method_signature":
		// Overload signatures inside a class body
		if p := n.Parent(); p != nil && p.Type() == "class_body" {
			e.remove(n)
			return nil
		}
	case "accessibility_modifier":
		e.remove(n)
		return nil
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil &&
			(typeOnlyDeclarations[decl.Type()] || isModule(decl) && typeOnlyModule(decl)) {
			e.remove(n)
			return nil
		}
		// export type { A }, export as namespace A
		if hasToken(n, "type") || hasToken(n, "as") && hasToken(n, "namespace") {
			e.remove(n)
			return nil
		}
		if hasToken(n, "=") {
			return e.unsupported(n, "export assignment is not supported")
		}
		if clause := childOfType(n, "export_clause"); clause != nil && allTypeSpecifiers(clause) {
			e.remove(n)
			return nil
		}
	case "import_statement":
		if hasToken(n, "type") {
			e.remove(n)
			return nil
		}
		if clause := childOfType(n, "import_clause"); clause != nil && clause.NamedChildCount() == 1 {
			if named := clause.NamedChild(0); named.Type() == "named_imports" && allTypeSpecifiers(named) {
				e.remove(n)
				return nil
			}
		}
	case "named_imports", "export_clause":
		e.dropItems(n, isTypeSpecifier)
	case "formal_parameters":
		e.dropItems(n, isThisParameter)
	case "variable_declarator":
		// let x!: number
		if c := childOfType(n, "!"); c != nil {
			e.remove(c)
		}
	case "method_definition":
		if c := childOfType(n, "?"); c != nil {
			e.remove(c)
		}
	case "internal_module", "module":
		if !n.IsNamed() {
			break
		}
		if typeOnlyModule(n) {
			e.remove(n)
			return nil
		}
		return e.unsupported(n, "namespaces with runtime code are not supported")
	case "import_alias", "import_require_clause":
		return e.unsupported(n, "import assignment is not supported")
	case "as_expression", "satisfies_expression", "non_null_expression":
		expr := n.NamedChild(0)
		if expr == nil {
			break
		}
		e.cut(expr.EndByte(), n.EndByte())
		return e.walk(expr)
	case "required_parameter", "optional_parameter":
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "accessibility_modifier" || c.Type() == "readonly" {
				return e.unsupported(n, "constructor parameter properties are not supported")
			}
			if c.Type() == "?" {
				e.remove(c)
			}
		}
	case "public_field_definition":
		if hasToken(n, "declare") || hasToken(n, "abstract") {
			e.remove(n)
			return nil
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "readonly", "?", "!":
				e.remove(c)
			}
		}
	case "abstract_class_declaration":
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.Type() == "abstract" {
				e.cut(c.StartByte(), n.Child(i+1).StartByte())
			}
		}
	case "binary_expression":
		if op := n.ChildByFieldName("operator"); op != nil && op.Type() == "??" && e.rank < dialectRanks["es2020"] {
			return e.unsupported(n, "nullish coalescing requires es2020")
		}
	case "enum_declaration":
		text, err := lowerEnum(n, e.src)
		if err != nil {
			return err
		}
		e.replace(n, text)
		return nil
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if err := e.walk(n.Child(i)); err != nil {
			return err
		}
	}
	return nil
}

// hasToken reports whether n has a direct anonymous child of the given type
func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() && c.Type() == token {
			return true
		}
	}
	return false
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

// dropItems removes the items of a comma-separated list for which drop
// returns true, together with one separating comma each
func (e *eraser) dropItems(list *sitter.Node, drop func(*sitter.Node) bool) {
	count := int(list.ChildCount())
	var kept *sitter.Node
	for i := 0; i < count; i++ {
		c := list.Child(i)
		if !c.IsNamed() || c.Type() == "comment" {
			continue
		}
		if !drop(c) {
			kept = c
			continue
		}
		switch {
		case i+2 < count && list.Child(i+1).Type() == ",":
			e.cut(c.StartByte(), list.Child(i+2).StartByte())
		case kept != nil:
			e.cut(kept.EndByte(), c.EndByte())
		default:
			e.remove(c)
		}
	}
}

// isTypeSpecifier matches `type A` inside an import or export list
func isTypeSpecifier(n *sitter.Node) bool {
	return (n.Type() == "import_specifier" || n.Type() == "export_specifier") && hasToken(n, "type")
}

func allTypeSpecifiers(list *sitter.Node) bool {
	found := false
	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		if !isTypeSpecifier(c) {
			return false
		}
		found = true
	}
	return found
}

// isThisParameter matches the `this: T` pseudo-parameter
func isThisParameter(n *sitter.Node) bool {
	if n.Type() != "required_parameter" {
		return false
	}
	pattern := n.ChildByFieldName("pattern")
	return pattern != nil && pattern.Type() == "this"
}

func isModule(n *sitter.Node) bool {
	return n.IsNamed() && (n.Type() == "internal_module" || n.Type() == "module")
}

// typeOnlyModule reports whether a namespace declares nothing but types
func typeOnlyModule(n *sitter.Node) bool {
	body := n.ChildByFieldName("body")
	if body == nil {
		return false
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		switch {
		case c.Type() == "comment", typeOnlyDeclarations[c.Type()]:
		case c.Type() == "export_statement":
			decl := c.ChildByFieldName("declaration")
			if decl == nil || !(typeOnlyDeclarations[decl.Type()] || isModule(decl) && typeOnlyModule(decl)) {
				return false
			}
		case isModule(c):
			if !typeOnlyModule(c) {
				return false
			}
		case c.Type() == "expression_statement" && c.NamedChildCount() == 1 && isModule(c.NamedChild(0)):
			if !typeOnlyModule(c.NamedChild(0)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// apply writes the source with every non-overlapping edit applied
func (e *eraser) apply() []byte {
	sort.SliceStable(e.edits, func(i, j int) bool {
		return e.edits[i].start < e.edits[j].start
	})

	var buf bytes.Buffer
	buf.Grow(len(e.src))
	pos := uint32(0)
	for _, ed := range e.edits {
		if ed.start < pos {
			continue
		}
		buf.Write(e.src[pos:ed.start])
		buf.WriteString(ed.text)
		pos = ed.end
	}
	buf.Write(e.src[pos:])
	return buf.Bytes()
}
