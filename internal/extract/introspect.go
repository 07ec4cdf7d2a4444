package extract

import (
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/synkit/syndef/internal/astdef"
	"github.com/synkit/syndef/internal/rustsrc"
)

// Introspector resolves captured type source texts into schema type
// values. It runs after the crawl, when every declaration and alias is
// known, so resolution never depends on crawl order.
type Introspector struct {
	decls   map[string]*Decl
	aliases map[string]string
	tokens  Table
}

// NewIntrospector builds an introspector over a completed collection.
func NewIntrospector(coll *Collection, tokens Table) *Introspector {
	return &Introspector{decls: coll.Decls, aliases: coll.Aliases, tokens: tokens}
}

// TypeOf resolves one type's source text into a schema type value.
func (in *Introspector) TypeOf(text string) (astdef.Type, error) {
	file, node, err := rustsrc.ParseTypeExpr(text)
	if err != nil {
		return astdef.Type{}, fmt.Errorf("%w: unrecognized type %q", ErrInvariant, text)
	}
	defer file.Close()

	return in.typeOf(file, node)
}

func (in *Introspector) typeOf(file *rustsrc.File, node sitter.Node) (astdef.Type, error) {
	switch node.Type() {
	case "generic_type":
		return in.genericType(file, node)
	case "type_identifier", "primitive_type":
		return in.resolveName(file.Text(node))
	case "scoped_type_identifier":
		return in.resolveName(lastSegment(file.Text(node)))
	case "tuple_type":
		return in.tupleType(file, node)
	case "macro_invocation":
		return in.tokenMacro(file, node)
	default:
		return astdef.Type{}, badType(file, node)
	}
}

// genericType handles the four recognized wrappers. Anything else
// carrying type arguments is outside the modeled grammar.
func (in *Introspector) genericType(file *rustsrc.File, node sitter.Node) (astdef.Type, error) {
	baseNode := node.ChildByFieldName("type")
	if baseNode.IsNull() {
		return astdef.Type{}, badType(file, node)
	}

	base := lastSegment(file.Text(baseNode))
	args := typeArguments(node.ChildByFieldName("type_arguments"))

	switch base {
	case "Option", "Box", "Vec":
		if len(args) != 1 {
			return astdef.Type{}, badType(file, node)
		}

		elem, err := in.typeOf(file, args[0])
		if err != nil {
			return astdef.Type{}, err
		}

		switch base {
		case "Option":
			return astdef.Option(elem), nil
		case "Box":
			return astdef.Box(elem), nil
		default:
			return astdef.Vec(elem), nil
		}
	case "Punctuated":
		if len(args) != 2 {
			return astdef.Type{}, badType(file, node)
		}

		elem, err := in.typeOf(file, args[0])
		if err != nil {
			return astdef.Type{}, err
		}

		punct, err := in.typeOf(file, args[1])
		if err != nil {
			return astdef.Type{}, err
		}

		if punct.Kind != astdef.KindToken {
			return astdef.Type{}, fmt.Errorf("%w: separator %q is not a token kind", ErrInvariant, file.Text(args[1]))
		}

		return astdef.Punctuated(elem, punct.Name), nil
	default:
		return astdef.Type{}, badType(file, node)
	}
}

// resolveName classifies a bare type name: delimiter groups, tokenizer
// leaves, primitive leaves, then declared nodes with the re-export
// rename table chased in between.
func (in *Introspector) resolveName(name string) (astdef.Type, error) {
	seen := make(map[string]bool)

	for {
		switch name {
		case "Brace", "Bracket", "Paren", "Group":
			return astdef.Group(name), nil
		case "TokenStream", "Literal", "Ident", "Span":
			return astdef.Ext(name), nil
		case "String", "u32", "usize", "bool":
			return astdef.Std(name), nil
		}

		if _, ok := in.decls[name]; ok {
			return astdef.NodeRef(name), nil
		}

		original, ok := in.aliases[name]
		if !ok || seen[name] {
			return astdef.Type{}, fmt.Errorf("%w: unrecognized type %s", ErrInvariant, name)
		}

		seen[name] = true
		name = original
	}
}

func (in *Introspector) tupleType(file *rustsrc.File, node sitter.Node) (astdef.Type, error) {
	elems := make([]astdef.Type, 0, node.NamedChildCount())

	for i := range node.NamedChildCount() {
		elem, err := in.typeOf(file, node.NamedChild(i))
		if err != nil {
			return astdef.Type{}, err
		}

		elems = append(elems, elem)
	}

	return astdef.TupleOf(elems...), nil
}

// tokenMacro resolves a `Token![<spelling>]` type through the token
// spelling table.
func (in *Introspector) tokenMacro(file *rustsrc.File, node sitter.Node) (astdef.Type, error) {
	mac := node.ChildByFieldName("macro")
	if mac.IsNull() || lastSegment(file.Text(mac)) != tokenMacroName {
		return astdef.Type{}, badType(file, node)
	}

	count := node.NamedChildCount()
	if count < 2 {
		return astdef.Type{}, badType(file, node)
	}

	body := node.NamedChild(count - 1)

	spelling, ok := bracketInner(file.Text(body))
	if !ok {
		return astdef.Type{}, badType(file, node)
	}

	symbol, ok := in.tokens.Symbol(spelling)
	if !ok {
		return astdef.Type{}, fmt.Errorf("%w: unknown token spelling %q", ErrInvariant, spelling)
	}

	return astdef.Token(symbol), nil
}

func typeArguments(argsNode sitter.Node) []sitter.Node {
	if argsNode.IsNull() {
		return nil
	}

	args := make([]sitter.Node, 0, argsNode.NamedChildCount())

	for i := range argsNode.NamedChildCount() {
		args = append(args, argsNode.NamedChild(i))
	}

	return args
}

func badType(file *rustsrc.File, node sitter.Node) error {
	return fmt.Errorf("%w: unrecognized type %q", ErrInvariant, file.Text(node))
}

func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "::"); idx >= 0 {
		return path[idx+2:]
	}

	return path
}
