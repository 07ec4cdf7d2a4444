package rustsrc

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Tree-sitter node kinds the extractor dispatches on.
const (
	KindMod             = "mod_item"
	KindMacroInvocation = "macro_invocation"
	KindMacroDefinition = "macro_definition"
	KindStruct          = "struct_item"
	KindEnum            = "enum_item"
	KindUse             = "use_declaration"
	KindTypeAlias       = "type_item"

	nodeAttributeItem      = "attribute_item"
	nodeInnerAttributeItem = "inner_attribute_item"
	nodeAttribute          = "attribute"
	nodeLineComment        = "line_comment"
	nodeBlockComment       = "block_comment"
	nodeTokenTree          = "token_tree"
	nodeVisibility         = "visibility_modifier"
	nodeStringLiteral      = "string_literal"
	nodeUseAsClause        = "use_as_clause"
	nodeError              = "ERROR"
)

// Item is a top-level item with its outer attributes attached.
// Tree-sitter parses outer attributes as siblings preceding the item
// they annotate, so attachment happens here.
type Item struct {
	Node  sitter.Node
	Attrs []Attribute
	file  *File
}

// Kind returns the item's tree-sitter node kind.
func (it Item) Kind() string {
	return it.Node.Type()
}

// Text returns the item's source text.
func (it Item) Text() string {
	return it.file.Text(it.Node)
}

// Name returns the item's `name` field text (module, struct, enum and
// macro definition names), or "" when absent.
func (it Item) Name() string {
	name := it.Node.ChildByFieldName("name")
	if name.IsNull() {
		return ""
	}

	return it.file.Text(name)
}

// HasInlineBody reports whether a module declaration carries its body
// inline instead of referencing another file.
func (it Item) HasInlineBody() bool {
	return !it.Node.ChildByFieldName("body").IsNull()
}

// MacroName returns the invoked macro's name (last path segment) for a
// macro_invocation item.
func (it Item) MacroName() string {
	mac := it.Node.ChildByFieldName("macro")
	if mac.IsNull() {
		return ""
	}

	return lastPathSegment(it.file.Text(mac))
}

// IsPub reports whether the item carries a plain `pub` visibility.
func (it Item) IsPub() bool {
	for i := range it.Node.NamedChildCount() {
		child := it.Node.NamedChild(i)
		if child.Type() == nodeVisibility {
			return it.file.Text(child) == "pub"
		}
	}

	return false
}

// Attribute is one outer attribute (`#[...]`).
type Attribute struct {
	node sitter.Node
	file *File
}

// Path returns the attribute's path, e.g. "cfg" or "non_exhaustive".
func (a Attribute) Path() string {
	if a.node.NamedChildCount() == 0 {
		return ""
	}

	return a.file.Text(a.node.NamedChild(0))
}

// Args returns the attribute's argument token tree text including the
// surrounding delimiters, e.g. `(feature = "full")`.
func (a Attribute) Args() (string, bool) {
	args := a.node.ChildByFieldName("arguments")
	if args.IsNull() {
		return "", false
	}

	return a.file.Text(args), true
}

// StringValue returns the value of a `#[name = "..."]` attribute.
func (a Attribute) StringValue() (string, bool) {
	value := a.node.ChildByFieldName("value")
	if value.IsNull() || value.Type() != nodeStringLiteral {
		return "", false
	}

	text := a.file.Text(value)
	if len(text) < 2 {
		return "", false
	}

	return text[1 : len(text)-1], true
}

// Text returns the whole attribute's source text.
func (a Attribute) Text() string {
	return a.file.Text(a.node)
}

// Items returns the file's top-level items with outer attributes
// attached. Doc comments and inner attributes are skipped without
// breaking attachment.
func (f *File) Items() []Item {
	return f.ItemsOf(f.root)
}

// ItemsOf returns the items declared directly inside container.
func (f *File) ItemsOf(container sitter.Node) []Item {
	var (
		items   []Item
		pending []Attribute
	)

	for i := range container.NamedChildCount() {
		child := container.NamedChild(i)

		switch child.Type() {
		case nodeAttributeItem:
			if attr, ok := f.attributeOf(child); ok {
				pending = append(pending, attr)
			}
		case nodeLineComment, nodeBlockComment, nodeInnerAttributeItem:
			// Carry no declaration data.
		default:
			items = append(items, Item{Node: child, Attrs: pending, file: f})
			pending = nil
		}
	}

	return items
}

func (f *File) attributeOf(attrItem sitter.Node) (Attribute, bool) {
	for i := range attrItem.NamedChildCount() {
		child := attrItem.NamedChild(i)
		if child.Type() == nodeAttribute {
			return Attribute{node: child, file: f}, true
		}
	}

	return Attribute{}, false
}

// UseAliases walks a use declaration and reports every `as` rename as
// alias name -> original name (last path segment).
func (f *File) UseAliases(useDecl sitter.Node, report func(alias, original string)) {
	if useDecl.Type() == nodeUseAsClause {
		aliasNode := useDecl.ChildByFieldName("alias")
		pathNode := useDecl.ChildByFieldName("path")

		if !aliasNode.IsNull() && !pathNode.IsNull() {
			report(f.Text(aliasNode), lastPathSegment(f.Text(pathNode)))
		}

		return
	}

	for i := range useDecl.NamedChildCount() {
		f.UseAliases(useDecl.NamedChild(i), report)
	}
}

func lastPathSegment(path string) string {
	if idx := strings.LastIndex(path, "::"); idx >= 0 {
		return path[idx+2:]
	}

	return path
}
