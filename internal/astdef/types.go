// Package astdef defines the extracted syntax-tree schema record: the
// node list, the generic type algebra, and the token table, in the
// exact JSON layout downstream generators consume.
package astdef

// Schema is the terminal artifact of one extraction run.
type Schema struct {
	// Version is the modeled crate's version string.
	Version string `json:"version"`
	// Nodes lists every grammar entity, ordered by identifier.
	Nodes []Node `json:"types"`
	// Tokens maps symbolic token kind names to canonical spellings.
	Tokens map[string]string `json:"tokens"`
}

// Node is one grammar entity.
type Node struct {
	Ident      string
	Features   Features
	Data       Data
	Exhaustive bool
}

// Features is a conditional-compilation predicate: the node exists when
// any one of the named build features is enabled. Empty means
// unconditional.
type Features struct {
	Any []string `json:"any"`
}

// Data is the node's shape: exactly one of Fields (struct), Variants
// (enum), or Private (opaque struct with non-public fields).
type Data struct {
	Fields   Fields
	Variants Variants
	Private  bool
}

// Field is one named struct field.
type Field struct {
	Name string
	Type Type
}

// Fields is an ordered field mapping; order is declaration order.
type Fields []Field

// Get returns the type of the named field.
func (fs Fields) Get(name string) (Type, bool) {
	for _, field := range fs {
		if field.Name == name {
			return field.Type, true
		}
	}

	return Type{}, false
}

// Variant is one enum variant with its positional payload types.
type Variant struct {
	Name  string
	Types []Type
}

// Variants is an ordered variant mapping; order is declaration order.
type Variants []Variant

// Get returns the payload types of the named variant.
func (vs Variants) Get(name string) ([]Type, bool) {
	for _, variant := range vs {
		if variant.Name == name {
			return variant.Types, true
		}
	}

	return nil, false
}

// TypeKind discriminates the closed type algebra.
type TypeKind uint8

// Type algebra kinds.
const (
	KindNode TypeKind = iota + 1
	KindOption
	KindBox
	KindVec
	KindPunctuated
	KindGroup
	KindToken
	KindExt
	KindStd
	KindTuple
)

// Type is one value of the schema's generic type algebra. Values are
// immutable once constructed and compared structurally.
type Type struct {
	Kind TypeKind
	// Name holds the node identifier (KindNode), delimiter group name
	// (KindGroup), token kind (KindToken), or leaf type name
	// (KindExt, KindStd).
	Name string
	// Elem is the wrapped type for KindOption, KindBox, KindVec and the
	// element type for KindPunctuated.
	Elem *Type
	// Punct is the separator token kind for KindPunctuated.
	Punct string
	// Tuple holds the element types for KindTuple.
	Tuple []Type
}

// NodeRef returns a reference to another node by identifier.
func NodeRef(ident string) Type {
	return Type{Kind: KindNode, Name: ident}
}

// Option wraps a type in the optional marker.
func Option(elem Type) Type {
	return Type{Kind: KindOption, Elem: &elem}
}

// Box wraps a type in the owned-indirection marker.
func Box(elem Type) Type {
	return Type{Kind: KindBox, Elem: &elem}
}

// Vec wraps a type in the homogeneous-sequence marker.
func Vec(elem Type) Type {
	return Type{Kind: KindVec, Elem: &elem}
}

// Punctuated returns a separator-punctuated sequence of elem.
func Punctuated(elem Type, punct string) Type {
	return Type{Kind: KindPunctuated, Elem: &elem, Punct: punct}
}

// Group returns a delimiter-group marker (Brace, Bracket, Paren, Group).
func Group(name string) Type {
	return Type{Kind: KindGroup, Name: name}
}

// Token returns a symbolic token-kind leaf.
func Token(kind string) Type {
	return Type{Kind: KindToken, Name: kind}
}

// Ext returns an externally-opaque leaf type supplied by the tokenizer
// layer.
func Ext(name string) Type {
	return Type{Kind: KindExt, Name: name}
}

// Std returns a primitive leaf type.
func Std(name string) Type {
	return Type{Kind: KindStd, Name: name}
}

// TupleOf returns a fixed-arity tuple of types.
func TupleOf(elems ...Type) Type {
	return Type{Kind: KindTuple, Tuple: elems}
}

// Equal reports structural equality.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind || t.Name != other.Name || t.Punct != other.Punct {
		return false
	}

	if (t.Elem == nil) != (other.Elem == nil) {
		return false
	}

	if t.Elem != nil && !t.Elem.Equal(*other.Elem) {
		return false
	}

	if len(t.Tuple) != len(other.Tuple) {
		return false
	}

	for i := range t.Tuple {
		if !t.Tuple[i].Equal(other.Tuple[i]) {
			return false
		}
	}

	return true
}
