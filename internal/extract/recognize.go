package extract

import (
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/synkit/syndef/internal/rustsrc"
)

// The three recognized declaration macros.
const (
	macroStruct        = "ast_struct"
	macroEnum          = "ast_enum"
	macroEnumOfStructs = "ast_enum_of_structs"
)

// Inline markers inside macro bodies.
const (
	markerFull    = "full"
	markerNoVisit = "no_visit"
)

// Shape classifies a recognized node declaration.
type Shape uint8

// Declaration shapes.
const (
	ShapeStruct Shape = iota + 1
	ShapeEnum
	ShapePrivateStruct
)

// Decl is one recognized node declaration before feature resolution
// and type introspection. Field and variant types are kept as source
// text; the introspector resolves them once all names are known.
type Decl struct {
	Ident    string
	Shape    Shape
	Fields   []RawField
	Variants []RawVariant
	// Features accumulates the declared predicates; Resolve folds them
	// when the schema is assembled.
	Features   []FeatureSet
	Exhaustive bool
}

// RawField is a declared struct field with its type source text.
type RawField struct {
	Name string
	Type string
}

// RawVariant is a declared enum variant with its positional payload
// type source texts.
type RawVariant struct {
	Name  string
	Types []string
}

// Recognize classifies one macro invocation as one of the three node
// declaration forms and reconstructs the declared node. It returns
// (nil, nil) for unrelated macros and for declarations explicitly
// excluded from the schema.
func Recognize(file *rustsrc.File, item rustsrc.Item) (*Decl, error) {
	switch item.MacroName() {
	case macroStruct:
		return recognizeStruct(file, item)
	case macroEnum:
		return recognizeEnum(file, item)
	case macroEnumOfStructs:
		return recognizeEnumOfStructs(file, item)
	default:
		return nil, nil
	}
}

// DeclFromStruct records a plain struct declaration (outside the macro
// forms) as a node. Used for the configured extra leaf types.
func DeclFromStruct(file *rustsrc.File, item rustsrc.Item) (*Decl, error) {
	fields, allPublic, err := readStructFields(file, item.Node)
	if err != nil {
		return nil, err
	}

	decl := &Decl{Ident: item.Name(), Shape: ShapeStruct, Fields: fields, Exhaustive: true}
	if !allPublic {
		decl.Shape = ShapePrivateStruct
		decl.Fields = nil
	}

	return decl, nil
}

func recognizeStruct(file *rustsrc.File, item rustsrc.Item) (*Decl, error) {
	cursor, ok := file.MacroBody(item)
	if !ok {
		return nil, fmt.Errorf("%w: %s invocation has no body", ErrInvariant, macroStruct)
	}

	if _, err := skipOuterAttrs(cursor); err != nil {
		return nil, err
	}

	ident, err := declHeader(cursor, "struct")
	if err != nil {
		return nil, err
	}

	var features []FeatureSet

	if name, found, markErr := marker(cursor); markErr != nil {
		return nil, markErr
	} else if found {
		if name != markerFull {
			return nil, fmt.Errorf("%w: unknown marker #%s on struct %s", ErrInvariant, name, ident)
		}

		features = append(features, NewFeatureSet(markerFull))
	}

	rest, ok := cursor.RestText()
	if !ok {
		return nil, fmt.Errorf("%w: struct %s has no field list", ErrInvariant, ident)
	}

	declFile, declItem, err := rustsrc.ParseItem(ident, "pub struct "+ident+" "+rest)
	if err != nil {
		return nil, fmt.Errorf("%w: struct %s body: %v", ErrInvariant, ident, err)
	}
	defer declFile.Close()

	fields, allPublic, err := readStructFields(declFile, declItem.Node)
	if err != nil {
		return nil, err
	}

	decl := &Decl{Ident: ident, Shape: ShapeStruct, Fields: fields, Features: features, Exhaustive: true}
	if !allPublic {
		decl.Shape = ShapePrivateStruct
		decl.Fields = nil
	}

	return decl, nil
}

func recognizeEnum(file *rustsrc.File, item rustsrc.Item) (*Decl, error) {
	cursor, ok := file.MacroBody(item)
	if !ok {
		return nil, fmt.Errorf("%w: %s invocation has no body", ErrInvariant, macroEnum)
	}

	attrs, err := skipOuterAttrs(cursor)
	if err != nil {
		return nil, err
	}

	ident, err := declHeader(cursor, "enum")
	if err != nil {
		return nil, err
	}

	if name, found, markErr := marker(cursor); markErr != nil {
		return nil, markErr
	} else if found {
		if name != markerNoVisit {
			return nil, fmt.Errorf("%w: unknown marker #%s on enum %s", ErrInvariant, name, ident)
		}

		// Explicitly excluded from the schema.
		return nil, nil
	}

	rest, ok := cursor.RestText()
	if !ok {
		return nil, fmt.Errorf("%w: enum %s has no variant list", ErrInvariant, ident)
	}

	return parseEnumDecl(ident, strings.Join(append(attrs, "pub enum "+ident+" "+rest), "\n"))
}

func recognizeEnumOfStructs(file *rustsrc.File, item rustsrc.Item) (*Decl, error) {
	cursor, ok := file.MacroBody(item)
	if !ok {
		return nil, fmt.Errorf("%w: %s invocation has no body", ErrInvariant, macroEnumOfStructs)
	}

	attrs, err := skipOuterAttrs(cursor)
	if err != nil {
		return nil, err
	}

	ident, err := declHeader(cursor, "enum")
	if err != nil {
		return nil, err
	}

	group, ok := cursor.Next()
	if !ok || !cursor.IsGroup(group, "{") {
		return nil, fmt.Errorf("%w: enum %s has no braced variant list", ErrInvariant, ident)
	}

	if !cursor.Done() {
		return nil, fmt.Errorf("%w: trailing tokens after enum %s", ErrInvariant, ident)
	}

	entries, err := eosVariants(cursor.Group(group), ident)
	if err != nil {
		return nil, err
	}

	lines := append(attrs, "pub enum "+ident+" {")
	lines = append(lines, entries...)
	lines = append(lines, "}")

	return parseEnumDecl(ident, strings.Join(lines, "\n"))
}

// eosVariants reads the comma-terminated entries of an
// ast_enum_of_structs body and renders each as a normal tagged-union
// variant: an identifier optionally wrapping one payload path.
func eosVariants(cursor *rustsrc.Cursor, ident string) ([]string, error) {
	var entries []string

	for !cursor.Done() {
		attrs, err := skipOuterAttrs(cursor)
		if err != nil {
			return nil, err
		}

		name, err := expectIdent(cursor, "variant of "+ident)
		if err != nil {
			return nil, err
		}

		payload := ""

		if tok, ok := cursor.Peek(); ok && cursor.IsGroup(tok, "(") {
			cursor.Next()

			member := strings.TrimSpace(cursor.GroupInner(tok))
			if member == "" {
				return nil, fmt.Errorf("%w: empty payload on variant %s::%s", ErrInvariant, ident, name)
			}

			payload = "(" + member + ")"
		}

		if err := expectToken(cursor, ","); err != nil {
			return nil, fmt.Errorf("%w: variant %s::%s not comma-terminated", ErrInvariant, ident, name)
		}

		entry := name + payload + ","
		if len(attrs) > 0 {
			entry = strings.Join(attrs, " ") + " " + entry
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// parseEnumDecl parses a reassembled enum declaration and reads its
// variants, dropping hidden ones.
func parseEnumDecl(ident, text string) (*Decl, error) {
	declFile, declItem, err := rustsrc.ParseItem(ident, text)
	if err != nil {
		return nil, fmt.Errorf("%w: enum %s body: %v", ErrInvariant, ident, err)
	}
	defer declFile.Close()

	variants, hadHidden, err := readVariants(declFile, declItem)
	if err != nil {
		return nil, err
	}

	exhaustive := !isNonExhaustive(declItem.Attrs) && !hadHidden

	return &Decl{Ident: ident, Shape: ShapeEnum, Variants: variants, Exhaustive: exhaustive}, nil
}

func readStructFields(file *rustsrc.File, structNode sitter.Node) ([]RawField, bool, error) {
	body := structNode.ChildByFieldName("body")
	if body.IsNull() {
		return nil, true, nil
	}

	if body.Type() != "field_declaration_list" {
		return nil, false, fmt.Errorf("%w: struct representation not supported: %s", ErrInvariant, file.Text(structNode))
	}

	var (
		fields    []RawField
		allPublic = true
	)

	for _, field := range file.ItemsOf(body) {
		if field.Kind() != "field_declaration" {
			return nil, false, fmt.Errorf("%w: unexpected %s in field list", ErrInvariant, field.Kind())
		}

		typeNode := field.Node.ChildByFieldName("type")
		if typeNode.IsNull() {
			return nil, false, fmt.Errorf("%w: field %s has no type", ErrInvariant, field.Name())
		}

		if !field.IsPub() {
			allPublic = false
		}

		fields = append(fields, RawField{Name: field.Name(), Type: file.Text(typeNode)})
	}

	return fields, allPublic, nil
}

// readVariants reads an enum's variants in declaration order. Variants
// marked `#[doc(hidden)]` are dropped entirely; the second result
// reports whether any were.
func readVariants(file *rustsrc.File, enumItem rustsrc.Item) ([]RawVariant, bool, error) {
	body := enumItem.Node.ChildByFieldName("body")
	if body.IsNull() {
		return nil, false, fmt.Errorf("%w: enum %s has no variant list", ErrInvariant, enumItem.Name())
	}

	var (
		variants  []RawVariant
		hadHidden bool
	)

	for _, variant := range file.ItemsOf(body) {
		if variant.Kind() != "enum_variant" {
			return nil, false, fmt.Errorf("%w: unexpected %s in variant list", ErrInvariant, variant.Kind())
		}

		if isDocHidden(variant.Attrs) {
			hadHidden = true

			continue
		}

		types, err := variantTypes(file, variant)
		if err != nil {
			return nil, false, err
		}

		variants = append(variants, RawVariant{Name: variant.Name(), Types: types})
	}

	return variants, hadHidden, nil
}

func variantTypes(file *rustsrc.File, variant rustsrc.Item) ([]string, error) {
	body := variant.Node.ChildByFieldName("body")
	if body.IsNull() {
		return nil, nil
	}

	if body.Type() != "ordered_field_declaration_list" {
		return nil, fmt.Errorf("%w: enum representation not supported: %s", ErrInvariant, variant.Text())
	}

	var types []string

	for i := range body.NamedChildCount() {
		child := body.NamedChild(i)

		switch child.Type() {
		case "attribute_item", "visibility_modifier", "line_comment", "block_comment":
			continue
		}

		types = append(types, file.Text(child))
	}

	return types, nil
}

func isDocHidden(attrs []rustsrc.Attribute) bool {
	for _, attr := range attrs {
		if attr.Path() != "doc" {
			continue
		}

		args, ok := attr.Args()
		if !ok {
			continue
		}

		if inner, ok := delimited(strings.TrimSpace(args), "(", ")"); ok && inner == "hidden" {
			return true
		}
	}

	return false
}

func isNonExhaustive(attrs []rustsrc.Attribute) bool {
	for _, attr := range attrs {
		if attr.Path() == "non_exhaustive" {
			return true
		}
	}

	return false
}

// declHeader consumes `pub <keyword> <ident>` from a macro body.
func declHeader(cursor *rustsrc.Cursor, keyword string) (string, error) {
	if err := expectToken(cursor, "pub"); err != nil {
		return "", err
	}

	if err := expectToken(cursor, keyword); err != nil {
		return "", err
	}

	return expectIdent(cursor, keyword+" name")
}

// skipOuterAttrs consumes leading `#[...]` attributes, returning their
// source text for reassembly. Inline markers (`#full`, `#no_visit`) are
// left in place.
func skipOuterAttrs(cursor *rustsrc.Cursor) ([]string, error) {
	var attrs []string

	for {
		pound, ok := cursor.Peek()
		if !ok || cursor.Text(pound) != "#" {
			return attrs, nil
		}

		group, ok := cursor.PeekAt(1)
		if !ok || !cursor.IsGroup(group, "[") {
			return attrs, nil
		}

		cursor.Next()
		cursor.Next()

		attrs = append(attrs, "#"+cursor.Text(group))
	}
}

// marker consumes an inline `#name` marker if present.
func marker(cursor *rustsrc.Cursor) (string, bool, error) {
	pound, ok := cursor.Peek()
	if !ok || cursor.Text(pound) != "#" {
		return "", false, nil
	}

	cursor.Next()

	name, ok := cursor.Next()
	if !ok {
		return "", false, fmt.Errorf("%w: dangling # in macro body", ErrInvariant)
	}

	return cursor.Text(name), true, nil
}

func expectToken(cursor *rustsrc.Cursor, text string) error {
	tok, ok := cursor.Next()
	if !ok || cursor.Text(tok) != text {
		return fmt.Errorf("%w: expected %q in macro body", ErrInvariant, text)
	}

	return nil
}

func expectIdent(cursor *rustsrc.Cursor, what string) (string, error) {
	tok, ok := cursor.Next()
	if !ok || tok.Type() != "identifier" {
		return "", fmt.Errorf("%w: expected identifier (%s) in macro body", ErrInvariant, what)
	}

	return cursor.Text(tok), nil
}
