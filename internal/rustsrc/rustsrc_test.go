package rustsrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportsSyntaxErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := Parse("bad.rs", []byte("pub struct {\n"))
	require.Error(t, err)

	var perr *ParseError

	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bad.rs", perr.Path)
	assert.GreaterOrEqual(t, perr.Line, 1)
	assert.GreaterOrEqual(t, perr.Column, 1)
	assert.Contains(t, perr.Error(), "bad.rs:")
}

func TestParseRejectsRecoveredMissingToken(t *testing.T) {
	t.Parallel()

	// A module declaration without its semicolon recovers with an
	// inserted zero-width token rather than an ERROR node; the file
	// must still be rejected.
	_, err := Parse("missing.rs", []byte("mod expr\n"))
	require.Error(t, err)

	var perr *ParseError

	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "missing.rs", perr.Path)
}

func TestParseValidFile(t *testing.T) {
	t.Parallel()

	file, err := Parse("ok.rs", []byte("pub struct Foo { pub a: u32 }\n"))
	require.NoError(t, err)

	defer file.Close()

	items := file.Items()
	require.Len(t, items, 1)
	assert.Equal(t, KindStruct, items[0].Kind())
	assert.Equal(t, "Foo", items[0].Name())
	assert.True(t, items[0].IsPub())
}

func TestItemsAttachOuterAttributes(t *testing.T) {
	t.Parallel()

	src := `
#[cfg(feature = "full")]
/// A doc comment between attributes must not break attachment.
#[non_exhaustive]
pub enum Visibility {
    Public,
}
`

	file, err := Parse("attrs.rs", []byte(src))
	require.NoError(t, err)

	defer file.Close()

	items := file.Items()
	require.Len(t, items, 1)
	require.Len(t, items[0].Attrs, 2)

	assert.Equal(t, "cfg", items[0].Attrs[0].Path())

	args, ok := items[0].Attrs[0].Args()
	require.True(t, ok)
	assert.Equal(t, `(feature = "full")`, args)

	assert.Equal(t, "non_exhaustive", items[0].Attrs[1].Path())

	_, ok = items[0].Attrs[1].Args()
	assert.False(t, ok)
}

func TestAttributeStringValue(t *testing.T) {
	t.Parallel()

	src := "#[path = \"gen/helper.rs\"]\nmod helper;\n"

	file, err := Parse("path.rs", []byte(src))
	require.NoError(t, err)

	defer file.Close()

	items := file.Items()
	require.Len(t, items, 1)
	require.Len(t, items[0].Attrs, 1)

	value, ok := items[0].Attrs[0].StringValue()
	require.True(t, ok)
	assert.Equal(t, "gen/helper.rs", value)
}

func TestModItemBodyDetection(t *testing.T) {
	t.Parallel()

	file, err := Parse("mods.rs", []byte("mod external;\nmod inline { }\n"))
	require.NoError(t, err)

	defer file.Close()

	items := file.Items()
	require.Len(t, items, 2)

	assert.Equal(t, KindMod, items[0].Kind())
	assert.False(t, items[0].HasInlineBody())
	assert.Equal(t, "external", items[0].Name())

	assert.True(t, items[1].HasInlineBody())
}

func TestMacroBodyCursor(t *testing.T) {
	t.Parallel()

	src := "some_macro! {\n    // A comment the cursor must skip.\n    alpha beta (gamma delta)\n}\n"

	file, err := Parse("macro.rs", []byte(src))
	require.NoError(t, err)

	defer file.Close()

	items := file.Items()
	require.Len(t, items, 1)
	require.Equal(t, KindMacroInvocation, items[0].Kind())
	assert.Equal(t, "some_macro", items[0].MacroName())

	cursor, ok := file.MacroBody(items[0])
	require.True(t, ok)

	rest, ok := cursor.RestText()
	require.True(t, ok)
	assert.Equal(t, "alpha beta (gamma delta)", rest)

	tok, ok := cursor.Next()
	require.True(t, ok)
	assert.Equal(t, "alpha", cursor.Text(tok))

	tok, ok = cursor.Next()
	require.True(t, ok)
	assert.Equal(t, "beta", cursor.Text(tok))

	group, ok := cursor.Next()
	require.True(t, ok)
	require.True(t, cursor.IsGroup(group, "("))
	assert.Equal(t, "gamma delta", cursor.GroupInner(group))

	inner := cursor.Group(group)

	tok, ok = inner.Next()
	require.True(t, ok)
	assert.Equal(t, "gamma", inner.Text(tok))

	assert.True(t, cursor.Done())
}

func TestUseAliasesReportsRenames(t *testing.T) {
	t.Parallel()

	src := "pub use crate::{expr::ExprPath as PathExpr, ty::Type, lit::{Lit, LitStr as StrLit}};\n"

	file, err := Parse("uses.rs", []byte(src))
	require.NoError(t, err)

	defer file.Close()

	items := file.Items()
	require.Len(t, items, 1)
	require.Equal(t, KindUse, items[0].Kind())

	aliases := make(map[string]string)

	arg := items[0].Node.ChildByFieldName("argument")
	require.False(t, arg.IsNull())

	file.UseAliases(arg, func(alias, original string) {
		aliases[alias] = original
	})

	assert.Equal(t, map[string]string{
		"PathExpr": "ExprPath",
		"StrLit":   "LitStr",
	}, aliases)
}

func TestParseItem(t *testing.T) {
	t.Parallel()

	file, item, err := ParseItem("Foo", "pub struct Foo { pub a: u32 }")
	require.NoError(t, err)

	defer file.Close()

	assert.Equal(t, KindStruct, item.Kind())
	assert.Equal(t, "Foo", item.Name())
}

func TestParseItemRejectsMultipleItems(t *testing.T) {
	t.Parallel()

	_, _, err := ParseItem("two", "pub struct A {}\npub struct B {}")
	require.ErrorIs(t, err, ErrNotOneItem)
}

func TestParseTypeExpr(t *testing.T) {
	t.Parallel()

	file, node, err := ParseTypeExpr("Vec<Attribute>")
	require.NoError(t, err)

	defer file.Close()

	assert.Equal(t, "generic_type", node.Type())
	assert.Equal(t, "Vec<Attribute>", file.Text(node))
}

func TestParseTypeExprRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, err := ParseTypeExpr("{not a type}")
	require.Error(t, err)
}
