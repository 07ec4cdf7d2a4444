package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synkit/syndef/internal/rustsrc"
)

// writeCrate lays out a crate under a temp dir from relative path ->
// file contents.
func writeCrate(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return dir
}

func TestCrawlCollectsDeclarations(t *testing.T) {
	t.Parallel()

	dir := writeCrate(t, map[string]string{
		"src/lib.rs": `
mod expr;

#[cfg(feature = "full")]
mod item;

#[path = "gen/helper.rs"]
mod helper;

mod fold;

mod derive;

mod inline_only {
}

pub use crate::expr::ExprPath as PathExpr;
`,
		"src/expr.rs": `
ast_struct! {
    pub struct ExprPath {
        pub attrs: Vec<Attribute>,
    }
}

#[cfg(any(feature = "derive", feature = "full"))]
ast_struct! {
    pub struct Gated {
        pub x: u32,
    }
}

pub struct Lifetime {
    pub apostrophe: Span,
    pub ident: Ident,
}

pub struct NotCaptured {
    pub x: u32,
}
`,
		"src/item.rs": `
ast_enum! {
    pub enum ItemKind {
        Const,
        Use,
    }
}
`,
		"src/gen/helper.rs": `
ast_struct! {
    pub struct Helper {
        pub x: u32,
    }
}
`,
		"src/derive.rs": `
ast_struct! {
    pub struct DeriveInput {
        pub attrs: Vec<Attribute>,
    }
}
`,
		// fold.rs is deliberately absent: the crawler must never follow
		// an ignored module.
	})

	coll, err := Crawl(dir, DefaultConfig())
	require.NoError(t, err)

	assert.Len(t, coll.Decls, 6)

	// Plain declaration, no gating.
	exprPath := coll.Decls["ExprPath"]
	require.NotNil(t, exprPath)
	assert.Empty(t, exprPath.Features)

	// cfg on the invocation itself.
	gated := coll.Decls["Gated"]
	require.NotNil(t, gated)
	assert.Equal(t, []FeatureSet{NewFeatureSet("derive", "full")}, gated.Features)

	// Module-level cfg is inherited by the module's declarations.
	itemKind := coll.Decls["ItemKind"]
	require.NotNil(t, itemKind)
	assert.Equal(t, []FeatureSet{NewFeatureSet("full")}, itemKind.Features)

	// The path attribute redirects the module file.
	require.NotNil(t, coll.Decls["Helper"])

	// The force-gated module is pinned to its configured feature.
	derive := coll.Decls["DeriveInput"]
	require.NotNil(t, derive)
	assert.Equal(t, []FeatureSet{NewFeatureSet("derive")}, derive.Features)

	// Extra leaf type captured; other plain structs ignored.
	lifetime := coll.Decls["Lifetime"]
	require.NotNil(t, lifetime)
	assert.Equal(t, ShapeStruct, lifetime.Shape)
	require.Len(t, lifetime.Fields, 2)
	assert.Nil(t, coll.Decls["NotCaptured"])

	// Only root-level pub use renames feed the alias table.
	assert.Equal(t, map[string]string{"PathExpr": "ExprPath"}, coll.Aliases)
}

func TestCrawlForceGateBeatsModuleCfg(t *testing.T) {
	t.Parallel()

	dir := writeCrate(t, map[string]string{
		"src/lib.rs": `
#[cfg(any(feature = "derive", feature = "full"))]
mod derive;
`,
		"src/derive.rs": `
ast_struct! {
    pub struct DeriveInput {
        pub x: u32,
    }
}
`,
	})

	coll, err := Crawl(dir, DefaultConfig())
	require.NoError(t, err)

	decl := coll.Decls["DeriveInput"]
	require.NotNil(t, decl)
	assert.Equal(t, []FeatureSet{NewFeatureSet("derive")}, decl.Features)
}

func TestCrawlAliasScanIsRootOnly(t *testing.T) {
	t.Parallel()

	dir := writeCrate(t, map[string]string{
		"src/lib.rs": `
mod expr;
`,
		"src/expr.rs": `
pub use crate::other::Thing as Renamed;

ast_struct! {
    pub struct ExprPath {
        pub x: u32,
    }
}
`,
	})

	coll, err := Crawl(dir, DefaultConfig())
	require.NoError(t, err)

	assert.Empty(t, coll.Aliases)
}

func TestCrawlSilentlyOverwritesDuplicateIdents(t *testing.T) {
	t.Parallel()

	dir := writeCrate(t, map[string]string{
		"src/lib.rs": `
mod a;
mod b;
`,
		"src/a.rs": `
ast_struct! {
    pub struct Twice {
        pub first: u32,
    }
}
`,
		"src/b.rs": `
ast_struct! {
    pub struct Twice {
        pub second: u32,
    }
}
`,
	})

	coll, err := Crawl(dir, DefaultConfig())
	require.NoError(t, err)

	decl := coll.Decls["Twice"]
	require.NotNil(t, decl)
	require.Len(t, decl.Fields, 1)
	assert.Equal(t, "second", decl.Fields[0].Name)
}

func TestCrawlPropagatesParseErrorsWithPosition(t *testing.T) {
	t.Parallel()

	dir := writeCrate(t, map[string]string{
		"src/lib.rs": "mod broken;\n",
		"src/broken.rs": `pub struct {
`,
	})

	_, err := Crawl(dir, DefaultConfig())
	require.Error(t, err)

	var perr *rustsrc.ParseError

	require.ErrorAs(t, err, &perr)
	assert.Equal(t, filepath.Join("src", "broken.rs"), perr.Path)
}

func TestCrawlMissingRootFileFails(t *testing.T) {
	t.Parallel()

	_, err := Crawl(t.TempDir(), DefaultConfig())
	require.Error(t, err)
}

func TestCrawlIncomparableGatesFail(t *testing.T) {
	t.Parallel()

	dir := writeCrate(t, map[string]string{
		"src/lib.rs": `
#[cfg(any(feature = "derive", feature = "printing"))]
mod expr;
`,
		"src/expr.rs": `
#[cfg(any(feature = "full", feature = "printing"))]
ast_struct! {
    pub struct Clash {
        pub x: u32,
    }
}
`,
	})

	_, err := Crawl(dir, DefaultConfig())
	require.ErrorIs(t, err, ErrInvariant)
}
