// Package rustsrc parses Rust source files with tree-sitter and exposes
// the item-level view the schema extractor works with: top-level items
// with their outer attributes attached, macro invocation token trees,
// and standalone declaration/type fragments.
package rustsrc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/alexaandru/go-sitter-forest/rust"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors for parser operations.
var (
	errPoolType    = errors.New("parser pool returned unexpected type")
	errNoRootNode  = errors.New("parse produced no root node")
	ErrNotOneItem  = errors.New("fragment did not parse to exactly one item")
	ErrNotTypeExpr = errors.New("fragment did not parse to a type expression")
)

var (
	rustLang     *sitter.Language
	rustLangOnce sync.Once
)

func language() *sitter.Language {
	rustLangOnce.Do(func() {
		rustLang = sitter.NewLanguage(rust.GetLanguage())
	})

	return rustLang
}

var parserPool = sync.Pool{
	New: func() any {
		tsParser := sitter.NewParser()
		tsParser.SetLanguage(language())

		return tsParser
	},
}

// File is one parsed Rust source file. Close must be called when the
// file's nodes are no longer needed.
type File struct {
	Path string
	tree *sitter.Tree
	root sitter.Node
	src  []byte
}

// ParseFile reads and parses the file at path.
func ParseFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return Parse(path, src)
}

// Parse parses src, labeling positions with path. A file whose syntax
// tree contains an error node fails with a *ParseError carrying the
// 1-based line and column of the first error.
func Parse(path string, src []byte) (*File, error) {
	tsParser, ok := parserPool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer parserPool.Put(tsParser)

	tree, err := tsParser.ParseString(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	root := tree.RootNode()
	if root.IsNull() {
		tree.Close()

		return nil, fmt.Errorf("parse %s: %w", path, errNoRootNode)
	}

	file := &File{Path: path, tree: tree, root: root, src: src}

	if bad := firstErrorNode(root); !bad.IsNull() {
		perr := newParseError(path, bad)
		file.Close()

		return nil, perr
	}

	return file, nil
}

// Close releases the underlying syntax tree.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Root returns the file's root node.
func (f *File) Root() sitter.Node {
	return f.root
}

// Text returns the source text covered by n.
func (f *File) Text(n sitter.Node) string {
	start := n.StartByte()
	end := n.EndByte()

	if end <= uint(len(f.src)) && start <= end {
		return string(f.src[start:end])
	}

	return ""
}

// Slice returns the source text between two byte offsets.
func (f *File) Slice(start, end uint) string {
	if end <= uint(len(f.src)) && start <= end {
		return string(f.src[start:end])
	}

	return ""
}

// ParseItem parses a reassembled declaration fragment and returns its
// single top-level item. The caller owns the returned file and must
// Close it.
func ParseItem(label, text string) (*File, Item, error) {
	file, err := Parse(label, []byte(text))
	if err != nil {
		return nil, Item{}, err
	}

	items := file.Items()
	if len(items) != 1 {
		file.Close()

		return nil, Item{}, fmt.Errorf("%w: %q", ErrNotOneItem, text)
	}

	return file, items[0], nil
}

// ParseTypeExpr parses one type expression by wrapping it in a type
// alias item. The caller owns the returned file and must Close it.
func ParseTypeExpr(text string) (*File, sitter.Node, error) {
	file, err := Parse("<type>", []byte("type __Ty = "+text+";"))
	if err != nil {
		return nil, sitter.Node{}, err
	}

	items := file.Items()
	if len(items) != 1 || items[0].Kind() != KindTypeAlias {
		file.Close()

		return nil, sitter.Node{}, fmt.Errorf("%w: %q", ErrNotTypeExpr, text)
	}

	ty := items[0].Node.ChildByFieldName("type")
	if ty.IsNull() {
		file.Close()

		return nil, sitter.Node{}, fmt.Errorf("%w: %q", ErrNotTypeExpr, text)
	}

	return file, ty, nil
}

// firstErrorNode finds the first syntax defect in the tree. Recovered
// parses surface either an ERROR node or a zero-width MISSING token;
// both make the file unusable as a grammar source.
func firstErrorNode(n sitter.Node) sitter.Node {
	if n.Type() == nodeError || n.IsMissing() {
		return n
	}

	if !n.HasError() {
		return sitter.Node{}
	}

	for i := range n.ChildCount() {
		if found := firstErrorNode(n.Child(i)); !found.IsNull() {
			return found
		}
	}

	return sitter.Node{}
}
