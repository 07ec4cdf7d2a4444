package rustsrc

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Cursor iterates the tokens of one delimited token tree, with the
// delimiters and comments stripped. Nested delimited groups appear as
// single token_tree tokens.
type Cursor struct {
	file *File
	toks []sitter.Node
	pos  int
}

// MacroBody returns a cursor over the body token tree of a macro
// invocation item, or false when the item has no token tree body.
func (f *File) MacroBody(item Item) (*Cursor, bool) {
	count := item.Node.NamedChildCount()
	if count == 0 {
		return nil, false
	}

	body := item.Node.NamedChild(count - 1)
	if body.Type() != nodeTokenTree {
		return nil, false
	}

	return f.GroupCursor(body), true
}

// GroupCursor returns a cursor over the tokens inside a token_tree node.
func (f *File) GroupCursor(group sitter.Node) *Cursor {
	count := group.ChildCount()

	toks := make([]sitter.Node, 0, count)

	for i := range count {
		child := group.Child(i)

		switch child.Type() {
		case nodeLineComment, nodeBlockComment:
			continue
		}

		// The first and last children are the group's delimiters.
		if i == 0 || i == count-1 {
			continue
		}

		toks = append(toks, child)
	}

	return &Cursor{file: f, toks: toks}
}

// Done reports whether all tokens have been consumed.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.toks)
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (sitter.Node, bool) {
	if c.Done() {
		return sitter.Node{}, false
	}

	return c.toks[c.pos], true
}

// PeekAt returns the token at offset ahead of the cursor.
func (c *Cursor) PeekAt(offset int) (sitter.Node, bool) {
	if c.pos+offset >= len(c.toks) {
		return sitter.Node{}, false
	}

	return c.toks[c.pos+offset], true
}

// Next consumes and returns the next token.
func (c *Cursor) Next() (sitter.Node, bool) {
	tok, ok := c.Peek()
	if ok {
		c.pos++
	}

	return tok, ok
}

// Text returns the source text of a token.
func (c *Cursor) Text(n sitter.Node) string {
	return c.file.Text(n)
}

// IsGroup reports whether the token is a nested delimited group opening
// with the given delimiter.
func (c *Cursor) IsGroup(n sitter.Node, open string) bool {
	if n.Type() != nodeTokenTree {
		return false
	}

	text := c.file.Text(n)

	return len(text) > 0 && text[:1] == open
}

// Group returns a cursor over a nested token_tree token.
func (c *Cursor) Group(n sitter.Node) *Cursor {
	return c.file.GroupCursor(n)
}

// GroupInner returns the text inside a nested group, delimiters stripped.
func (c *Cursor) GroupInner(n sitter.Node) string {
	text := c.file.Text(n)
	if len(text) < 2 {
		return ""
	}

	return text[1 : len(text)-1]
}

// RestText returns the source text from the current token through the
// last token, verbatim.
func (c *Cursor) RestText() (string, bool) {
	if c.Done() {
		return "", false
	}

	first := c.toks[c.pos]
	last := c.toks[len(c.toks)-1]

	return c.file.Slice(first.StartByte(), last.EndByte()), true
}
