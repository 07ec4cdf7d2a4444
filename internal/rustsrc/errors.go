package rustsrc

import (
	"fmt"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// ParseError reports a Rust syntax error with its 1-based position.
type ParseError struct {
	Path   string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: invalid Rust syntax", e.Path, e.Line, e.Column)
}

func newParseError(path string, n sitter.Node) *ParseError {
	point := n.StartPoint()

	return &ParseError{
		Path:   path,
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
	}
}
