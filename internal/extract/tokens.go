package extract

import (
	"fmt"
	"strings"

	"github.com/synkit/syndef/internal/rustsrc"
)

// tokenMacroName is the macro definition holding the spelling table.
const tokenMacroName = "Token"

// Table maps textual token spellings (e.g. "+=") to symbolic token kind
// names (e.g. "PlusEq"). It is built once and read-only afterward.
type Table map[string]string

// Symbol resolves a spelling to its symbolic kind name.
func (t Table) Symbol(spelling string) (string, bool) {
	symbol, ok := t[spelling]

	return symbol, ok
}

// Invert returns the symbol -> spelling form used in the output record.
// Two spellings mapping to one symbol would silently drop an entry, so
// a duplicate symbol is an invariant violation.
func (t Table) Invert() (map[string]string, error) {
	inverted := make(map[string]string, len(t))

	for spelling, symbol := range t {
		if prev, ok := inverted[symbol]; ok {
			return nil, fmt.Errorf("%w: token symbol %s spelled both %q and %q", ErrInvariant, symbol, prev, spelling)
		}

		inverted[symbol] = spelling
	}

	return inverted, nil
}

// LoadTokenTable parses the fixed token source file and extracts the
// spelling table from its single Token macro definition. Every arm has
// the shape `[<spelling>] => { $<path> };` where the path's last
// segment is the symbolic kind name.
func LoadTokenTable(path string) (Table, error) {
	file, err := rustsrc.ParseFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	for _, item := range file.Items() {
		if item.Kind() != rustsrc.KindMacroDefinition || item.Name() != tokenMacroName {
			continue
		}

		return readTokenRules(file, item)
	}

	return nil, fmt.Errorf("%w: no %s macro definition in %s", ErrInvariant, tokenMacroName, path)
}

func readTokenRules(file *rustsrc.File, item rustsrc.Item) (Table, error) {
	table := make(Table)

	for i := range item.Node.NamedChildCount() {
		rule := item.Node.NamedChild(i)
		if rule.Type() != "macro_rule" {
			continue
		}

		pattern := rule.ChildByFieldName("left")
		expansion := rule.ChildByFieldName("right")

		if pattern.IsNull() || expansion.IsNull() {
			return nil, fmt.Errorf("%w: malformed token rule %q", ErrInvariant, file.Text(rule))
		}

		spelling, ok := bracketInner(file.Text(pattern))
		if !ok {
			return nil, fmt.Errorf("%w: token pattern %q is not bracketed", ErrInvariant, file.Text(pattern))
		}

		symbol, err := tokenSymbol(file.Text(expansion))
		if err != nil {
			return nil, err
		}

		table[spelling] = symbol
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("%w: %s macro defines no token rules", ErrInvariant, tokenMacroName)
	}

	return table, nil
}

func bracketInner(text string) (string, bool) {
	inner, ok := delimited(strings.TrimSpace(text), "[", "]")
	if !ok {
		return "", false
	}

	return inner, true
}

// tokenSymbol extracts the kind name from an expansion of the shape
// `{ $crate::token::PlusEq }`.
func tokenSymbol(text string) (string, error) {
	inner, ok := delimited(strings.TrimSpace(text), "{", "}")
	if !ok {
		return "", fmt.Errorf("%w: token expansion %q is not braced", ErrInvariant, text)
	}

	path, ok := strings.CutPrefix(inner, "$")
	if !ok {
		return "", fmt.Errorf("%w: token expansion %q does not substitute a path", ErrInvariant, text)
	}

	segments := strings.Split(strings.TrimSpace(path), "::")

	symbol := strings.TrimSpace(segments[len(segments)-1])
	if symbol == "" {
		return "", fmt.Errorf("%w: token expansion %q names no kind", ErrInvariant, text)
	}

	return symbol, nil
}
