package astdef

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidType is returned when marshalling a zero or malformed Type.
var ErrInvalidType = errors.New("invalid schema type value")

// MarshalJSON emits the node object with its shape inlined: exactly one
// of "fields", "variants", or "private" appears between "features" and
// "exhaustive".
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	if err := writeMember(&buf, "ident", n.Ident); err != nil {
		return nil, err
	}

	buf.WriteByte(',')

	features := n.Features
	if features.Any == nil {
		features.Any = []string{}
	}

	if err := writeMember(&buf, "features", features); err != nil {
		return nil, err
	}

	buf.WriteByte(',')

	switch {
	case n.Data.Private:
		if err := writeMember(&buf, "private", true); err != nil {
			return nil, err
		}
	case n.Data.Variants != nil:
		if err := writeMember(&buf, "variants", n.Data.Variants); err != nil {
			return nil, err
		}
	default:
		fields := n.Data.Fields
		if fields == nil {
			fields = Fields{}
		}

		if err := writeMember(&buf, "fields", fields); err != nil {
			return nil, err
		}
	}

	buf.WriteByte(',')

	if err := writeMember(&buf, "exhaustive", n.Exhaustive); err != nil {
		return nil, err
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalJSON emits fields as a JSON object in declaration order.
func (fs Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, field := range fs {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := writeMember(&buf, field.Name, field.Type); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalJSON emits variants as a JSON object in declaration order;
// unit variants map to empty payload lists.
func (vs Variants) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, variant := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}

		types := variant.Types
		if types == nil {
			types = []Type{}
		}

		if err := writeMember(&buf, variant.Name, types); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalJSON encodes a type as a single-key object discriminated by
// kind, e.g. {"syn":"Expr"}, {"option":{...}}, {"token":"Comma"}.
func (t Type) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case KindNode:
		return keyed("syn", t.Name)
	case KindOption:
		return keyed("option", t.Elem)
	case KindBox:
		return keyed("box", t.Elem)
	case KindVec:
		return keyed("vec", t.Elem)
	case KindPunctuated:
		return keyed("punctuated", struct {
			Element *Type  `json:"element"`
			Punct   string `json:"punct"`
		}{t.Elem, t.Punct})
	case KindGroup:
		return keyed("group", t.Name)
	case KindToken:
		return keyed("token", t.Name)
	case KindExt:
		return keyed("ext", t.Name)
	case KindStd:
		return keyed("std", t.Name)
	case KindTuple:
		return keyed("tuple", t.Tuple)
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidType, t.Kind)
	}
}

func keyed(key string, value any) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	if err := writeMember(&buf, key, value); err != nil {
		return nil, err
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, name string, value any) error {
	nameJSON, err := json.Marshal(name)
	if err != nil {
		return fmt.Errorf("marshal member name: %w", err)
	}

	valueJSON, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal member %s: %w", name, err)
	}

	buf.Write(nameJSON)
	buf.WriteByte(':')
	buf.Write(valueJSON)

	return nil
}
