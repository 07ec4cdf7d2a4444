// Package extract crawls a Rust crate's module tree, recognizes its
// syntax-tree node declarations, and assembles them into the schema
// record. The work runs in two passes: a crawl that collects raw
// declarations and renames, then an introspection pass that resolves
// every captured type text against the complete collection.
package extract

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/synkit/syndef/internal/astdef"
	"github.com/synkit/syndef/internal/cargo"
)

// Extract runs a full extraction over the crate at crateDir and returns
// the assembled schema. Any invariant violation aborts with no partial
// result.
func Extract(crateDir string, cfg Config) (*astdef.Schema, error) {
	tokens, err := LoadTokenTable(tokenPath(crateDir, cfg))
	if err != nil {
		return nil, err
	}

	coll, err := Crawl(crateDir, cfg)
	if err != nil {
		return nil, err
	}

	version, err := cargo.Version(crateDir)
	if err != nil {
		return nil, err
	}

	nodes, err := assembleNodes(coll, tokens)
	if err != nil {
		return nil, err
	}

	inverted, err := tokens.Invert()
	if err != nil {
		return nil, err
	}

	return &astdef.Schema{
		Version: version,
		Nodes:   nodes,
		Tokens:  inverted,
	}, nil
}

func tokenPath(crateDir string, cfg Config) string {
	return filepath.Join(crateDir, cfg.TokenFile)
}

// assembleNodes resolves every collected declaration into its final
// node record, ordered by identifier.
func assembleNodes(coll *Collection, tokens Table) ([]astdef.Node, error) {
	idents := make([]string, 0, len(coll.Decls))
	for ident := range coll.Decls {
		idents = append(idents, ident)
	}

	sort.Strings(idents)

	in := NewIntrospector(coll, tokens)
	nodes := make([]astdef.Node, 0, len(idents))

	for _, ident := range idents {
		node, err := assembleNode(in, coll.Decls[ident])
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, node)
	}

	return nodes, nil
}

func assembleNode(in *Introspector, decl *Decl) (astdef.Node, error) {
	features, err := Resolve(decl.Features)
	if err != nil {
		return astdef.Node{}, fmt.Errorf("node %s: %w", decl.Ident, err)
	}

	data, err := assembleData(in, decl)
	if err != nil {
		return astdef.Node{}, fmt.Errorf("node %s: %w", decl.Ident, err)
	}

	return astdef.Node{
		Ident:      decl.Ident,
		Features:   astdef.Features{Any: features},
		Data:       data,
		Exhaustive: decl.Exhaustive,
	}, nil
}

func assembleData(in *Introspector, decl *Decl) (astdef.Data, error) {
	switch decl.Shape {
	case ShapePrivateStruct:
		return astdef.Data{Private: true}, nil
	case ShapeStruct:
		fields := make(astdef.Fields, 0, len(decl.Fields))

		for _, raw := range decl.Fields {
			ty, err := in.TypeOf(raw.Type)
			if err != nil {
				return astdef.Data{}, fmt.Errorf("field %s: %w", raw.Name, err)
			}

			fields = append(fields, astdef.Field{Name: raw.Name, Type: ty})
		}

		return astdef.Data{Fields: fields}, nil
	case ShapeEnum:
		variants := make(astdef.Variants, 0, len(decl.Variants))

		for _, raw := range decl.Variants {
			types := make([]astdef.Type, 0, len(raw.Types))

			for _, text := range raw.Types {
				ty, err := in.TypeOf(text)
				if err != nil {
					return astdef.Data{}, fmt.Errorf("variant %s: %w", raw.Name, err)
				}

				types = append(types, ty)
			}

			variants = append(variants, astdef.Variant{Name: raw.Name, Types: types})
		}

		return astdef.Data{Variants: variants}, nil
	default:
		return astdef.Data{}, fmt.Errorf("%w: declaration %s has no shape", ErrInvariant, decl.Ident)
	}
}
