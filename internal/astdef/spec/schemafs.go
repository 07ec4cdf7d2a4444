// Package spec provides the embedded JSON Schema for the extracted
// syntax-tree schema artifact.
package spec

import "embed"

// SchemaFS contains the embedded artifact JSON Schema.
//
//go:embed syndef-schema.json
var SchemaFS embed.FS
