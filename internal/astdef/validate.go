package astdef

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/synkit/syndef/internal/astdef/spec"
)

// ErrSchemaInvalid is returned when a schema document fails validation.
var ErrSchemaInvalid = errors.New("schema document is invalid")

// ValidateJSON checks a serialized schema artifact against the embedded
// JSON Schema. The returned error wraps ErrSchemaInvalid and lists every
// violation.
func ValidateJSON(data []byte) error {
	schemaBytes, err := spec.SchemaFS.ReadFile("syndef-schema.json")
	if err != nil {
		return fmt.Errorf("read embedded schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var sb strings.Builder

	for i, verr := range result.Errors() {
		if i > 0 {
			sb.WriteString("; ")
		}

		fmt.Fprintf(&sb, "%s: %s", verr.Field(), verr.Description())
	}

	return fmt.Errorf("%w: %s", ErrSchemaInvalid, sb.String())
}
