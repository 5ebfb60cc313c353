package persist

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// recordSchema describes one entry of the "proyectos" array.
const recordSchema = `{
  "type": "object",
  "required": ["id", "titulo", "investigador_principal", "fecha_inicio", "estado"],
  "properties": {
    "id": {"type": "integer", "minimum": 1},
    "titulo": {"type": "string", "minLength": 1},
    "investigador_principal": {"type": "string", "minLength": 1},
    "fecha_inicio": {"type": "string", "minLength": 1},
    "estado": {"type": "string", "enum": ["En planificación", "En curso", "Completado", "Cancelado"]}
  }
}`

var (
	compiledOnce sync.Once
	compiled     *gojsonschema.Schema
	compileErr   error
)

func recordValidator() (*gojsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordSchema))
	})
	return compiled, compileErr
}

// validateRecord checks a raw record against recordSchema.
func validateRecord(raw json.RawMessage) error {
	schema, err := recordValidator()
	if err != nil {
		return fmt.Errorf("invalid record schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validation execution failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
}
