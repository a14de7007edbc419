// Package report serializes requirements records and validates them against
// the record JSON schema.
package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/coolbeans/norma/pkg/requirements"
)

//go:embed record.schema.json
var schemaSource []byte

const schemaURL = "record.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the raw record schema.
func Schema() []byte {
	return bytes.Clone(schemaSource)
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Marshal encodes a record as indented JSON with keys in canonical order.
func Marshal(rec *requirements.Record) ([]byte, error) {
	compact, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("indent record: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Validate checks encoded record JSON against the schema.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}

// WriteFile marshals a record, optionally validates it, and writes it to path.
func WriteFile(path string, rec *requirements.Record, validate bool) error {
	data, err := Marshal(rec)
	if err != nil {
		return err
	}
	if validate {
		if err := Validate(data); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
