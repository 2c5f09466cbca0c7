package pattern

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"deasciifier/internal/datafile"
)

//go:embed data/default.json
var defaultTable []byte

//go:embed data/schema.json
var tableSchema []byte

const schemaURL = "pattern-table.schema.json"

var compiledSchema = func() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(tableSchema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(schemaURL)
}()

// Default returns the embedded sample table.
func Default(opts ...Option) *Table {
	t, err := Parse("default.json", defaultTable, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// LoadFile reads a pattern table from a JSON, YAML or TOML file.
func LoadFile(path string, opts ...Option) (*Table, error) {
	var t *Table
	err := datafile.Map(path, func(data []byte) error {
		var perr error
		t, perr = Parse(path, data, opts...)
		return perr
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Parse decodes, validates and compiles a table. name selects the format by
// extension.
func Parse(name string, data []byte, opts ...Option) (*Table, error) {
	var doc map[string]any
	if err := datafile.Decode(name, data, &doc); err != nil {
		return nil, err
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPatternSyntax, name, err)
	}
	src := make(map[string]string, len(doc))
	for k, v := range doc {
		src[k] = v.(string)
	}
	return Compile(src, opts...)
}
