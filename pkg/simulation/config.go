package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed parameters.schema.json
var parametersSchema string

const parametersSchemaURL = "parameters.schema.json"

// compileSchema compiles schemaFile, or the embedded schema when it is empty.
func compileSchema(schemaFile string) (*jsonschema.Schema, error) {
	if schemaFile == "" {
		return jsonschema.CompileString(parametersSchemaURL, parametersSchema)
	}
	return jsonschema.Compile(schemaFile)
}

// LoadConfig loads running parameters from a JSON file and validates it against the schema.
// Keys missing from the file keep their DefaultParameters value.
func LoadConfig(configFile string, schemaFile string) (*behavior.RunningParameters, error) {
	// 1. Compile Schema
	sch, err := compileSchema(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal over the defaults
	p := behavior.DefaultParameters()
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters in %s: %w", configFile, err)
	}
	return p, nil
}

// ParseTOML parses the TOML config file whose path is provided.
// The file overwrites the default parameters.
func ParseTOML(path string) (*behavior.RunningParameters, error) {
	p := behavior.DefaultParameters()
	meta, err := toml.DecodeFile(path, p)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config toml: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters in %s: %w", path, err)
	}
	return p, nil
}

// LoadParameters picks the loader from the file extension.
// An empty path returns the default parameters.
func LoadParameters(path string) (*behavior.RunningParameters, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "":
		if path == "" {
			return behavior.DefaultParameters(), nil
		}
	case ".json":
		return LoadConfig(path, "")
	case ".toml":
		return ParseTOML(path)
	}
	return nil, fmt.Errorf("unsupported config format %q, expected .json or .toml", path)
}
