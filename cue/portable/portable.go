// Package portable encodes prompt records to and from JSON or YAML.
//
// An export is a flat array of prompts, each with its examples nested, using
// the same field names as the stored records. Imports are checked against an
// embedded JSON Schema before any record is decoded, so a malformed payload is
// rejected as a whole.
package portable

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
)

// Format is a portable text encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

//go:embed schema/prompts.schema.json
var schemaJSON []byte

const schemaURL = "prompts.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// ParseFormat accepts json, yaml or yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.WithHint(
		errors.NewValidationError("unsupported format %q", s),
		"use json or yaml",
	)
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Encode serializes prompts in the given format.
func Encode(prompts []types.Prompt, format Format) ([]byte, error) {
	if prompts == nil {
		prompts = []types.Prompt{}
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(prompts, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "encode json export")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(prompts); err != nil {
			return nil, errors.Wrap(err, "encode yaml export")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encode yaml export")
		}
		return buf.Bytes(), nil
	}
	_, err := ParseFormat(string(format))
	return nil, err
}

// Decode parses and validates an export payload. Any problem with the payload
// is a validation error.
func Decode(data []byte, format Format) ([]types.Prompt, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewValidationError("empty %s payload", format)
	}

	jsonData, err := normalize(data, format)
	if err != nil {
		return nil, err
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.WrapValidation(err, "malformed payload")
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, errors.WithHint(
			errors.WrapValidation(err, "payload does not match the export schema"),
			"an export is an array of prompts, each with prompt_id, task, template and version",
		)
	}

	var prompts []types.Prompt
	if err := json.Unmarshal(jsonData, &prompts); err != nil {
		return nil, errors.WrapValidation(err, "decode prompts")
	}
	return prompts, nil
}

// normalize turns the payload into JSON so both formats share one validation path.
func normalize(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.WrapValidation(err, "malformed yaml payload")
		}
		jsonData, err := json.Marshal(doc)
		if err != nil {
			return nil, errors.WrapValidation(err, "yaml payload is not representable as json")
		}
		return jsonData, nil
	}
	_, err := ParseFormat(string(format))
	return nil, err
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = errors.Wrap(err, "load export schema")
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = errors.Wrap(schemaErr, "compile export schema")
		}
	})
	return schema, schemaErr
}
