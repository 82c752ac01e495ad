// internal/inputset/import.go
// Package inputset loads input-set definitions from local JSON files so a
// set and its inputs can be created on the backend in one command.
package inputset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// File is a locally authored input-set definition.
type File struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Inputs      []FileInput `json:"inputs"`
}

// FileInput is one input inside an input-set file.
type FileInput struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// fileSchema validates an input-set file before anything is sent to the
// backend. Malformed files are rejected locally with the validator's own
// field-level messages.
const fileSchema = `{
	"type": "object",
	"required": ["name", "inputs"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"inputs": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["text"],
				"properties": {
					"name": {"type": "string"},
					"text": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`

// LoadFile reads and validates an input-set definition from path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input set file: %w", err)
	}
	return Parse(data)
}

// Parse validates raw JSON against the input-set schema and decodes it.
func Parse(data []byte) (*File, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(fileSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, fmt.Errorf("input set file failed validation: %s", strings.Join(details, "; "))
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode input set file: %w", err)
	}
	for i := range file.Inputs {
		if file.Inputs[i].Name == "" {
			file.Inputs[i].Name = fmt.Sprintf("Input %d", i+1)
		}
	}
	return &file, nil
}
