package todo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "tasks.schema.json"

// Schema is the JSON Schema for the stored task list.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text", "done"],
    "properties": {
      "text": {"type": "string"},
      "done": {"type": "boolean"},
      "editing": {"type": "boolean"}
    },
    "additionalProperties": false
  }
}`

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // path to the offending value, e.g. [2].text
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is a JSON Schema file used instead of the built-in Schema.
	// If it cannot be read or compiled, only minimal checks run.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Validate checks a stored payload against the built-in schema. An empty
// payload is valid.
func Validate(value string) *ValidationResult {
	return ValidateWith(value, ValidationOptions{})
}

// ValidateWith checks a stored payload using opts.
func ValidateWith(value string, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{Valid: true}
	if value == "" {
		return result
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result
	}

	schema, warning := compileSchema(opts.SchemaPath)
	if schema == nil {
		result.Warnings = append(result.Warnings, warning,
			"JSON Schema validation not available, using minimal checks")
		validateMinimal(doc, result)
		return result
	}
	result.UsedSchema = true

	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return result
}

// compileSchema returns the built-in schema when path is empty. Otherwise
// it compiles the file at path, or returns nil and the reason it could not.
func compileSchema(path string) (*jsonschema.Schema, string) {
	if path == "" {
		schema, err := jsonschema.CompileString(schemaURL, Schema)
		if err != nil {
			return nil, fmt.Sprintf("built-in schema: %v", err)
		}
		return schema, ""
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Sprintf("schema path: %v", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Sprintf("schema file not found: %s", path)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(abs)
	if err != nil {
		return nil, fmt.Sprintf("invalid schema file: %v", err)
	}
	return schema, ""
}

func validateMinimal(doc interface{}, result *ValidationResult) {
	items, ok := doc.([]interface{})
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("expected array")})
		return
	}
	for i, item := range items {
		path := fmt.Sprintf("[%d]", i)
		obj, ok := item.(map[string]interface{})
		if !ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Path: path, Err: fmt.Errorf("expected object")})
			continue
		}
		if _, ok := obj["text"].(string); !ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Path: path + ".text", Err: fmt.Errorf("missing or not a string")})
		}
		if _, ok := obj["done"].(bool); !ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Path: path + ".done", Err: fmt.Errorf("missing or not a boolean")})
		}
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
