package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"zhuyin/internal/logging"
)

//go:embed config.schema.json
var schemaJSON []byte

const schemaURL = "config.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether any error concerns field.
func (e ValidationErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

// ValidateConfig checks c against the embedded JSON schema and the rules
// the schema cannot express. All problems are reported together as
// ValidationErrors.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateSchema(c)...)
	errs = append(errs, validateEngine(&c.Engine)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateSchema(c *Config) ValidationErrors {
	sch, err := compiledSchema()
	if err != nil {
		return ValidationErrors{{Field: "schema", Message: err.Error()}}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return ValidationErrors{{Field: "schema", Message: err.Error()}}
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return ValidationErrors{{Field: "schema", Message: err.Error()}}
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return ValidationErrors{{Field: "schema", Message: err.Error()}}
	}

	var errs ValidationErrors
	for _, leaf := range leafErrors(verr) {
		errs = append(errs, ValidationError{
			Field:   fieldName(leaf.InstanceLocation),
			Message: leaf.Message,
		})
	}
	return errs
}

func leafErrors(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, leafErrors(c)...)
	}
	return out
}

// fieldName turns a JSON pointer such as /engine/cand_per_page into
// engine.cand_per_page.
func fieldName(pointer string) string {
	name := strings.ReplaceAll(strings.Trim(pointer, "/"), "/", ".")
	if name == "" {
		return "config"
	}
	return name
}

func validateEngine(e *EngineConfig) ValidationErrors {
	var errs ValidationErrors

	seen := make(map[rune]bool, len(e.SelKeys))
	for _, r := range e.SelKeys {
		if seen[r] {
			errs = append(errs, ValidationError{
				Field:   "engine.sel_keys",
				Message: fmt.Sprintf("duplicate selection key %q", r),
			})
			break
		}
		seen[r] = true
	}

	if e.CandPerPage > len(e.SelKeys) {
		errs = append(errs, ValidationError{
			Field:   "engine.cand_per_page",
			Message: fmt.Sprintf("%d candidates per page need as many selection keys, have %d", e.CandPerPage, len(e.SelKeys)),
		})
	}
	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	if _, err := logging.ParseLevel(l.Level); err != nil {
		errs = append(errs, ValidationError{Field: "logging.level", Message: err.Error()})
	}
	if _, err := logging.ParseFormat(l.Format); err != nil {
		errs = append(errs, ValidationError{Field: "logging.format", Message: err.Error()})
	}
	if (l.Output == "file" || l.Output == "both") && l.FilePath == "" {
		errs = append(errs, ValidationError{
			Field:   "logging.file_path",
			Message: "required when logging to a file",
		})
	}
	return errs
}
