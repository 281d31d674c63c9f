// Package appconfig defines the application configuration document model
// and its serialization. Documents are stored as pretty-printed JSON with
// a stable field order so that encoding the same configuration twice
// produces byte-identical files.
package appconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Extension is the file extension for configuration documents.
const Extension = ".json"

// FileName returns the repository file name for an application. The
// mapping is a pure function of the application name so pushes and pulls
// always resolve the same file.
func FileName(appName string) string {
	return appName + Extension
}

var appNameRegexp = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Environment identifies the deployment environment a configuration
// targets.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

// ParseEnvironment converts a string to an Environment, accepting any
// case. The empty string parses to the empty Environment.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case string(EnvironmentDevelopment):
		return EnvironmentDevelopment, nil
	case string(EnvironmentStaging):
		return EnvironmentStaging, nil
	case string(EnvironmentProduction):
		return EnvironmentProduction, nil
	default:
		return "", fmt.Errorf("invalid environment %q: must be one of development, staging, production", s)
	}
}

// UnmarshalJSON decodes an environment value case-insensitively.
func (e *Environment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseEnvironment(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// AppConfig is a single application's configuration document.
type AppConfig struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Environment Environment       `json:"environment,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Spec        map[string]any    `json:"spec"`
}

// Validate checks the structural rules that apply regardless of where the
// document came from.
func (a *AppConfig) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("application name is required")
	}
	if !appNameRegexp.MatchString(a.Name) {
		return fmt.Errorf("invalid application name %q: must start with an alphanumeric character and contain only alphanumerics, dots, underscores, and hyphens", a.Name)
	}
	if a.Version == "" {
		return fmt.Errorf("application version is required")
	}
	if a.Spec == nil {
		return fmt.Errorf("application spec is required")
	}
	return nil
}

// Encode serializes a configuration document to its repository file form.
// Object keys inside spec and labels are emitted in sorted order, so the
// output is deterministic for a given document.
func Encode(app *AppConfig) ([]byte, error) {
	if app == nil {
		return nil, fmt.Errorf("app config cannot be nil")
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(app, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates a configuration document. The document must
// be valid JSON, conform to the document schema, and pass structural
// validation.
func Decode(data []byte) (*AppConfig, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("configuration is not valid JSON: %w", err)
	}
	if err := documentSchema.Validate(inst); err != nil {
		return nil, fmt.Errorf("configuration failed schema validation: %w", err)
	}
	var app AppConfig
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}
	return &app, nil
}
