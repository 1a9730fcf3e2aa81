package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPlatform is the application identifier sent to the backend
const DefaultPlatform = "com.manucho.restate"

// Tables holds the ids of the four tables in the restate database
type Tables struct {
	Galleries  string `yaml:"galleries" validate:"required"`
	Reviews    string `yaml:"reviews" validate:"required"`
	Agents     string `yaml:"agents" validate:"required"`
	Properties string `yaml:"properties" validate:"required"`
}

// Config is the validated connection configuration
type Config struct {
	Endpoint   string `yaml:"endpoint" validate:"required,url"`
	ProjectID  string `yaml:"project_id" validate:"required"`
	Platform   string `yaml:"platform" validate:"required"`
	DatabaseID string `yaml:"database_id" validate:"required"`
	Tables     Tables `yaml:"tables"`
}

// envKeys maps config fields to their environment variable suffixes.
// Each is looked up as APPWRITE_<suffix> and EXPO_PUBLIC_APPWRITE_<suffix>.
var envKeys = []struct {
	suffix string
	field  func(*Config) *string
}{
	{"ENDPOINT", func(c *Config) *string { return &c.Endpoint }},
	{"PROJECT_ID", func(c *Config) *string { return &c.ProjectID }},
	{"PLATFORM", func(c *Config) *string { return &c.Platform }},
	{"DATABASE_ID", func(c *Config) *string { return &c.DatabaseID }},
	{"GALLERIES_TABLE_ID", func(c *Config) *string { return &c.Tables.Galleries }},
	{"REVIEWS_TABLE_ID", func(c *Config) *string { return &c.Tables.Reviews }},
	{"AGENTS_TABLE_ID", func(c *Config) *string { return &c.Tables.Agents }},
	{"PROPERTIES_TABLE_ID", func(c *Config) *string { return &c.Tables.Properties }},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DefaultConfigPath returns ~/.config/restate/config.yaml
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "restate", "config.yaml")
}

// LoadConfig layers the YAML file at path (optional unless explicit),
// then APPWRITE_* and EXPO_PUBLIC_APPWRITE_* variables from getenv, and
// validates the result.
func LoadConfig(path string, explicit bool, getenv func(string) string) (*Config, error) {
	cfg := &Config{Platform: DefaultPlatform}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, &ConfigError{Err: fmt.Errorf("failed to parse %s: %w", path, err)}
			}
			LogDebug("Loaded config file %s", path)
		case errors.Is(err, os.ErrNotExist) && !explicit:
			LogDebug("No config file at %s, using environment only", path)
		default:
			return nil, &ConfigError{Err: fmt.Errorf("failed to read %s: %w", path, err)}
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range envKeys {
		for _, prefix := range []string{"APPWRITE_", "EXPO_PUBLIC_APPWRITE_"} {
			if v := strings.TrimSpace(getenv(prefix + key.suffix)); v != "" {
				*key.field(cfg) = v
			}
		}
	}

	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every required field and reports all failures at once
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ConfigError{Err: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, formatFieldError(fe))
	}
	return &ConfigError{Fields: fields, Err: err}
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid url", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
