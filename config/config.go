package config

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/pagespec"
)

// Log levels accepted by app.log_level.
var logLevels = []any{"debug", "info", "warn", "error"}

// templateKeys are the placeholders available to header and footer templates.
var templateKeys = map[string]bool{"title": true, "model": true, "attribution": true, "timestamp": true}

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Page     string            `yaml:"page"`
	Document DocumentConfig    `yaml:"document"`
	Output   OutputConfig      `yaml:"output"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if _, err := pagespec.Resolve(c.Page); err != nil {
		return fmt.Errorf("page: %w", err)
	}
	if err := c.Document.Validate(); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// PageGeometry resolves the page description.
func (c *Config) PageGeometry() (pagespec.Geometry, error) {
	return pagespec.Resolve(c.Page)
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel string     `yaml:"log_level"`
	LogFile  string     `yaml:"log_file"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	c.LogLevel = strings.ToLower(c.LogLevel)
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.Required, validation.In(logLevels...)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DocumentConfig holds the header and footer texts of exported documents.
//
// AttributionFormat and FooterFormat are ${...} templates; the available keys
// are title, model, attribution (model without its "org/" prefix) and timestamp.
type DocumentConfig struct {
	Title             string `yaml:"title"`
	AttributionFormat string `yaml:"attribution_format"`
	FooterFormat      string `yaml:"footer_format"`
	FooterPlacement   string `yaml:"footer_placement"`
	TimestampLayout   string `yaml:"timestamp_layout"`
}

// Validate validates the document configuration.
func (c *DocumentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.AttributionFormat, validation.By(knownPlaceholders)),
		validation.Field(&c.FooterFormat, validation.By(knownPlaceholders)),
		validation.Field(&c.FooterPlacement, validation.By(func(v any) error {
			if _, ok := layout.ParseFooterPlacement(v.(string)); !ok {
				return errors.New("must be one of last, every")
			}
			return nil
		})),
		validation.Field(&c.TimestampLayout, validation.Required),
	)
}

// Footer returns the parsed footer placement.
func (c *DocumentConfig) Footer() layout.FooterPlacement {
	p, _ := layout.ParseFooterPlacement(c.FooterPlacement)
	return p
}

func knownPlaceholders(v any) error {
	for _, f := range binding.Fields(v.(string)) {
		if !templateKeys[f] {
			return fmt.Errorf("unknown placeholder ${%s}", f)
		}
	}
	return nil
}

// OutputConfig holds where rendered files are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: "info",
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Page: pagespec.Default,
		Document: DocumentConfig{
			Title:             layout.DefaultTitle,
			AttributionFormat: "Chairman: ${attribution}",
			FooterFormat:      "Generated on ${timestamp}",
			FooterPlacement:   "last",
			TimestampLayout:   "2006-01-02 15:04:05",
		},
		Output: OutputConfig{
			Dir: "output",
		},
	}
}
