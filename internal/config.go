package internal

import (
	"fmt"
	"log/slog"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App  ApplicationConfig `yaml:"app"`
	Docs DocsConfig        `yaml:"docs"`
	CORS CORSConfig        `yaml:"cors"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Docs.Validate(); err != nil {
		return err
	}
	return c.CORS.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
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

// DocsConfig holds the path to the documents root directory.
type DocsConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the docs configuration.
func (c *DocsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CORSConfig holds the allowed origins for cross-origin API access.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Validate validates the CORS configuration. Each origin must be "*" or an
// absolute URL with a scheme and host.
func (c *CORSConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AllowedOrigins, validation.Each(validation.By(validOrigin))),
	)
}

func validOrigin(value any) error {
	origin, _ := value.(string)
	if origin == "*" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be %q or an absolute URL", "*")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Docs: DocsConfig{
			Path: "./docs",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}
