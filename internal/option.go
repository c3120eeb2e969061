package internal

import "github.com/starford/sowilo/internal/storage"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	store  storage.Provider
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStore overrides the filesystem document provider, e.g. with a
// pre-built or fake store in tests. When unset, Run builds an FS provider
// from the configured documents root.
func WithStore(store storage.Provider) Option {
	return func(a *application) {
		a.store = store
	}
}
