package sqlitefile

import (
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// ValidationLevel names a strictness level for validating file-format
// assumptions (page size power-of-two, magic number, ...). The pager and
// page codec in this module do not read it; their checks are the same
// at every level.
type ValidationLevel int

const (
	ValidationNone ValidationLevel = iota
	ValidationBasic
	ValidationStrict
)

// Config holds the tunables a Pager and the surrounding program need.
// It is a functional-options struct: build one with NewConfig(opts...)
// or decode one from YAML with LoadConfig.
type Config struct {
	// PageCacheSize is the number of decoded pages the pager keeps
	// pinned-free before evicting the least recently used one.
	PageCacheSize int `json:"pageCacheSize"`

	// MaxConcurrency bounds the number of in-flight page reads a single
	// Pager will issue against its backing file at once.
	MaxConcurrency int `json:"maxConcurrency"`

	// ValidationMode holds the requested validation strictness. No
	// package in this module reads it.
	ValidationMode ValidationLevel `json:"validationMode"`

	// UsableSizeOverride holds a caller-chosen usable-size cap
	// (pageSize-reservedBytes). No package in this module reads it: the
	// usable size reaches the leaf cell parser only as the usableSize
	// argument of cursor.New and schema.Load.
	UsableSizeOverride int `json:"usableSizeOverride"`
}

// Option configures a Config.
type Option func(*Config)

// WithPageCacheSize sets the page cache size.
func WithPageCacheSize(n int) Option {
	return func(c *Config) { c.PageCacheSize = n }
}

// WithMaxConcurrency sets the maximum number of concurrent page reads.
func WithMaxConcurrency(n int) Option {
	return func(c *Config) { c.MaxConcurrency = n }
}

// WithValidation sets the validation strictness.
func WithValidation(level ValidationLevel) Option {
	return func(c *Config) { c.ValidationMode = level }
}

// WithUsableSizeOverride forces the usable-size cap.
func WithUsableSizeOverride(n int) Option {
	return func(c *Config) { c.UsableSizeOverride = n }
}

// DefaultConfig returns the default tunables.
func DefaultConfig() *Config {
	return &Config{
		PageCacheSize:  128,
		MaxConcurrency: 8,
		ValidationMode: ValidationBasic,
	}
}

// NewConfig builds a Config starting from DefaultConfig and applying opts
// in order.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadConfig decodes a YAML file into a Config, starting from
// DefaultConfig for any field the file omits.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}
