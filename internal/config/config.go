package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/screa/fixpoint-miner/internal/crypto"
	"github.com/screa/fixpoint-miner/pkg/space"
	"github.com/screa/fixpoint-miner/pkg/types"
)

// Defaults
const (
	DefaultDigits      = 7
	DefaultTemplate    = "The SHA-256 hash of this sentence begins with #."
	DefaultPlaceholder = "#"
	DefaultChunkSize   = 2048
	DefaultInterval    = time.Second

	// Searches wider than this get a warning before they start
	WarnDigits = 12
)

// Errors
var (
	ErrDigitsOutOfRange     = errors.New("digits must be between 1 and 32")
	ErrInvalidPlaceholder   = errors.New("placeholder must be a single byte")
	ErrMissingPlaceholder   = errors.New("template must contain the placeholder")
	ErrConflictingVerbosity = errors.New("cannot specify both --quiet and --verbose")
	ErrInvalidWorkers       = errors.New("workers must be at least 1")
	ErrInvalidChunkSize     = errors.New("chunk size must be at least 1")
	ErrInvalidInterval      = errors.New("progress interval must be positive")
)

// Config holds the application configuration
type Config struct {
	Digits      int           `yaml:"digits"`
	Template    string        `yaml:"text"`
	Placeholder string        `yaml:"placeholder"`
	Quiet       bool          `yaml:"quiet"`
	Verbose     bool          `yaml:"verbose"`
	Workers     int           `yaml:"workers"`
	ChunkSize   int           `yaml:"chunk_size"`
	Interval    time.Duration `yaml:"interval"`
	Algorithm   string        `yaml:"algorithm"`
	LogFile     string        `yaml:"log_file"`
	ConfigFile  string        `yaml:"-"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Digits:      DefaultDigits,
		Template:    DefaultTemplate,
		Placeholder: DefaultPlaceholder,
		Workers:     crypto.Parallelism(),
		ChunkSize:   DefaultChunkSize,
		Interval:    DefaultInterval,
		Algorithm:   string(crypto.SHA256),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Digits < 1 || c.Digits > space.MaxDigits {
		return fmt.Errorf("%w: got %d", ErrDigitsOutOfRange, c.Digits)
	}
	if len(c.Placeholder) != 1 {
		return fmt.Errorf("%w: got %q", ErrInvalidPlaceholder, c.Placeholder)
	}
	if !strings.Contains(c.Template, c.Placeholder) {
		return fmt.Errorf("%w %q", ErrMissingPlaceholder, c.Placeholder)
	}
	if c.Quiet && c.Verbose {
		return ErrConflictingVerbosity
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Workers)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, c.ChunkSize)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, c.Interval)
	}
	if _, err := crypto.NewDigester(crypto.Algorithm(c.Algorithm)); err != nil {
		return err
	}
	return nil
}

// Verbosity resolves the quiet/verbose flags
func (c *Config) Verbosity() types.Verbosity {
	switch {
	case c.Quiet:
		return types.Silent
	case c.Verbose:
		return types.Detailed
	}
	return types.Compact
}

// Params returns the search parameters
func (c *Config) Params() types.SearchParameters {
	return types.SearchParameters{
		Digits:      c.Digits,
		Template:    c.Template,
		Placeholder: c.Placeholder[0],
	}
}

// WorkerConfig returns the read-only configuration handed to every worker
func (c *Config) WorkerConfig() *types.WorkerConfig {
	return &types.WorkerConfig{
		Params:    c.Params(),
		Algorithm: c.Algorithm,
		ChunkSize: uint64(c.ChunkSize),
	}
}

// IsLargeSearch returns true if exhausting the space is impractical
func (c *Config) IsLargeSearch() bool {
	return c.Digits > WarnDigits
}

// LoadFile reads a YAML configuration file
func LoadFile(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var file Config
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return &file, nil
}

// Merge copies every non-zero value from file whose flag was not set on the
// command line. changed reports whether a flag was given explicitly.
func (c *Config) Merge(file *Config, changed func(flag string) bool) {
	if file.Digits != 0 && !changed("digits") {
		c.Digits = file.Digits
	}
	if file.Template != "" && !changed("text") {
		c.Template = file.Template
	}
	if file.Placeholder != "" && !changed("placeholder") {
		c.Placeholder = file.Placeholder
	}
	if file.Quiet && !changed("quiet") {
		c.Quiet = true
	}
	if file.Verbose && !changed("verbose") {
		c.Verbose = true
	}
	if file.Workers != 0 && !changed("workers") {
		c.Workers = file.Workers
	}
	if file.ChunkSize != 0 && !changed("chunk-size") {
		c.ChunkSize = file.ChunkSize
	}
	if file.Interval != 0 && !changed("interval") {
		c.Interval = file.Interval
	}
	if file.Algorithm != "" && !changed("algorithm") {
		c.Algorithm = file.Algorithm
	}
	if file.LogFile != "" && !changed("log-file") {
		c.LogFile = file.LogFile
	}
}
