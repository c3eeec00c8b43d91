// Package config loads and validates ZeroIndex configuration.
//
// Configuration is resolved in three layers, later layers winning:
//  1. Built-in defaults
//  2. YAML config file (zeroindex.yaml)
//  3. ZEROINDEX_* environment variables
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

// Duration wraps time.Duration so YAML configs can say "90s" instead of
// nanosecond integers.
type Duration time.Duration

// UnmarshalYAML parses either a duration string ("90s") or a plain
// number of seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// String returns the time.Duration string form.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// ReingestMode controls what happens when a filename is ingested again
// into the same namespace.
type ReingestMode string

const (
	// ReingestAppend keeps the old fragments and appends new ones.
	ReingestAppend ReingestMode = "append"
	// ReingestReplace drops fragments with the same filename first.
	ReingestReplace ReingestMode = "replace"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "zeroindex.yaml"

// Config represents the complete ZeroIndex configuration.
type Config struct {
	Version int           `yaml:"version"`
	Paths   PathsConfig   `yaml:"paths"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	OCR     OCRConfig     `yaml:"ocr"`
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig configures where index data lives.
type PathsConfig struct {
	// DataDir holds one subdirectory per namespace.
	DataDir string `yaml:"data_dir"`
}

// IndexConfig configures chunking and re-ingestion behavior.
type IndexConfig struct {
	// ChunkSize is the fragment window size in characters.
	ChunkSize int `yaml:"chunk_size"`
	// ChunkOverlap is how many characters consecutive windows share.
	// Must be strictly smaller than ChunkSize.
	ChunkOverlap int `yaml:"chunk_overlap"`
	// Reingest selects append or replace semantics for repeated filenames.
	Reingest ReingestMode `yaml:"reingest"`
}

// SearchConfig configures BM25 scoring and the query path.
type SearchConfig struct {
	// TopK is the default number of fragments returned per query.
	TopK int `yaml:"top_k"`
	// K1 is the BM25 term frequency saturation parameter.
	K1 float64 `yaml:"k1"`
	// B is the BM25 length normalization parameter.
	B float64 `yaml:"b"`
	// CacheSize is the number of namespace index snapshots kept in memory.
	CacheSize int `yaml:"cache_size"`
}

// OCRConfig configures the two-stage OCR chain for images.
type OCRConfig struct {
	// Enabled turns image ingestion on or off entirely.
	Enabled bool `yaml:"enabled"`
	// Languages passed to the local tesseract engine.
	Languages []string `yaml:"languages"`
	// MinChars is the output length under which the local result is
	// considered near-empty and rotation correction / fallback kicks in.
	MinChars int `yaml:"min_chars"`
	// Vision configures the remote vision-model fallback.
	Vision VisionConfig `yaml:"vision"`
}

// VisionConfig configures the remote vision OCR fallback.
type VisionConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   Duration      `yaml:"timeout"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			DataDir: ".zeroindex",
		},
		Index: IndexConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			Reingest:     ReingestAppend,
		},
		Search: SearchConfig{
			TopK:      5,
			K1:        1.5,
			B:         0.75,
			CacheSize: 16,
		},
		OCR: OCRConfig{
			Enabled:   true,
			Languages: []string{"eng"},
			MinChars:  8,
			Vision: VisionConfig{
				Enabled:   true,
				Model:     "gpt-4o-mini",
				APIKeyEnv: "OPENAI_API_KEY",
				Timeout:   Duration(90 * time.Second),
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, layering file values and environment
// overrides on top of defaults. A missing file is not an error; the
// defaults are returned. The result is validated before being returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults apply.
	case err != nil:
		// The file exists but cannot be read (permissions, it is a
		// directory); that is distinct from it being absent.
		return nil, zerrors.New(zerrors.ErrCodeConfigRead,
			fmt.Sprintf("cannot read config file %s: %v", path, err), err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, zerrors.ConfigError(
				fmt.Sprintf("cannot parse config file %s: %v", path, err), err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies ZEROINDEX_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ZEROINDEX_DATA_DIR"); v != "" {
		cfg.Paths.DataDir = v
	}
	if v := os.Getenv("ZEROINDEX_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.ChunkSize = n
		}
	}
	if v := os.Getenv("ZEROINDEX_CHUNK_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.ChunkOverlap = n
		}
	}
	if v := os.Getenv("ZEROINDEX_REINGEST"); v != "" {
		cfg.Index.Reingest = ReingestMode(v)
	}
	if v := os.Getenv("ZEROINDEX_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.TopK = n
		}
	}
	if v := os.Getenv("ZEROINDEX_VISION_BASE_URL"); v != "" {
		cfg.OCR.Vision.BaseURL = v
	}
	if v := os.Getenv("ZEROINDEX_VISION_MODEL"); v != "" {
		cfg.OCR.Vision.Model = v
	}
	if v := os.Getenv("ZEROINDEX_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Index.ChunkSize <= 0 {
		return zerrors.ChunkParamsError(
			fmt.Sprintf("chunk_size must be positive, got %d", c.Index.ChunkSize))
	}
	if c.Index.ChunkOverlap < 0 {
		return zerrors.ChunkParamsError(
			fmt.Sprintf("chunk_overlap must not be negative, got %d", c.Index.ChunkOverlap))
	}
	if c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return zerrors.ChunkParamsError(
			fmt.Sprintf("chunk_overlap (%d) must be smaller than chunk_size (%d)",
				c.Index.ChunkOverlap, c.Index.ChunkSize))
	}
	switch c.Index.Reingest {
	case ReingestAppend, ReingestReplace:
	default:
		return zerrors.ConfigError(
			fmt.Sprintf("index.reingest must be %q or %q, got %q",
				ReingestAppend, ReingestReplace, c.Index.Reingest), nil)
	}
	if c.Search.TopK <= 0 {
		return zerrors.ConfigError(
			fmt.Sprintf("search.top_k must be positive, got %d", c.Search.TopK), nil)
	}
	if c.Search.K1 < 0 || c.Search.B < 0 || c.Search.B > 1 {
		return zerrors.ConfigError(
			fmt.Sprintf("search.k1 must be >= 0 and search.b in [0,1], got k1=%v b=%v",
				c.Search.K1, c.Search.B), nil)
	}
	if c.Search.CacheSize <= 0 {
		return zerrors.ConfigError(
			fmt.Sprintf("search.cache_size must be positive, got %d", c.Search.CacheSize), nil)
	}
	if c.OCR.Vision.Timeout <= 0 {
		return zerrors.ConfigError(
			fmt.Sprintf("ocr.vision.timeout must be positive, got %s", c.OCR.Vision.Timeout), nil)
	}
	return nil
}

// NamespaceDir returns the data directory for one namespace.
func (c *Config) NamespaceDir(namespace string) string {
	return filepath.Join(c.Paths.DataDir, namespace)
}

// RegistryPath returns the location of the ingestion registry database.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Paths.DataDir, "registry.db")
}

// Save writes the config as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return zerrors.ConfigError("cannot marshal config", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return zerrors.ConfigError(fmt.Sprintf("cannot write config file %s", path), err)
	}
	return nil
}
