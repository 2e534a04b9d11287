package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/lagna/internal/ayanamsa"
	"github.com/hpungsan/lagna/internal/chart"
)

// Environment overrides.
const (
	EnvEphemerisDir = "LAGNA_EPHEMERIS_DIR"
	EnvLogLevel     = "LAGNA_LOG_LEVEL"
)

// RepoDir is the per-repository config directory searched by FindRepoConfig.
const RepoDir = ".lagna"

// Config holds application configuration.
type Config struct {
	// Ayanamsa is the default sidereal model name, e.g. "lahiri" or "kp".
	Ayanamsa string `json:"ayanamsa,omitempty" yaml:"ayanamsa,omitempty"`

	// NodeModel is "mean" or "moon".
	NodeModel string `json:"node_model,omitempty" yaml:"node_model,omitempty"`

	// EphemerisDir holds the VSOP87 planet files. Empty means planets come
	// from mean orbital elements, which need no data files.
	EphemerisDir string `json:"ephemeris_dir,omitempty" yaml:"ephemeris_dir,omitempty"`

	// DisableStrengthJitter zeroes the cosmetic magnitude jitter.
	DisableStrengthJitter bool `json:"disable_strength_jitter,omitempty" yaml:"disable_strength_jitter,omitempty"`

	// LogLevel is a logrus level name.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited). Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty" yaml:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty" yaml:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty" yaml:"disabled_tools,omitempty"`

	// DisabledTypes is a list of type names to disable entirely.
	// Known types: "chart", "match", "dasha". Unknown type names are logged as warnings.
	DisabledTypes []string `json:"disabled_types,omitempty" yaml:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Ayanamsa:  ayanamsa.Default.Name,
		NodeModel: string(chart.NodeMean),
		LogLevel:  "info",
	}
}

// Validate checks that the named models exist.
func (c *Config) Validate() error {
	if _, err := ayanamsa.Lookup(c.Ayanamsa); err != nil {
		return err
	}
	if _, err := chart.ParseNodeModel(c.NodeModel); err != nil {
		return err
	}
	return nil
}

// Load loads configuration from baseDir/config.json, or baseDir/config.yaml
// when no JSON file exists. Returns default config if neither exists.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.lagna.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadDirRaw(baseDir)
	if err != nil {
		return nil, err
	}
	return applyEnv(Merge(DefaultConfig(), cfg)), nil
}

// LoadWithRepo loads configuration from both global (~/.lagna) and repo (.lagna) directories.
// Repo config is found by walking upward from startDir to find the nearest .lagna/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing. Environment overrides apply last.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadDirRaw(globalDir)
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return applyEnv(Merge(Merge(DefaultConfig(), global), repo)), nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// .lagna/config.json or .lagna/config.yaml.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		for _, name := range []string{"config.json", "config.yaml"} {
			configPath := filepath.Join(dir, RepoDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func loadDirRaw(dir string) (*Config, error) {
	jsonPath := filepath.Join(dir, "config.json")
	if _, err := os.Stat(jsonPath); err == nil {
		return loadFileRaw(jsonPath)
	}
	return loadFileRaw(filepath.Join(dir, "config.yaml"))
}

// loadFileRaw loads configuration from a specific file path, decoding YAML
// for .yaml/.yml files and JSON otherwise.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) *Config {
	if dir := strings.TrimSpace(os.Getenv(EnvEphemerisDir)); dir != "" {
		cfg.EphemerisDir = dir
	}
	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.Ayanamsa = firstNonEmpty(overlay.Ayanamsa, base.Ayanamsa)
	result.NodeModel = firstNonEmpty(overlay.NodeModel, base.NodeModel)
	result.EphemerisDir = firstNonEmpty(overlay.EphemerisDir, base.EphemerisDir)
	result.LogLevel = firstNonEmpty(overlay.LogLevel, base.LogLevel)

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Booleans: overlay wins if true, else base
	result.DisableStrengthJitter = base.DisableStrengthJitter || overlay.DisableStrengthJitter

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
