package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type SourceKind int

const (
	SourceStdin SourceKind = iota
	SourceFile
	SourceJob
)

type Config struct {
	Owner string
	Repo  string
	JobID int64

	File   string
	Follow bool

	FilterMode   bool
	CacheSizeMB  int
	CacheTTL     time.Duration
	TailInterval time.Duration
	LogFile      string
}

// fileConfig is the on-disk TOML layout. Durations are strings such as "24h".
type fileConfig struct {
	Repo         string `toml:"repo"`
	FilterMode   *bool  `toml:"filter_mode"`
	Follow       *bool  `toml:"follow"`
	CacheSizeMB  int    `toml:"cache_size_mb"`
	CacheTTL     string `toml:"cache_ttl"`
	TailInterval string `toml:"tail_interval"`
	LogFile      string `toml:"log_file"`
}

func Default() Config {
	return Config{
		CacheSizeMB:  500,
		CacheTTL:     24 * time.Hour,
		TailInterval: 3 * time.Second,
		LogFile:      filepath.Join(os.TempDir(), "logview", "logview.log"),
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "logview", "config.toml")
}

// LoadFile applies the values set in a TOML file on top of c. A missing file
// is not an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Repo != "" {
		if err := c.SetRepo(fc.Repo); err != nil {
			return err
		}
	}
	if fc.FilterMode != nil {
		c.FilterMode = *fc.FilterMode
	}
	if fc.Follow != nil {
		c.Follow = *fc.Follow
	}
	if fc.CacheSizeMB > 0 {
		c.CacheSizeMB = fc.CacheSizeMB
	}
	if fc.CacheTTL != "" {
		d, err := time.ParseDuration(fc.CacheTTL)
		if err != nil {
			return fmt.Errorf("config cache_ttl: %w", err)
		}
		c.CacheTTL = d
	}
	if fc.TailInterval != "" {
		d, err := time.ParseDuration(fc.TailInterval)
		if err != nil {
			return fmt.Errorf("config tail_interval: %w", err)
		}
		c.TailInterval = d
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	return nil
}

// SetRepo parses an owner/repo string.
func (c *Config) SetRepo(nwo string) error {
	parts := strings.SplitN(nwo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("repo must be in owner/repo format, got %q", nwo)
	}
	c.Owner, c.Repo = parts[0], parts[1]
	return nil
}

func (c Config) RepoNWO() string {
	return fmt.Sprintf("%s/%s", c.Owner, c.Repo)
}

func (c Config) Source() SourceKind {
	switch {
	case c.JobID != 0:
		return SourceJob
	case c.File != "" && c.File != "-":
		return SourceFile
	default:
		return SourceStdin
	}
}

func (c Config) Validate() error {
	if c.JobID != 0 && c.File != "" {
		return fmt.Errorf("-job and a log file cannot be used together")
	}
	if c.JobID != 0 && (c.Owner == "" || c.Repo == "") {
		return fmt.Errorf("owner and repo are required for -job (use -R owner/repo)")
	}
	if c.JobID < 0 {
		return fmt.Errorf("invalid job id %d", c.JobID)
	}
	if c.Follow && c.Source() == SourceStdin {
		return fmt.Errorf("-follow needs a log file")
	}
	if c.TailInterval <= 0 {
		return fmt.Errorf("tail interval must be positive")
	}
	if c.CacheSizeMB <= 0 {
		return fmt.Errorf("cache size must be positive")
	}
	return nil
}
