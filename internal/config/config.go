// Package config loads arbor's configuration from
// ~/.config/arbor/config.toml. A missing file yields defaults; only a
// malformed file is an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Timeouts bound external process invocations so no operation can block
// indefinitely. Values are in seconds in the file.
type Timeouts struct {
	FetchSeconds    int `toml:"fetch_seconds" json:"fetch_seconds"`
	InstallSeconds  int `toml:"install_seconds" json:"install_seconds"`
	IdentitySeconds int `toml:"identity_seconds" json:"identity_seconds"`
	StatusSeconds   int `toml:"status_seconds" json:"status_seconds"`
}

// Config holds the arbor configuration.
type Config struct {
	// ContainerSuffix names the sibling directory that holds worktrees,
	// appended to the repository name ("acme" -> "acme-worktrees").
	ContainerSuffix string `toml:"container_suffix" json:"container_suffix"`

	// OverrideFile is the name of the optional identity override file
	// looked up at the repository root.
	OverrideFile string `toml:"override_file" json:"override_file"`

	// EnvScanDepth bounds how many directory levels below the main
	// checkout are scanned for .env* files during create.
	EnvScanDepth int `toml:"env_scan_depth" json:"env_scan_depth"`

	Timeouts Timeouts `toml:"timeouts" json:"timeouts"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ContainerSuffix: "-worktrees",
		OverrideFile:    ".arbor-user",
		EnvScanDepth:    3,
		Timeouts: Timeouts{
			FetchSeconds:    60,
			InstallSeconds:  300,
			IdentitySeconds: 5,
			StatusSeconds:   15,
		},
	}
}

// FetchTimeout returns the trunk-sync timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Timeouts.FetchSeconds) * time.Second
}

// InstallTimeout returns the dependency-install timeout as a duration.
func (c *Config) InstallTimeout() time.Duration {
	return time.Duration(c.Timeouts.InstallSeconds) * time.Second
}

// IdentityTimeout bounds the hosted identity probe.
func (c *Config) IdentityTimeout() time.Duration {
	return time.Duration(c.Timeouts.IdentitySeconds) * time.Second
}

// StatusTimeout bounds per-worktree status queries.
func (c *Config) StatusTimeout() time.Duration {
	return time.Duration(c.Timeouts.StatusSeconds) * time.Second
}

// Path returns the config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "arbor", "config.toml"), nil
}

// Load reads the config file, filling unset fields with defaults.
// Returns Default() without error when the file does not exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.EnvScanDepth < 0 {
		return fmt.Errorf("env_scan_depth must be >= 0, got %d", c.EnvScanDepth)
	}
	if c.ContainerSuffix == "" {
		return errors.New("container_suffix must not be empty")
	}
	return nil
}

// DefaultFileContent is written by `arbor config init`.
const DefaultFileContent = `# arbor configuration

# Sibling directory holding worktrees: <repo><container_suffix>/<user>/<ticket>/<desc>
container_suffix = "-worktrees"

# Identity override file looked up at the repository root.
# Contains a single line: USERNAME=<handle>
override_file = ".arbor-user"

# Directory depth scanned for .env* files when creating a worktree.
env_scan_depth = 3

[timeouts]
fetch_seconds = 60
install_seconds = 300
identity_seconds = 5
status_seconds = 15
`

// Init writes the default config file. Fails if the file exists unless
// force is set.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(DefaultFileContent), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
