package config

import (
	"os"
	"path/filepath"
)

// EnvPath names a config file that takes precedence over the search path.
const EnvPath = "TOUCHDRAW_CONFIG"

// Loader finds and reads the configuration file.
type Loader struct {
	Version      string // "dev" builds also look in the working directory
	OverridePath string // set at link time to pin a config file
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first config file on the search path. Without one it
// returns the defaults.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// GetConfigPath returns the first existing file among the candidates, or
// "" when there is none.
func (l *Loader) GetConfigPath() string {
	for _, p := range l.candidates() {
		if p == "" {
			continue
		}
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// candidates lists the search path in precedence order.
func (l *Loader) candidates() []string {
	paths := []string{l.OverridePath, os.Getenv(EnvPath)}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".touchdrawrc"))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".config", "touchdraw")
		paths = append(paths, filepath.Join(dir, "config.rc"), filepath.Join(dir, "touchdraw.rc"))
	}
	return paths
}

// DefaultPath is where a new config file is saved.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "touchdraw", "config.rc"), nil
}
