package cmd

import (
	"os"

	"github.com/BurntSushi/toml"
)

// ProjectConfig is the on-disk shape of .cppgo.toml: this tool's own
// settings (what to report, where to look), as opposed to the YAML
// internal/platform and internal/libcfg load for data describing the
// target platform and library behavior.
type ProjectConfig struct {
	Enable              []string `toml:"enable"`
	MinSeverity         string   `toml:"min_severity"`
	Template            string   `toml:"template"`
	SuppressionsFile    string   `toml:"suppressions_file"`
	Platform            string   `toml:"platform"`
	LibraryConfig       string   `toml:"library_config"`
	Include             []string `toml:"include"`
	Exclude             []string `toml:"exclude"`
	Workers             int      `toml:"workers"`
	PersistFingerprints string   `toml:"persist_fingerprints"`
}

// loadProjectConfig reads path if it exists, returning a zero-value
// ProjectConfig (not an error) when it doesn't, since .cppgo.toml is
// optional — every field it would set already has a flag-level default.
func loadProjectConfig(path string) (ProjectConfig, error) {
	var cfg ProjectConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
