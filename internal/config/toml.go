// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analyze    AnalyzeConfig    `toml:"analyze"`
	Substitute SubstituteConfig `toml:"substitute"`
	Reference  ReferenceConfig  `toml:"reference"`
}

// AnalyzeConfig maps analysis settings.
type AnalyzeConfig struct {
	IgnoreWhitespace *bool `toml:"ignore-whitespace"`
	IgnoreCase       *bool `toml:"ignore-case"`
	NFC              *bool `toml:"nfc"`
	Top              *int  `toml:"top"`
}

// SubstituteConfig maps substitution settings.
type SubstituteConfig struct {
	Default *string `toml:"default"`
}

// ReferenceConfig maps the reference ranking used for suggestions.
type ReferenceConfig struct {
	Lang     *string `toml:"lang"`
	Corpus   *string `toml:"corpus"`
	WordList *string `toml:"wordlist"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// DefaultConfigTemplate is written when the config file is first created.
const DefaultConfigTemplate = `# subcrack configuration

[analyze]
# ignore-whitespace = false
# ignore-case = false
# nfc = false
# top = 10

[substitute]
# default = "-"

[reference]
# lang = "en"
# corpus = "/path/to/plain.txt"
# wordlist = "/path/to/words.txt"
`
