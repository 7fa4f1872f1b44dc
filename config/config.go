// Package config — .deeploc.yaml run-default support.
//
// When a .deeploc.yaml file exists in the working directory, its values
// fill in defaults for the translate command. Command-line flags always
// win over file values.
//
// Example:
//
//	source_dir: translations/en
//	languages: [de, fr, it]
//	context: "UI strings of a railway scheduling application"
//	indent: 2
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".deeploc.yaml"

// File is the top-level .deeploc.yaml structure.
type File struct {
	// SourceDir is the directory holding the source-language JSON files.
	SourceDir string `yaml:"source_dir,omitempty"`
	// TargetDir overrides the default output directory (a sibling of
	// SourceDir named after the language code).
	TargetDir string `yaml:"target_dir,omitempty"`
	// Languages are the default target language codes when none are
	// given on the command line.
	Languages []string `yaml:"languages,omitempty"`
	// Context is a free-text domain hint passed to the provider.
	Context string `yaml:"context,omitempty"`
	// Indent forces the output indentation width (0 = detect per file).
	Indent int `yaml:"indent,omitempty"`
	// Simulate makes every run a dry run until overridden.
	Simulate bool `yaml:"simulate,omitempty"`
}

// Load reads .deeploc.yaml from dir. Returns nil if no file exists.
func Load(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if f.Indent < 0 {
		return nil, fmt.Errorf("%s: indent must not be negative", path)
	}
	return &f, nil
}
