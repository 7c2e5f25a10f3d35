package kanji

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProfileDocument is the layout of an exported profile.
type ProfileDocument struct {
	Kanji   string  `json:"kanji" yaml:"kanji"`
	Profile Profile `json:"profile" yaml:"profile"`
}

// YAMLProfileWriter writes profiles to YAML files, one per character.
type YAMLProfileWriter struct {
	outputDir string
}

// NewYAMLProfileWriter creates a new YAMLProfileWriter.
func NewYAMLProfileWriter(outputDir string) *YAMLProfileWriter {
	return &YAMLProfileWriter{outputDir: outputDir}
}

// Write stores the profile as <outputDir>/<character>.yml and returns the path.
func (w *YAMLProfileWriter) Write(character string, profile Profile) (string, error) {
	if character == "" || filepath.Base(character) != character || character == "." || character == ".." {
		return "", fmt.Errorf("invalid character %q", character)
	}
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(w.outputDir, character+".yml")
	if err := writeYAML(path, ProfileDocument{Kanji: character, Profile: profile}); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func writeYAML(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}
