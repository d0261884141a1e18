package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var comments = map[string]string{
	"mode":            "# grouping mode: words or sentences",
	"group_size":      "# words or sentences shown at once",
	"wpm":             "# reading speed in words per minute",
	"abbreviations":   "# abbreviations whose period never ends a sentence",
	"store":           "# where documents and reading positions are kept",
	"store.backend":   "# json or sqlite",
	"store.path":      "# leave empty for the state directory",
	"define":          "# word definitions, available while paused on a single word",
	"define.rate":     "# requests per second",
	"define.endpoint": "# any service answering in the dictionaryapi.dev format",
}

// DefaultYAML renders Default as a commented YAML config file.
func DefaultYAML() ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(Default()); err != nil {
		return nil, err
	}
	annotate(&doc, "")

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func annotate(n *yaml.Node, prefix string) {
	if n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		path := key.Value
		if prefix != "" {
			path = prefix + "." + key.Value
		}
		if c, ok := comments[path]; ok {
			key.HeadComment = c
		}
		annotate(val, path)
	}
}

// EnsureFile writes the default config to path unless it already exists.
func EnsureFile(path string) error {
	if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("unable create directory: %w", err)
	}
	data, err := DefaultYAML()
	if err != nil {
		return fmt.Errorf("unable to render config file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}
