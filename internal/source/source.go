// Package source turns files and streams into plain text for reading.
package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Format defines a file format reader for extracting text.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (string, error)
}

var registry []Format

// Register adds a format reader to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Extract returns the NFC-normalized text of a file, using a registered
// format or a plain text fallback.
func Extract(filename string) (string, error) {
	if f := lookup(filename); f != nil {
		text, err := f.Extract(filename)
		if err != nil {
			return "", err
		}
		return normalize(text), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return normalize(string(data)), nil
}

// ReadText reads plain text from r, e.g. standard input.
func ReadText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return normalize(string(data)), nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

// Title derives a document title from a file name.
func Title(path string) string {
	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	title = strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(title))
	if title == "" || title == "." {
		return base
	}
	return title
}

func lookup(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f
			}
		}
	}
	return nil
}

func normalize(text string) string {
	return norm.NFC.String(strings.TrimPrefix(text, "\ufeff"))
}
