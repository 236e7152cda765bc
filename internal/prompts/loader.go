// Package prompts holds the model prompt templates, stored as JSON files
// and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.json
var promptFS embed.FS

// files maps filename to its key/template pairs, loaded once at startup.
var files = mustLoadAll()

func mustLoadAll() map[string]map[string]string {
	loaded := make(map[string]map[string]string)
	err := fs.WalkDir(promptFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := promptFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read prompt file %s: %w", path, err)
		}
		entries := make(map[string]string)
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("parse prompt file %s: %w", path, err)
		}
		loaded[path] = entries
		return nil
	})
	if err != nil {
		panic(err)
	}
	return loaded
}

// Get returns the template stored under key in the named file, e.g.
// Get("parsing.json", "parse-resume").
func Get(filename, key string) (string, error) {
	entries, ok := files[filename]
	if !ok {
		return "", fmt.Errorf("prompt file %s not found", filename)
	}
	template, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return template, nil
}

// MustGet is Get for templates the code cannot run without.
func MustGet(filename, key string) string {
	template, err := Get(filename, key)
	if err != nil {
		panic(err)
	}
	return template
}

// Format substitutes {{.Key}} placeholders with the given values. Unmatched
// placeholders are left in place.
func Format(template string, data map[string]string) string {
	for key, value := range data {
		template = strings.ReplaceAll(template, "{{."+key+"}}", value)
	}
	return template
}

// List returns the keys available in a prompt file.
func List(filename string) ([]string, error) {
	entries, ok := files[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", filename)
	}
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	return keys, nil
}
