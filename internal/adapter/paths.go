package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`%([A-Za-z0-9_.-]+)%`)

// PlaceholderExpander resolves %name% placeholders from a parameter map.
// Names are matched case-insensitively because viper lowercases map keys.
type PlaceholderExpander struct {
	params map[string]string
}

// NewPlaceholderExpander creates an expander over params
func NewPlaceholderExpander(params map[string]string) *PlaceholderExpander {
	return &PlaceholderExpander{params: params}
}

// Expand replaces every %name% in pattern and a leading ~ with the home
// directory. An unknown placeholder is an error.
func (e *PlaceholderExpander) Expand(pattern string) (string, error) {
	var missing []string
	expanded := placeholderPattern.ReplaceAllStringFunc(pattern, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := lookupParam(e.params, name)
		if !ok {
			missing = append(missing, m)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("unknown placeholder %s", strings.Join(missing, ", "))
	}

	if strings.HasPrefix(expanded, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		expanded = filepath.Join(home, expanded[1:])
	}

	if expanded == "" {
		return "", nil
	}
	return filepath.Clean(expanded), nil
}

func lookupParam(params map[string]string, name string) (string, bool) {
	if v, ok := params[name]; ok {
		return v, true
	}
	for k, v := range params {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
