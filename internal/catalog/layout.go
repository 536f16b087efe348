// Package catalog computes the canonical file layout for generated tools.
//
// The resolver is a pure function: the same tool name and category always
// map to the same three relative paths (implementation module, test suite,
// documentation). Rooting the paths at a concrete directory is the
// workspace's job, so the same resolver serves both the default catalog
// root and a caller-supplied output directory.
package catalog

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Category identifies the catalog bucket a tool belongs to.
type Category int

const (
	// CategoryUtility is the default bucket for general-purpose tools.
	CategoryUtility Category = iota
	// CategoryData holds tools that transform or analyse data.
	CategoryData
	// CategoryAPI holds tools that wrap external service APIs.
	CategoryAPI
)

// ParseCategory maps a declared category string onto the closed enum.
// Unknown or empty values fall back to CategoryUtility.
func ParseCategory(s string) Category {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "data", "data_tools":
		return CategoryData
	case "api", "api_tools":
		return CategoryAPI
	default:
		return CategoryUtility
	}
}

// Dir returns the directory segment used for this category in catalog paths.
func (c Category) Dir() string {
	switch c {
	case CategoryData:
		return "data_tools"
	case CategoryAPI:
		return "api_tools"
	default:
		return "utility_tools"
	}
}

func (c Category) String() string { return c.Dir() }

// Paths holds the three artifact locations for a single tool, relative to
// the catalog root. All three share the tool's base name; the test module
// adds a "test_" prefix and documentation swaps the extension for .md.
type Paths struct {
	Impl string // tools/<category>/<name>.py
	Test string // tests/tools/<category>/test_<name>.py
	Doc  string // docs/tools/<name>.md
}

// Resolve computes the catalog paths for a tool. name must already be a
// sanitized identifier (see SanitizeName); Resolve itself never touches
// the filesystem.
func Resolve(name string, cat Category) Paths {
	return Paths{
		Impl: path.Join("tools", cat.Dir(), name+".py"),
		Test: path.Join("tests", "tools", cat.Dir(), "test_"+name+".py"),
		Doc:  path.Join("docs", "tools", name+".md"),
	}
}

// ModulePath returns the dotted import path for a tool module, relative to
// the catalog root (e.g. "tools.utility_tools.word_counter").
func ModulePath(name string, cat Category) string {
	return "tools." + cat.Dir() + "." + name
}

var (
	camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonIdent      = regexp.MustCompile(`[^a-z0-9_]+`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// SanitizeName converts free-form input ("Word Counter Tool", "WordCounter")
// into a snake_case identifier. CamelCase boundaries become underscores, any
// other non-identifier run collapses to a single underscore, and a trailing
// "_tool" suffix is stripped. Input that leaves nothing usable, or that
// would begin with a digit, is rejected.
func SanitizeName(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = camelBoundary.ReplaceAllString(s, "${1}_${2}")
	s = strings.ToLower(s)
	s = nonIdent.ReplaceAllString(s, "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	s = strings.TrimSuffix(s, "_tool")
	s = strings.Trim(s, "_")

	if s == "" {
		return "", fmt.Errorf("tool name %q: nothing usable after sanitization", raw)
	}
	if s[0] >= '0' && s[0] <= '9' {
		return "", fmt.Errorf("tool name %q: identifier cannot begin with a digit", raw)
	}
	return s, nil
}
