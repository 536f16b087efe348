// Package validate screens synthesized Python code before it is allowed
// into the catalog: a pattern-based security scan, metadata extraction from
// the source, and a pluggable test runner.
package validate

import (
	"fmt"
	"regexp"

	"github.com/toolsmith-dev/toolsmith/internal/catalog"
)

// dangerousPatterns flag constructs that generated tool code must not use.
// A pattern scan is deliberately coarse: false positives cost one failed
// synthesis attempt, false negatives cost arbitrary code execution.
var dangerousPatterns = []struct {
	re     *regexp.Regexp
	reason string
}{
	{regexp.MustCompile(`os\.system\(`), "Direct system command execution"},
	{regexp.MustCompile(`subprocess\.`), "Subprocess execution"},
	{regexp.MustCompile(`eval\(`), "Code evaluation"},
	{regexp.MustCompile(`exec\(`), "Code execution"},
	{regexp.MustCompile(`__import__\(`), "Dynamic imports"},
	{regexp.MustCompile(`open\(.+,\s*['"]w['"]`), "File writing"},
}

// CheckSecurity scans code for dangerous constructs. It returns (false,
// reason) on the first match and (true, "") when the code is clean.
func CheckSecurity(code string) (bool, string) {
	for _, p := range dangerousPatterns {
		if p.re.MatchString(code) {
			return false, fmt.Sprintf("Security issue: %s", p.reason)
		}
	}
	return true, ""
}

var (
	classRe    = regexp.MustCompile(`class\s+(\w+)\(BaseTool\)`)
	nameRe     = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)
	categoryRe = regexp.MustCompile(`category\s*=\s*["']([^"']+)["']`)
)

// Metadata is what the tool source declares about itself.
type Metadata struct {
	ClassName string
	ToolName  string
	Category  catalog.Category
}

// ExtractMetadata reads the tool class name, the declared tool name, and
// the declared category out of generated source. A missing BaseTool
// subclass is an error; a missing or unknown name and category fall back
// to the class name and the utility bucket.
func ExtractMetadata(code string) (Metadata, error) {
	classMatch := classRe.FindStringSubmatch(code)
	if classMatch == nil {
		return Metadata{}, fmt.Errorf("extract metadata: no BaseTool subclass found")
	}
	md := Metadata{ClassName: classMatch[1]}

	if m := nameRe.FindStringSubmatch(code); m != nil {
		name, err := catalog.SanitizeName(m[1])
		if err != nil {
			return Metadata{}, fmt.Errorf("extract metadata: declared name: %w", err)
		}
		md.ToolName = name
	} else {
		name, err := catalog.SanitizeName(md.ClassName)
		if err != nil {
			return Metadata{}, fmt.Errorf("extract metadata: class name: %w", err)
		}
		md.ToolName = name
	}

	if m := categoryRe.FindStringSubmatch(code); m != nil {
		md.Category = catalog.ParseCategory(m[1])
	} else {
		md.Category = catalog.CategoryUtility
	}

	return md, nil
}
