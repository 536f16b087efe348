package synth

import (
	"regexp"
	"strings"
)

var (
	pythonFence  = regexp.MustCompile("(?s)```python\\n(.*?)```")
	genericFence = regexp.MustCompile("(?s)```\\n(.*?)```")
)

// ExtractCodeBlock pulls the first fenced code block out of a model reply.
// A ```python fence wins over a bare ``` fence; a reply with no fences at
// all is assumed to already be code and is returned trimmed.
func ExtractCodeBlock(text string) string {
	if m := pythonFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := genericFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}
