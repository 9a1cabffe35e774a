package llm

import (
	"regexp"
	"strings"
)

var jsonFencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON pulls a JSON object out of a model reply. Models often
// wrap output in markdown fences or surround it with prose even when
// asked for raw JSON; a fenced block is preferred, otherwise the first
// balanced object is scanned out.
func ExtractJSON(text string) (string, bool) {
	if m := jsonFencePattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}
