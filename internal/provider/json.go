package provider

import (
	"regexp"
	"strings"
)

var jsonCodeBlockRegex = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// extractJSON pulls the first JSON object out of a model response that may
// wrap it in markdown code fences or surrounding prose. Returns the input
// trimmed when no object boundaries are found; the caller's unmarshal will
// report the defect.
func extractJSON(s string) string {
	matches := jsonCodeBlockRegex.FindStringSubmatch(s)
	if len(matches) > 1 {
		s = strings.TrimSpace(matches[1])
	} else {
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return s
	}
	end := findMatchingBrace(s, start)
	if end == -1 {
		return s
	}
	return s[start : end+1]
}

// findMatchingBrace finds the closing brace for the object opening at
// startPos, skipping braces inside strings and escape sequences.
func findMatchingBrace(s string, startPos int) int {
	depth := 0
	inString := false
	escaped := false

	for i := startPos; i < len(s); i++ {
		ch := s[i]

		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
