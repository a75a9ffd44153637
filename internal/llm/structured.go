package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

var (
	openingFence  = regexp.MustCompile("```json\\n?")
	trailingFence = regexp.MustCompile("```\\n?$")
)

// StripCodeFences removes a ```json opening fence wherever it appears and a
// closing ``` fence at the end of the text, then trims whitespace.
func StripCodeFences(s string) string {
	s = openingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(strings.TrimRight(s, " \t\r"), "")
	return strings.TrimSpace(s)
}

// ExtractJSON decodes a JSON object of type T from raw model output.
// The text is first decoded as-is; if that fails, code fences are stripped
// and the first balanced object is decoded instead. If validator is
// non-nil, the decoded value is validated before return.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return zero, fmt.Errorf("%w: empty response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		jsonStr := extractJSONBlock(StripCodeFences(trimmed))
		if jsonStr == "" {
			return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
		}
		result = *new(T)
		if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

// extractJSONBlock finds the first balanced { ... } block in the text,
// ignoring braces inside string literals.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
