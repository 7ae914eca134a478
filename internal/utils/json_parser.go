package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoObject is returned when model output contains no brace-delimited object
var ErrNoObject = errors.New("no json object in model output")

var (
	fencePattern         = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyPattern       = regexp.MustCompile(`([{,]\s*)([A-Za-z_]\w*)(\s*:)`)
	controlCharPattern   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ParseModelJSON decodes the first JSON object found in free-form model output.
// It handles:
// - a bare object
// - an object inside a markdown fence
// - an object surrounded by prose
// - trailing commas, unquoted keys and single-quoted strings
func ParseModelJSON(output string, target any) error {
	output = strings.TrimPrefix(strings.TrimSpace(output), "\ufeff")
	if output == "" {
		return fmt.Errorf("empty model output")
	}

	candidate := FirstObject(output)
	if m := fencePattern.FindStringSubmatch(output); len(m) > 1 {
		if obj := FirstObject(m[1]); obj != "" {
			candidate = obj
		}
	}
	if candidate == "" {
		return ErrNoObject
	}

	if err := json.Unmarshal([]byte(candidate), target); err == nil {
		return nil
	}

	repaired := repairJSON(candidate)
	if err := json.Unmarshal([]byte(repaired), target); err != nil {
		return fmt.Errorf("decode model json %q: %w", truncate(candidate, 100), err)
	}
	return nil
}

// FirstObject returns the first balanced {...} substring of s, or "" if none.
// Braces inside string literals are ignored.
func FirstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escape := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// repairJSON fixes the formatting mistakes models make most often
func repairJSON(s string) string {
	s = trailingCommaPattern.ReplaceAllString(s, "$1")
	s = fixSingleQuotes(s)
	s = bareKeyPattern.ReplaceAllString(s, `$1"$2"$3`)
	return controlCharPattern.ReplaceAllString(s, "")
}

// fixSingleQuotes turns 'value' into "value" outside double-quoted strings.
// Apostrophes inside words are left alone.
func fixSingleQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inDouble := false
	inSingle := false
	escape := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escape {
			b.WriteByte(ch)
			escape = false
			continue
		}
		if ch == '\\' {
			b.WriteByte(ch)
			escape = true
			continue
		}
		if ch == '"' && !inSingle {
			inDouble = !inDouble
			b.WriteByte(ch)
			continue
		}
		if ch == '\'' && !inDouble {
			if inSingle {
				inSingle = false
				b.WriteByte('"')
				continue
			}
			if opensValue(s, i) {
				inSingle = true
				b.WriteByte('"')
				continue
			}
		}
		if ch == '"' && inSingle {
			b.WriteString(`\"`)
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// opensValue reports whether the quote at i follows a structural character
func opensValue(s string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch s[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case ':', ',', '[', '{':
			return true
		default:
			return false
		}
	}
	return true
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
