package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the JSON object embedded in a completion into T.
// Candidates from objectCandidates are tried in order and the first that
// decodes wins. If validator is non-nil the decoded value must pass it.
// Every failure is a *ParseFailure carrying the raw text.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	candidates := objectCandidates(raw)
	if len(candidates) == 0 {
		return zero, &ParseFailure{Reason: "no JSON object found in response", Raw: raw}
	}

	var lastErr error
	for _, candidate := range candidates {
		var result T
		if err := json.Unmarshal([]byte(candidate), &result); err != nil {
			lastErr = err
			continue
		}
		if validator != nil {
			if err := validator(result); err != nil {
				return zero, &ParseFailure{Reason: fmt.Sprintf("validation failed: %v", err), Raw: raw}
			}
		}
		return result, nil
	}

	return zero, &ParseFailure{Reason: lastErr.Error(), Raw: raw}
}

// ExtractObject extracts the JSON object embedded in text as a generic map.
func ExtractObject(text string) (map[string]any, error) {
	obj, err := ExtractJSON[map[string]any](text, nil)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, &ParseFailure{Reason: "null object", Raw: text}
	}
	return obj, nil
}

// objectCandidates lists the spans worth decoding, most literal first:
// the text from the first '{' through the last '}', then the first balanced
// object. Both are taken from raw and then from raw with markdown fences
// removed. Spans are sanitized and duplicates dropped.
func objectCandidates(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(span string) {
		if span == "" {
			return
		}
		span = sanitizeJSON(span)
		if seen[span] {
			return
		}
		seen[span] = true
		out = append(out, span)
	}

	for _, text := range []string{raw, removeFences(raw)} {
		add(outermostSpan(text))
		add(firstBalancedObject(text))
	}
	return out
}

// outermostSpan returns s from its first '{' through its last '}', or ""
// when there is no such pair in that order.
func outermostSpan(s string) string {
	first := strings.IndexByte(s, '{')
	last := strings.LastIndexByte(s, '}')
	if first == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}

// removeFences deletes every ``` marker together with a language tag that
// directly follows it. Fences may share a line with the JSON.
func removeFences(s string) string {
	const fence = "```"
	if !strings.Contains(s, fence) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.Index(s, fence)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		s = s[i+len(fence):]

		tag := 0
		for tag < len(s) && isTagByte(s[tag]) {
			tag++
		}
		s = s[tag:]
	}
}

func isTagByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '-' || c == '_' || c == '+'
}

// lexState follows string literals during a byte scan.
type lexState struct {
	inString bool
	escaped  bool
}

// step consumes c and reports whether it is structural, meaning outside a
// string literal and not a quote.
func (l *lexState) step(c byte) bool {
	switch {
	case l.escaped:
		l.escaped = false
		return false
	case l.inString && c == '\\':
		l.escaped = true
		return false
	case c == '"':
		l.inString = !l.inString
		return false
	}
	return !l.inString
}

// firstBalancedObject returns the first '{' and everything up to its
// matching '}'. Braces inside string literals do not count.
func firstBalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	var lx lexState
	depth := 0
	for i := start; i < len(s); i++ {
		if !lx.step(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// sanitizeJSON drops // and /* */ comments and rewrites numbers such as
// ".8" or "-.3" to "0.8" and "-0.3". String literals are left untouched.
func sanitizeJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	var lx lexState
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !lx.step(c) {
			b.WriteByte(c)
			continue
		}

		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				end := strings.IndexByte(s[i:], '\n')
				if end == -1 {
					i = len(s)
				} else {
					i += end - 1 // keep the newline
				}
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end == -1 {
					i = len(s)
				} else {
					i += end + 3
				}
				continue
			}
		}

		if c == '.' && i+1 < len(s) && isDigit(s[i+1]) && opensNumber(lastSignificant(b.String())) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func lastSignificant(s string) byte {
	s = strings.TrimRight(s, " \t\r\n")
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

// opensNumber reports whether a value may start right after c.
func opensNumber(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
