// Package parse turns raw LLM text replies into validated domain objects.
// Extraction runs a fixed fallback order: fenced code block, brace-matched
// substring, whole-string parse. Each step is independently testable.
package parse

import (
	"encoding/json"
	"errors"
	"strings"
)

// ExtractJSON pulls a single JSON value out of an LLM reply that may be
// wrapped in a markdown fence or preceded by prose.
func ExtractJSON(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty response")
	}

	if b, ok := fromFencedBlock(raw); ok {
		return b, nil
	}
	if b, ok := fromBraceMatch(raw); ok {
		return b, nil
	}
	if json.Valid([]byte(raw)) {
		return []byte(raw), nil
	}
	return nil, errors.New("no valid JSON found in response")
}

// fromFencedBlock extracts the contents of a ```json or ``` fence.
func fromFencedBlock(raw string) ([]byte, bool) {
	idx := strings.Index(raw, "```")
	if idx < 0 {
		return nil, false
	}
	start := idx + 3
	// Skip a short language identifier line ("json", "JSON").
	if nl := strings.Index(raw[start:], "\n"); nl >= 0 && nl < 20 {
		start += nl + 1
	}
	end := strings.Index(raw[start:], "```")
	if end <= 0 {
		return nil, false
	}
	candidate := strings.TrimSpace(raw[start : start+end])
	if json.Valid([]byte(candidate)) {
		return []byte(candidate), true
	}
	return nil, false
}

// fromBraceMatch finds the first '{' or '[' and its matching close delimiter
// (string-aware) and returns the substring if it parses. Handles replies with
// leading prose and the legacy bare-array reply shape.
func fromBraceMatch(raw string) ([]byte, bool) {
	objStart := strings.IndexByte(raw, '{')
	arrStart := strings.IndexByte(raw, '[')

	start := objStart
	opener, closer := byte('{'), byte('}')
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		start = arrStart
		opener, closer = '[', ']'
	}
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				candidate := raw[start : i+1]
				if json.Valid([]byte(candidate)) {
					return []byte(candidate), true
				}
				return nil, false
			}
		}
	}
	return nil, false
}
