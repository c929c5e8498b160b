package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNoJSONObject = errors.New("no JSON object found in response")

// ExtractJSONObject returns the first balanced {...} in text that is valid
// JSON. Braces inside string literals are ignored, so code embedded in JSON
// string values does not end the object early. A candidate that is not valid
// JSON, or never closes, is skipped and scanning resumes at the next '{'.
func ExtractJSONObject(text string) (string, error) {
	for start := strings.IndexByte(text, '{'); start != -1; {
		if end, ok := balancedEnd(text, start); ok {
			if candidate := text[start : end+1]; json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next == -1 {
			break
		}
		start += next + 1
	}
	return "", ErrNoJSONObject
}

// balancedEnd returns the index of the '}' closing the object opened at start.
func balancedEnd(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// DecodeJSONObject extracts the first JSON object from text and unmarshals it into v.
func DecodeJSONObject(text string, v interface{}) error {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode JSON object: %w", err)
	}
	return nil
}
