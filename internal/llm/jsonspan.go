package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/fitlog/internal/fitlog/entry"
)

var ErrNoJSON = errors.New("no JSON object in llm response")

// FindJSONSpan returns the first balanced {...} or [...] span in s. Brackets
// inside string literals are ignored.
func FindJSONSpan(s string) (string, bool) {
	span, _, ok := nextJSONSpan(s, 0)
	return span, ok
}

// nextJSONSpan looks for a balanced span starting at or after from and also
// returns the index right after it.
func nextJSONSpan(s string, from int) (string, int, bool) {
	for from < len(s) {
		rel := strings.IndexAny(s[from:], "{[")
		if rel < 0 {
			return "", -1, false
		}
		start := from + rel
		if end, ok := spanEnd(s, start); ok {
			return s[start:end], end, true
		}
		from = start + 1
	}
	return "", -1, false
}

func spanEnd(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// ParseGuess locates the JSON in a raw completion and decodes it. An array
// contributes its first element. Spans that are not an object or an array of
// objects, like a "[1]" footnote in prose, are skipped. The decoded span is
// kept verbatim in Guess.Raw.
func ParseGuess(raw string) (entry.Guess, error) {
	var firstErr error
	for from := 0; ; {
		span, end, ok := nextJSONSpan(raw, from)
		if !ok {
			break
		}
		from = end

		guess, err := decodeGuess(span)
		if err == nil {
			return guess, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return entry.Guess{}, firstErr
	}
	return entry.Guess{}, ErrNoJSON
}

func decodeGuess(span string) (entry.Guess, error) {
	if strings.HasPrefix(span, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(span), &items); err != nil {
			return entry.Guess{}, fmt.Errorf("invalid JSON array in llm response: %w", err)
		}
		if len(items) == 0 {
			return entry.Guess{}, ErrNoJSON
		}
		span = string(items[0])
	}

	if !strings.HasPrefix(strings.TrimSpace(span), "{") {
		return entry.Guess{}, fmt.Errorf("llm response JSON is not an object: %s", span)
	}

	var guess entry.Guess
	if err := json.Unmarshal([]byte(span), &guess); err != nil {
		return entry.Guess{}, fmt.Errorf("invalid JSON in llm response: %w", err)
	}
	guess.Raw = json.RawMessage(span)
	return guess, nil
}
