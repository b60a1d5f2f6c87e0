package generativeAI

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoJSONObject is returned when a response holds nothing that decodes
// into the expected object.
var ErrNoJSONObject = errors.New("no JSON object in response")

// ExtractJSONCandidates returns the spans of text worth decoding, in order:
// the slice from the first '{' to the last '}', then the text with markdown
// code fences stripped.
func ExtractJSONCandidates(text string) []string {
	var candidates []string
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last > first {
		candidates = append(candidates, text[first:last+1])
	}
	stripped := stripCodeFences(text)
	if stripped != "" && (len(candidates) == 0 || candidates[0] != stripped) {
		candidates = append(candidates, stripped)
	}
	return candidates
}

func stripCodeFences(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	return strings.TrimSpace(response)
}

// DecodeJSONObject decodes the first candidate span of text that parses as a
// T. Unknown fields, wrong types and trailing data are rejected.
func DecodeJSONObject[T any](text string) (T, error) {
	var zero T
	candidates := ExtractJSONCandidates(text)
	if len(candidates) == 0 {
		return zero, ErrNoJSONObject
	}
	var lastErr error
	for _, c := range candidates {
		var out T
		if err := decodeStrict(c, &out); err != nil {
			lastErr = err
			continue
		}
		return out, nil
	}
	return zero, fmt.Errorf("%w: %v", ErrNoJSONObject, lastErr)
}

func decodeStrict(s string, v any) error {
	if !strings.HasPrefix(s, "{") {
		return fmt.Errorf("payload is not an object")
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after JSON object")
	}
	return nil
}
