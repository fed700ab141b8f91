package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrExtraction means the response text contained no parsable JSON. Callers
// decide recovery: the report builder substitutes a degraded report, the feed
// builder an empty list. Extraction itself performs no recovery.
var ErrExtraction = errors.New("no parsable JSON in model response")

// jsonSpan captures from the first occurrence of open to the last occurrence
// of close, anywhere in the text. This is deliberately NOT a balanced-bracket
// scan: a response holding two independent objects, or prose with a stray
// brace after the real JSON, yields a corrupted span that then fails to parse.
// That failure surfaces as ErrExtraction rather than a silently-wrong partial
// object, and downstream fallbacks handle it.
func jsonSpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start == -1 {
		return "", false
	}
	end := strings.LastIndexByte(text, close)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// DecodeObject pulls the JSON object embedded in model output. Models wrap
// responses in prose or markdown fences despite JSON-only instructions; the
// span capture sheds both. When no object span exists the text is tried
// verbatim as a last resort.
func DecodeObject(text string) (map[string]any, error) {
	candidate := text
	if span, ok := jsonSpan(text, '{', '}'); ok {
		candidate = span
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return obj, nil
}

// DecodeArray pulls the JSON array embedded in model output into out. When no
// array span exists the input is treated as an empty array, so a response with
// no bracket at all decodes cleanly to zero elements.
func DecodeArray(text string, out any) error {
	candidate := "[]"
	if span, ok := jsonSpan(text, '[', ']'); ok {
		candidate = span
	}

	if err := json.Unmarshal([]byte(candidate), out); err != nil {
		return fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return nil
}
