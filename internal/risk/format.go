package risk

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

const (
	// NoData is the sentinel rendered for null or missing values. Report
	// fields are never empty strings, so the UI can always print them.
	NoData = "No data available."
	// NoItems is the sentinel for an empty list.
	NoItems = "None."
)

// FormatValue flattens any value decoded by encoding/json into a single
// display string. It is total: every shape degrades to text, nothing panics.
// Decoded JSON only ever produces nil, bool, float64, string, []any and
// map[string]any, so the switch covers the whole input domain; the marshal
// fallback catches anything handed in directly by callers.
func FormatValue(v any, depth int) string {
	switch val := v.(type) {
	case nil:
		return NoData
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		if len(val) == 0 {
			return NoItems
		}
		lines := make([]string, 0, len(val))
		for _, item := range val {
			lines = append(lines, "• "+FormatValue(item, depth+1))
		}
		return strings.Join(lines, "\n")
	case map[string]any:
		// Go maps iterate in random order; sort so the same input always
		// renders the same string.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		entries := make([]string, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, humanizeKey(k)+": "+FormatValue(val[k], depth+1))
		}
		sep := "\n"
		if depth > 0 {
			sep = ", "
		}
		return strings.Join(entries, sep)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

// humanizeKey turns a camelCase JSON key into a display label:
// "litigationCount" -> "Litigation Count".
func humanizeKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TruncateText cuts a string to max length, appending ellipsis if truncated.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen > 3 {
		return text[:maxLen-3] + "..."
	}
	return text[:maxLen]
}
