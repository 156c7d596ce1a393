package filter

import (
	"fmt"
	"sort"
	"strings"

	"dealdesk/internal/record"
)

// SortConfig names a dotted key path and a direction ("ascending" or
// "descending").
type SortConfig struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

// Sort stably orders records by the configured key with type-aware
// comparison: date-like keys compare as dates, fmv/compensation as numbers,
// everything else case-insensitively as strings. Missing values order before
// present ones. A missing key returns the input unchanged.
func Sort(deals []record.Raw, cfg SortConfig) []record.Raw {
	if deals == nil || strings.TrimSpace(cfg.Key) == "" {
		return deals
	}
	out := make([]record.Raw, len(deals))
	copy(out, deals)

	desc := cfg.Direction == "descending"
	sort.SliceStable(out, func(i, j int) bool {
		c := compareByKey(out[i], out[j], cfg.Key)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareByKey(a, b record.Raw, key string) int {
	va := lookupPath(a, key)
	vb := lookupPath(b, key)

	if isDateKey(key) {
		ta, _ := record.SafeDate(va)
		tb, _ := record.SafeDate(vb)
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		default:
			return 0
		}
	}

	if key == "fmv" || key == "compensation" {
		return compareFloats(record.SafeNumber(va), record.SafeNumber(vb))
	}

	if fa, aok := asFloat(va); aok {
		if fb, bok := asFloat(vb); bok {
			return compareFloats(fa, fb)
		}
	}

	return strings.Compare(stringValue(va), stringValue(vb))
}

func isDateKey(key string) bool {
	return strings.Contains(key, "date") ||
		strings.Contains(key, "created") ||
		strings.Contains(key, "updated")
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}
	return strings.ToLower(fmt.Sprint(v))
}

// lookupPath resolves a dotted key path, returning nil when any
// intermediate is missing or not an object.
func lookupPath(raw record.Raw, path string) any {
	var cur any = map[string]any(raw)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = obj[part]
		if !ok {
			return nil
		}
	}
	return cur
}
