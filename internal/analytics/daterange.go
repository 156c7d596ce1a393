package analytics

import (
	"time"

	"dealdesk/internal/record"
)

// Symbolic range tokens accepted by the dashboard.
const (
	Range7d  = "7d"
	Range30d = "30d"
	Range90d = "90d"
	Range1y  = "1y"
	RangeAll = "all"
)

func rangeDays(token string) int {
	switch token {
	case Range7d:
		return 7
	case Range30d:
		return 30
	case Range90d:
		return 90
	case Range1y:
		return 365
	default:
		return 0
	}
}

// Boundary maps a range token to its lower bound relative to now. The second
// return is false for "all" and unrecognized tokens, meaning no lower bound.
func Boundary(token string, now time.Time) (time.Time, bool) {
	days := rangeDays(token)
	if days == 0 {
		return time.Time{}, false
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour), true
}

// FilterByRange keeps records whose created_at is valid and at or after the
// token's boundary. "all" returns the input unchanged, invalid dates included.
func FilterByRange(records []record.Normalized, token string, now time.Time) []record.Normalized {
	boundary, ok := Boundary(token, now)
	if !ok {
		return records
	}
	out := make([]record.Normalized, 0, len(records))
	for _, r := range records {
		if r.CreatedOK && !r.CreatedAt.Before(boundary) {
			out = append(out, r)
		}
	}
	return out
}
