package analytics

import (
	"time"

	"dealdesk/internal/record"
)

// MonthBucket is one calendar month of the trailing-12-month series.
type MonthBucket struct {
	Month     string  `json:"month"`
	Deals     int     `json:"deals"`
	Value     float64 `json:"value"`
	Active    int     `json:"active"`
	Completed int     `json:"completed"`
}

// MonthlySeries buckets records into the trailing 12 calendar months ending
// at the current month, oldest first. The series always has 12 buckets;
// months with no records keep all-zero fields. Records with invalid created
// dates are skipped.
func (e *Engine) MonthlySeries(deals []record.Raw) []MonthBucket {
	now := e.now()
	records := record.NormalizeAll(deals)

	buckets := make([]MonthBucket, 0, 12)
	index := make(map[string]int, 12)
	for i := 11; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		key := start.Format("2006-01")
		index[key] = len(buckets)
		buckets = append(buckets, MonthBucket{Month: start.Format("Jan 2006")})
	}

	for _, r := range records {
		if !r.CreatedOK {
			continue
		}
		pos, ok := index[r.CreatedAt.Format("2006-01")]
		if !ok {
			continue
		}
		buckets[pos].Deals++
		buckets[pos].Value += r.FMV
		switch r.Status {
		case "active", "Active":
			buckets[pos].Active++
		case "completed":
			buckets[pos].Completed++
		}
	}
	return buckets
}
