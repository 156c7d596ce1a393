package analytics

import (
	"dealdesk/internal/record"
)

// Aggregate holds the per-period KPI figures.
type Aggregate struct {
	TotalDeals     int     `json:"totalDeals"`
	TotalValue     float64 `json:"totalValue"`
	ActiveDeals    int     `json:"activeDeals"`
	CompletedDeals int     `json:"completedDeals"`
	DraftDeals     int     `json:"draftDeals"`
	AvgDealValue   float64 `json:"avgDealValue"`
	CompletionRate float64 `json:"completionRate"`
}

// Trends holds percentage change per metric between the current and
// previous periods.
type Trends struct {
	TotalDeals     float64 `json:"totalDeals"`
	TotalValue     float64 `json:"totalValue"`
	ActiveDeals    float64 `json:"activeDeals"`
	CompletedDeals float64 `json:"completedDeals"`
	AvgDealValue   float64 `json:"avgDealValue"`
	CompletionRate float64 `json:"completionRate"`
}

// Result is the full KPI output: both period aggregates plus trends.
type Result struct {
	Current  Aggregate `json:"current"`
	Previous Aggregate `json:"previous"`
	Trends   Trends    `json:"trends"`
}

// previousToken picks the window length used for the previous-period
// baseline. 7d and 30d reuse themselves; everything else (90d, 1y, all)
// falls back to 90d. This mirrors the dashboard's historical behavior for
// 1y/all rather than matching those windows in length.
func previousToken(token string) string {
	switch token {
	case Range7d, Range30d:
		return token
	default:
		return Range90d
	}
}

// ComputeKPIs aggregates the current period selected by the range token and
// the immediately preceding window, then derives per-metric trends.
func (e *Engine) ComputeKPIs(deals []record.Raw, token string) Result {
	now := e.now()
	records := record.NormalizeAll(deals)

	current := FilterByRange(records, token, now)

	var previous []record.Normalized
	if boundary, ok := Boundary(token, now); ok {
		prevDays := rangeDays(previousToken(token))
		prevStart := boundary.AddDate(0, 0, -prevDays)
		for _, r := range records {
			if !r.CreatedOK {
				continue
			}
			if !r.CreatedAt.Before(prevStart) && r.CreatedAt.Before(boundary) {
				previous = append(previous, r)
			}
		}
	}

	cur := aggregate(current)
	prev := aggregate(previous)
	return Result{
		Current:  cur,
		Previous: prev,
		Trends: Trends{
			TotalDeals:     Trend(float64(cur.TotalDeals), float64(prev.TotalDeals)),
			TotalValue:     Trend(cur.TotalValue, prev.TotalValue),
			ActiveDeals:    Trend(float64(cur.ActiveDeals), float64(prev.ActiveDeals)),
			CompletedDeals: Trend(float64(cur.CompletedDeals), float64(prev.CompletedDeals)),
			AvgDealValue:   Trend(cur.AvgDealValue, prev.AvgDealValue),
			CompletionRate: Trend(cur.CompletionRate, prev.CompletionRate),
		},
	}
}

func aggregate(records []record.Normalized) Aggregate {
	agg := Aggregate{TotalDeals: len(records)}
	for _, r := range records {
		agg.TotalValue += r.FMV
		switch r.Status {
		case "active", "Active":
			agg.ActiveDeals++
		case "completed":
			agg.CompletedDeals++
		case "draft":
			agg.DraftDeals++
		}
	}
	if agg.TotalDeals > 0 {
		agg.AvgDealValue = agg.TotalValue / float64(agg.TotalDeals)
		agg.CompletionRate = float64(agg.CompletedDeals) / float64(agg.TotalDeals) * 100
	}
	return agg
}

// Trend is the percentage change between periods. A zero previous value
// yields 100 when the current value is positive, 0 otherwise, so a metric
// appearing from nothing still signals a change without dividing by zero.
func Trend(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}
