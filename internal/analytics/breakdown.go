package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"dealdesk/internal/record"
)

// TypeBreakdown is one fixed deal-type category with its count and value.
type TypeBreakdown struct {
	Type  string  `json:"type"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// CompensationBucket is one fixed band of the FMV histogram.
type CompensationBucket struct {
	Range    string  `json:"range"`
	Count    int     `json:"count"`
	Value    float64 `json:"value"`
	AvgValue float64 `json:"avgValue"`
	Color    string  `json:"color"`
}

// OutcomeRow is one slice of a prediction-outcome pie.
type OutcomeRow struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// Outcomes groups prediction classifications per analysis family.
type Outcomes struct {
	Clearinghouse []OutcomeRow `json:"clearinghouse"`
	Valuation     []OutcomeRow `json:"valuation"`
}

// Accuracy is the percentage of predictions confirmed by outcomes.
type Accuracy struct {
	Clearinghouse float64 `json:"clearinghouse"`
	Valuation     float64 `json:"valuation"`
}

var dealTypes = []struct {
	key   string
	color string
}{
	{"simple", "#3182CE"},
	{"clearinghouse", "#38A169"},
	{"valuation", "#D69E2E"},
}

// DealTypeBreakdown counts and sums the range-filtered records per deal
// type. Unknown or missing types land in the simple category.
func (e *Engine) DealTypeBreakdown(deals []record.Raw, token string) []TypeBreakdown {
	records := FilterByRange(record.NormalizeAll(deals), token, e.now())

	counts := map[string]*TypeBreakdown{}
	out := make([]TypeBreakdown, len(dealTypes))
	for i, dt := range dealTypes {
		out[i] = TypeBreakdown{Type: capitalize(dt.key), Color: dt.color}
		counts[dt.key] = &out[i]
	}
	for _, r := range records {
		row, ok := counts[r.Type()]
		if !ok {
			row = counts["simple"]
		}
		row.Count++
		row.Value += r.FMV
	}
	return out
}

type compensationBand struct {
	label string
	min   float64 // exclusive
	max   float64 // inclusive; <=0 means unbounded
}

var compensationBands = []compensationBand{
	{"$0 - $1,000", 0, 1000},
	{"$1,001 - $5,000", 1000, 5000},
	{"$5,001 - $10,000", 5000, 10000},
	{"$10,001 - $25,000", 10000, 25000},
	{"$25,001 - $50,000", 25000, 50000},
	{"$50,001 - $100,000", 50000, 100000},
	{"$100,001+", 100000, 0},
}

// CompensationRanges builds the seven-band FMV histogram over the
// range-filtered records. Records with fmv <= 0 contribute to no band.
func (e *Engine) CompensationRanges(deals []record.Raw, token string) []CompensationBucket {
	records := FilterByRange(record.NormalizeAll(deals), token, e.now())

	out := make([]CompensationBucket, len(compensationBands))
	for i, band := range compensationBands {
		out[i] = CompensationBucket{
			Range: band.label,
			Color: fmt.Sprintf("hsl(%d, 70%%, 50%%)", 200+i*30),
		}
	}
	for _, r := range records {
		if r.FMV <= 0 {
			continue
		}
		for i, band := range compensationBands {
			if r.FMV > band.min && (band.max <= 0 || r.FMV <= band.max) {
				out[i].Count++
				out[i].Value += r.FMV
				break
			}
		}
	}
	for i := range out {
		if out[i].Count > 0 {
			out[i].AvgValue = out[i].Value / float64(out[i].Count)
		}
	}
	return out
}

// PredictionOutcomes classifies prediction text per family by substring.
// Clearinghouse predictions that match none of the known outcomes count as
// pending; valuation predictions outside high/medium/low are ignored.
func (e *Engine) PredictionOutcomes(deals []record.Raw, token string) Outcomes {
	records := FilterByRange(record.NormalizeAll(deals), token, e.now())

	ch := map[string]int{}
	val := map[string]int{}
	for _, r := range records {
		switch r.Type() {
		case "clearinghouse":
			if strings.TrimSpace(r.ClearinghousePrediction) != "" {
				ch[classifyClearinghouse(r.ClearinghousePrediction)]++
			}
		case "valuation":
			if key, ok := classifyValuation(r.ValuationPrediction); ok {
				val[key]++
			}
		}
	}

	return Outcomes{
		Clearinghouse: outcomeRows(ch, []string{"approved", "denied", "flagged", "pending"},
			map[string]string{"approved": "#38A169", "denied": "#E53E3E", "flagged": "#DD6B20", "pending": "#718096"}),
		Valuation: outcomeRows(val, []string{"high", "medium", "low"},
			map[string]string{"high": "#38A169", "medium": "#D69E2E", "low": "#E53E3E"}),
	}
}

func outcomeRows(counts map[string]int, order []string, colors map[string]string) []OutcomeRow {
	rows := make([]OutcomeRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, OutcomeRow{Key: key, Count: counts[key], Color: colors[key]})
	}
	return rows
}

func classifyClearinghouse(prediction string) string {
	p := strings.ToLower(prediction)
	switch {
	case strings.Contains(p, "approved"):
		return "approved"
	case strings.Contains(p, "denied"):
		return "denied"
	case strings.Contains(p, "flagged"):
		return "flagged"
	default:
		return "pending"
	}
}

func classifyValuation(prediction string) (string, bool) {
	p := strings.ToLower(prediction)
	switch {
	case strings.Contains(p, "high"):
		return "high", true
	case strings.Contains(p, "medium"):
		return "medium", true
	case strings.Contains(p, "low"):
		return "low", true
	default:
		return "", false
	}
}

// PredictionAccuracy scores predictions against recorded outcomes. A
// clearinghouse prediction is correct when the result matches it exactly; a
// valuation prediction is correct when the actual compensation falls inside
// the predicted range. Malformed valuation ranges are logged and skipped,
// counting neither way.
func (e *Engine) PredictionAccuracy(deals []record.Raw, token string) Accuracy {
	records := FilterByRange(record.NormalizeAll(deals), token, e.now())

	var chTotal, chCorrect, valTotal, valCorrect int
	for _, r := range records {
		if r.Type() == "clearinghouse" && strings.TrimSpace(r.ClearinghousePrediction) != "" {
			chTotal++
			if r.ClearinghouseResult != "" && r.ClearinghouseResult == r.ClearinghousePrediction {
				chCorrect++
			}
		}
		if r.Type() == "valuation" && strings.TrimSpace(r.ValuationRange) != "" {
			min, max, ok := ParseValuationRange(r.ValuationRange)
			if !ok {
				e.warn("skipping malformed valuation range",
					zap.String("deal_id", r.ID),
					zap.String("valuation_range", r.ValuationRange),
				)
				continue
			}
			valTotal++
			if r.ActualCompensation >= min && r.ActualCompensation <= max {
				valCorrect++
			}
		}
	}

	return Accuracy{
		Clearinghouse: ratioPct(chCorrect, chTotal),
		Valuation:     ratioPct(valCorrect, valTotal),
	}
}

// ParseValuationRange parses the "min-max" range format attached to
// valuation deals.
func ParseValuationRange(s string) (min, max float64, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	max, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return min, max, true
}

func ratioPct(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
