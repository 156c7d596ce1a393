package record

import (
	"math"
	"testing"
	"time"
)

func TestSafeNumber_Coercions(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{42.5, 42.5},
		{7, 7},
		{int64(9), 9},
		{"1500.25", 1500.25},
		{" 10 ", 10},
		{"not a number", 0},
		{"", 0},
		{true, 1},
		{false, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{[]string{"x"}, 0},
	}
	for _, tc := range cases {
		if got := SafeNumber(tc.in); got != tc.want {
			t.Fatalf("SafeNumber(%v)=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestSafeDate_Formats(t *testing.T) {
	cases := []string{
		"2024-03-15T10:30:00Z",
		"2024-03-15T10:30:00.123Z",
		"2024-03-15T10:30:00",
		"2024-03-15 10:30:00",
		"2024-03-15",
	}
	for _, in := range cases {
		got, ok := SafeDate(in)
		if !ok {
			t.Fatalf("SafeDate(%q) not ok", in)
		}
		if got.Year() != 2024 || got.Month() != time.March || got.Day() != 15 {
			t.Fatalf("SafeDate(%q)=%v want 2024-03-15", in, got)
		}
	}
}

func TestSafeDate_Invalid(t *testing.T) {
	for _, in := range []any{nil, "", "garbage", "2024-13-99", struct{}{}} {
		if _, ok := SafeDate(in); ok {
			t.Fatalf("SafeDate(%v) ok, want invalid", in)
		}
	}
}

func TestSafeDate_EpochMillis(t *testing.T) {
	got, ok := SafeDate(float64(1710499800000))
	if !ok {
		t.Fatalf("epoch millis not ok")
	}
	if got.UTC().Year() != 2024 {
		t.Fatalf("epoch millis year=%d want=2024", got.UTC().Year())
	}
}

func TestNormalize_NeverPanics(t *testing.T) {
	r := Normalize(Raw{
		"id":         12345,
		"fmv":        "oops",
		"created_at": "not a date",
		"status":     nil,
	})
	if r.FMV != 0 {
		t.Fatalf("fmv=%v want=0", r.FMV)
	}
	if r.CreatedOK {
		t.Fatalf("created flagged valid for garbage input")
	}
	if r.ID != "" {
		t.Fatalf("non-string id coerced to %q", r.ID)
	}
}

func TestType_DefaultsToSimple(t *testing.T) {
	if got := (Normalized{}).Type(); got != "simple" {
		t.Fatalf("Type()=%q want=simple", got)
	}
	if got := (Normalized{DealType: "  "}).Type(); got != "simple" {
		t.Fatalf("Type()=%q want=simple for blank", got)
	}
	if got := (Normalized{DealType: "valuation"}).Type(); got != "valuation" {
		t.Fatalf("Type()=%q want=valuation", got)
	}
}

func TestValue_FallsBackToCompensation(t *testing.T) {
	if got := (Normalized{FMV: 5000, Compensation: 100}).Value(); got != 5000 {
		t.Fatalf("Value()=%v want=5000", got)
	}
	if got := (Normalized{Compensation: 2500}).Value(); got != 2500 {
		t.Fatalf("Value()=%v want=2500", got)
	}
}
