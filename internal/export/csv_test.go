package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

type fakeEmitter struct {
	content  []byte
	filename string
	mimeType string
	calls    int
}

func (f *fakeEmitter) Emit(content []byte, filename, mimeType string) {
	f.content = content
	f.filename = filename
	f.mimeType = mimeType
	f.calls++
}

func TestToCSV_HeaderFromFirstRow(t *testing.T) {
	rows := []Row{
		{{"Name", "Nike"}, {"FMV", 1500.5}},
		{{"Name", "Adidas"}, {"FMV", 200.0}},
	}
	got := ToCSV(rows)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines=%d want=3", len(lines))
	}
	if lines[0] != "Name,FMV" {
		t.Fatalf("header=%q", lines[0])
	}
	if lines[1] != "Nike,1500.5" {
		t.Fatalf("row=%q", lines[1])
	}
}

func TestToCSV_EscapesCommasAndQuotes(t *testing.T) {
	rows := []Row{
		{{"Partner", `Nike, Inc.`}, {"Note", `said "yes"`}},
	}
	got := ToCSV(rows)
	if !strings.Contains(got, `"Nike, Inc."`) {
		t.Fatalf("comma not quoted: %q", got)
	}
	if !strings.Contains(got, `"said ""yes"""`) {
		t.Fatalf("quotes not doubled: %q", got)
	}
}

func TestToCSV_Empty(t *testing.T) {
	if got := ToCSV(nil); got != "" {
		t.Fatalf("empty rows got %q", got)
	}
}

func TestStringify(t *testing.T) {
	when := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{1500.0, "1500"},
		{1500.25, "1500.25"},
		{when, "2024-06-15"},
		{7, "7"},
	}
	for _, tc := range cases {
		if got := stringify(tc.in); got != tc.want {
			t.Fatalf("stringify(%v)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestCSVFile_FilenameAndMime(t *testing.T) {
	e := &fakeEmitter{}
	CSVFile(e, []Row{{{"A", "1"}}}, "deals_export_30d_2024-06-15")
	if e.calls != 1 {
		t.Fatalf("calls=%d want=1", e.calls)
	}
	if e.filename != "deals_export_30d_2024-06-15.csv" {
		t.Fatalf("filename=%q", e.filename)
	}
	if e.mimeType != "text/csv;charset=utf-8" {
		t.Fatalf("mime=%q", e.mimeType)
	}
}

func TestJSONFile_PrettyPrintedEnvelope(t *testing.T) {
	e := &fakeEmitter{}
	JSONFile(e, map[string]any{"summary": map[string]any{"Total Deals": 3}}, "analytics_report_30d_2024-06-15")
	if e.filename != "analytics_report_30d_2024-06-15.json" {
		t.Fatalf("filename=%q", e.filename)
	}
	if e.mimeType != "application/json;charset=utf-8" {
		t.Fatalf("mime=%q", e.mimeType)
	}
	var decoded map[string]any
	if err := json.Unmarshal(e.content, &decoded); err != nil {
		t.Fatalf("emitted payload not valid JSON: %v", err)
	}
	if !strings.Contains(string(e.content), "\n  ") {
		t.Fatalf("payload not indented: %q", string(e.content))
	}
}

func TestNilEmitterIsSafe(t *testing.T) {
	CSVFile(nil, []Row{{{"A", "1"}}}, "x")
	JSONFile(nil, map[string]any{}, "x")
}
