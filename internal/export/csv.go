package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Emitter delivers a finished payload to the user; the HTTP layer and tests
// provide implementations. Serialization itself never performs I/O.
type Emitter interface {
	Emit(content []byte, filename, mimeType string)
}

// Field is one named cell of a report row; rows keep field order.
type Field struct {
	Key   string
	Value any
}

// Row is an ordered set of fields. The first row of a table defines the
// CSV header.
type Row []Field

// ToCSV renders rows as comma-separated text: a header row built from the
// first row's keys, then one line per row. Values containing a comma or a
// double quote are quoted with internal quotes doubled.
func ToCSV(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range rows[0] {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCSV(f.Key))
	}
	for _, row := range rows {
		b.WriteByte('\n')
		for i, f := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSV(stringify(f.Value)))
		}
	}
	return b.String()
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}

// CSVFile serializes rows and hands them to the emitter as a UTF-8 CSV
// download. The filename gets a .csv suffix.
func CSVFile(e Emitter, rows []Row, filename string) {
	if e == nil {
		return
	}
	e.Emit([]byte(ToCSV(rows)), filename+".csv", "text/csv;charset=utf-8")
}

// JSONFile serializes a report as pretty-printed JSON and hands it to the
// emitter with a .json suffix.
func JSONFile(e Emitter, report any, filename string) {
	if e == nil {
		return
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return
	}
	e.Emit(data, filename+".json", "application/json;charset=utf-8")
}
