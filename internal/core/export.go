package core

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// Export file details offered to the browser.
const (
	ExportFileName    = "processed_data.csv"
	ExportContentType = "text/csv"
)

// WriteCSV writes the cleaned table as comma-separated text with an
// "Item,Error" header and one "\n"-terminated line per entry.
//
// Fields are quoted only when they contain a comma, a double quote, CR or LF;
// embedded quotes are doubled. Leading spaces in an Item are kept unquoted.
func WriteCSV(w io.Writer, t CleanedTable) error {
	bw := bufio.NewWriter(w)

	writeRecord(bw, ColumnItem, ColumnError)
	for _, e := range t.Entries {
		writeRecord(bw, e.Item, e.Error)
	}

	return bw.Flush()
}

// ExportCSV returns the serialized table.
func ExportCSV(t CleanedTable) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRecord(w *bufio.Writer, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		writeField(w, f)
	}
	w.WriteByte('\n')
}

func writeField(w *bufio.Writer, f string) {
	if !strings.ContainsAny(f, ",\"\r\n") {
		w.WriteString(f)
		return
	}
	w.WriteByte('"')
	w.WriteString(strings.ReplaceAll(f, `"`, `""`))
	w.WriteByte('"')
}
