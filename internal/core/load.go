package core

// load.go turns an uploaded file into a Table.
//
// Both formats are read without a header row. Rows shorter than the table
// width are padded with empty cells so that every Row has Columns entries.
// CSV input must be UTF-8. A leading BOM (0xEF 0xBB 0xBF) written by Windows
// tools is dropped; any other invalid byte sequence rejects the file.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Format identifies a supported upload format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// utf8BOM is the byte order mark some spreadsheet exports prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat returns the format implied by the file extension.
func DetectFormat(fileName string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(fileName))
	}
}

// Load parses r as the format implied by fileName.
func Load(fileName string, r io.Reader) (*Table, error) {
	format, err := DetectFormat(fileName)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	}
	if err != nil {
		return nil, &InputFormatError{Format: string(format), Err: err}
	}

	return newTable(fileName, rows), nil
}

// readCSV reads every record. A record wider than the first one is rejected,
// shorter ones are kept and padded later.
func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("invalid UTF-8 at byte %d", invalidUTF8Offset(data))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	width := len(records[0])
	for i, rec := range records {
		if len(rec) > width {
			return nil, fmt.Errorf("expected %d fields in record %d, saw %d", width, i+1, len(rec))
		}
	}
	return records, nil
}

func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// readXLSX reads the first worksheet of a workbook.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// newTable pads every record to the widest one.
func newTable(fileName string, records [][]string) *Table {
	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		row := make(Row, width)
		copy(row, rec)
		rows[i] = row
	}

	return &Table{
		FileName: fileName,
		Columns:  width,
		Rows:     rows,
	}
}
