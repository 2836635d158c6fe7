package core

import (
	"strings"
	"time"
)

// SourceColumn is the zero-based index of the column the extractors read.
const SourceColumn = 2

// Row is one record of an uploaded file: an ordered sequence of text cells.
type Row []string

// Field returns the cell at index i. Asking for a column the row does not
// have is a schema problem, not a programming error.
func (r Row) Field(i int) (string, error) {
	if i < 0 || i >= len(r) {
		return "", &SchemaError{Columns: len(r)}
	}
	return r[i], nil
}

// Table is a parsed upload. Every row is padded to Columns cells.
type Table struct {
	FileName string
	Columns  int
	Rows     []Row
}

// Validate checks that the table carries the source column.
func (t *Table) Validate() error {
	if t.Columns <= SourceColumn {
		return &SchemaError{Columns: t.Columns}
	}
	return nil
}

// Extraction is the outcome of both extractors for a single row.
// HasItem/HasError are false when the pattern did not match.
type Extraction struct {
	Line     int // 1-based position in the source file
	Item     string
	Error    string
	HasItem  bool
	HasError bool
}

// Complete reports whether both values matched and neither is blank.
func (e Extraction) Complete() bool {
	return e.HasItem && e.HasError &&
		strings.TrimSpace(e.Item) != "" && strings.TrimSpace(e.Error) != ""
}

// Entry is one row of the cleaned output.
type Entry struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

// CleanedTable is the final output: only rows with both an Item and an Error.
type CleanedTable struct {
	Entries []Entry
}

// Columns returns the display labels of the output columns.
func (t CleanedTable) Columns() []string {
	return []string{ColumnItem, ColumnError}
}

// Len returns the number of rows.
func (t CleanedTable) Len() int {
	return len(t.Entries)
}

// Clean drops entries with a blank Item or Error. Applying it to an already
// cleaned table returns an identical table.
func (t CleanedTable) Clean() CleanedTable {
	kept := make([]Entry, 0, len(t.Entries))
	for _, e := range t.Entries {
		if strings.TrimSpace(e.Item) == "" || strings.TrimSpace(e.Error) == "" {
			continue
		}
		kept = append(kept, e)
	}
	return CleanedTable{Entries: kept}
}

// Output column labels.
const (
	ColumnItem  = "Item"
	ColumnError = "Error"
)

// Result contains the outcome of a processing run.
type Result struct {
	ID        string
	FileName  string
	TotalRows int
	Dropped   int
	Table     CleanedTable
	Duration  time.Duration
}

// Kept returns the number of rows in the cleaned table.
func (r *Result) Kept() int {
	return r.Table.Len()
}
