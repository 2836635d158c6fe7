package core

import (
	"io"
)

// Extract applies both extractors to the source column of every row.
// The table must have passed Validate; a short row is reported as a
// SchemaError instead of panicking.
func Extract(t *Table) ([]Extraction, error) {
	out := make([]Extraction, 0, len(t.Rows))
	for i, row := range t.Rows {
		text, err := row.Field(SourceColumn)
		if err != nil {
			return nil, err
		}

		ex := Extraction{Line: i + 1}
		ex.Item, ex.HasItem = ExtractItem(text)
		ex.Error, ex.HasError = ExtractError(text)
		out = append(out, ex)
	}
	return out, nil
}

// Clean keeps the complete extractions, in input order. Incomplete rows are
// dropped without being reported.
func Clean(extractions []Extraction) CleanedTable {
	entries := make([]Entry, 0, len(extractions))
	for _, ex := range extractions {
		if !ex.Complete() {
			continue
		}
		entries = append(entries, Entry{Item: ex.Item, Error: ex.Error})
	}
	return CleanedTable{Entries: entries}
}

// RunTable validates, extracts and cleans an already loaded table.
func RunTable(t *Table) (CleanedTable, error) {
	if err := t.Validate(); err != nil {
		return CleanedTable{}, err
	}

	extractions, err := Extract(t)
	if err != nil {
		return CleanedTable{}, err
	}

	return Clean(extractions), nil
}

// Process loads a file and runs the full pipeline on it. Either the whole
// cleaned table is returned or an error; there is no partial output.
func Process(fileName string, r io.Reader) (*Table, CleanedTable, error) {
	t, err := Load(fileName, r)
	if err != nil {
		return nil, CleanedTable{}, err
	}

	cleaned, err := RunTable(t)
	if err != nil {
		return t, CleanedTable{}, err
	}
	return t, cleaned, nil
}
