package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"
)

// ============================================================================
// Extractor Benchmarks
// ============================================================================

// BenchmarkExtractItem benchmarks the item pattern on typical report text.
func BenchmarkExtractItem(b *testing.B) {
	testCases := []string{
		"[Widget, 42] [Error: disk full (FullSyndicate)]",
		"no brackets at all",
		"[skip] then [Bolt, 3]",
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ExtractItem(tc)
		}
	}
}

// BenchmarkExtractError benchmarks both the bounded and open error forms.
func BenchmarkExtractError(b *testing.B) {
	tests := []struct {
		name string
		text string
	}{
		{"bounded", "[Widget, 42] [Error: disk full (FullSyndicate)]"},
		{"open", "[Widget, 42] [Error: timeout while syncing"},
		{"missing", "[Widget, 42] all good"},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				ExtractError(tt.text)
			}
		})
	}
}

// ============================================================================
// Pipeline Benchmarks
// ============================================================================

// BenchmarkReadCSV benchmarks CSV loading memory usage.
func BenchmarkReadCSV(b *testing.B) {
	data := generateTestCSV(1000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := readCSV(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkProcess benchmarks load, extract and clean end to end.
func BenchmarkProcess(b *testing.B) {
	for _, rows := range []int{100, 10000} {
		data := generateTestCSV(rows)
		b.Run(fmt.Sprintf("rows_%d", rows), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, _, err := Process("report.csv", bytes.NewReader(data)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkExportCSV benchmarks serialization of a cleaned table.
func BenchmarkExportCSV(b *testing.B) {
	entries := make([]Entry, 1000)
	for i := range entries {
		entries[i] = Entry{Item: fmt.Sprintf("Item %d", i), Error: "disk full, retry later"}
	}
	t := CleanedTable{Entries: entries}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ExportCSV(t); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateTestCSV generates report rows; every third row has no error marker.
func generateTestCSV(rows int) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for i := 0; i < rows; i++ {
		text := fmt.Sprintf("[Item-%d, sku-%d] [Error: price missing (FullSyndicate)]", i, i)
		if i%3 == 0 {
			text = fmt.Sprintf("[Item-%d, sku-%d] synced", i, i)
		}
		w.Write([]string{"2024-01-15", "feed", text, "extra"})
	}
	w.Flush()

	return buf.Bytes()
}
