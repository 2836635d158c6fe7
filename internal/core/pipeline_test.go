package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableOf(rows ...Row) *Table {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = r
	}
	return newTable("test.csv", records)
}

func TestRun_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want []Entry
	}{
		{
			name: "bounded error",
			row:  Row{"a", "b", "[Widget, extra] [Error: disk full (FullSyndicate:123)"},
			want: []Entry{{Item: "Widget", Error: "disk full"}},
		},
		{
			name: "unbounded error",
			row:  Row{"a", "b", "[Widget, extra] [Error: disk full"},
			want: []Entry{{Item: "Widget", Error: "disk full"}},
		},
		{
			name: "no brackets dropped",
			row:  Row{"a", "b", "no brackets here"},
			want: []Entry{},
		},
		{
			name: "item without error dropped",
			row:  Row{"a", "b", "[Widget, extra] ok"},
			want: []Entry{},
		},
		{
			name: "blank item dropped",
			row:  Row{"a", "b", "[   , x] [Error: boom"},
			want: []Entry{},
		},
		{
			name: "blank error dropped",
			row:  Row{"a", "b", "[Widget, x] [Error:   (FullSyndicate:1)"},
			want: []Entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, err := RunTable(tableOf(tt.row))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cleaned.Entries)
		})
	}
}

func TestRun_TooFewColumns(t *testing.T) {
	_, err := RunTable(tableOf(Row{"a", "[Widget, x] [Error: y"}))
	require.Error(t, err)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Columns)
	assert.Equal(t, "The uploaded file doesn't have enough columns.", err.Error())
}

func TestRun_EmptyTableRejected(t *testing.T) {
	_, err := RunTable(&Table{})
	assert.True(t, IsSchemaError(err))
}

func TestRun_PreservesOrder(t *testing.T) {
	table := tableOf(
		Row{"1", "", "[A, x] [Error: one"},
		Row{"2", "", "nothing"},
		Row{"3", "", "[B, x] [Error: two (FullSyndicate)"},
		Row{"4", "", "[C, x]"},
		Row{"5", "", "[D, x] [Error: three"},
	)

	cleaned, err := RunTable(table)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Item: "A", Error: "one"},
		{Item: "B", Error: "two"},
		{Item: "D", Error: "three"},
	}, cleaned.Entries)
}

func TestExtract_RecordsLineAndMisses(t *testing.T) {
	table := tableOf(
		Row{"", "", "[A, x] [Error: one"},
		Row{"", "", "plain"},
	)

	ex, err := Extract(table)
	require.NoError(t, err)
	require.Len(t, ex, 2)

	assert.Equal(t, Extraction{Line: 1, Item: "A", Error: "one", HasItem: true, HasError: true}, ex[0])
	assert.Equal(t, Extraction{Line: 2}, ex[1])
}

func TestExtract_ShortRowIsSchemaError(t *testing.T) {
	table := &Table{Columns: 3, Rows: []Row{{"a", "b"}}}

	_, err := Extract(table)
	assert.True(t, IsSchemaError(err))
}

func TestCleanedTable_CleanIsIdempotent(t *testing.T) {
	cleaned, err := RunTable(tableOf(
		Row{"", "", "[A, x] [Error: one"},
		Row{"", "", "[B, x]"},
		Row{"", "", "[C, x] [Error: two"},
	))
	require.NoError(t, err)

	once := cleaned.Clean()
	twice := once.Clean()
	assert.Equal(t, cleaned, once)
	assert.Equal(t, once, twice)
}

func TestCleanedTable_CleanDropsBlankEntries(t *testing.T) {
	table := CleanedTable{Entries: []Entry{
		{Item: "A", Error: "one"},
		{Item: " ", Error: "two"},
		{Item: "B", Error: ""},
	}}

	assert.Equal(t, []Entry{{Item: "A", Error: "one"}}, table.Clean().Entries)
}

func TestProcess_CSV(t *testing.T) {
	input := "a,b,\"[Widget, extra] [Error: disk full (FullSyndicate:123)\"\n" +
		"c,d,no brackets here\n" +
		"e,f,\"[Bolt, 2] [Error: jammed\"\n"

	table, cleaned, err := Process("report.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Item", "Error"}, cleaned.Columns())
	assert.Equal(t, []Entry{
		{Item: "Widget", Error: "disk full"},
		{Item: "Bolt", Error: "jammed"},
	}, cleaned.Entries)
}

func TestProcess_TwoColumnCSV(t *testing.T) {
	_, _, err := Process("report.csv", strings.NewReader("a,b\nc,d\n"))
	assert.True(t, IsSchemaError(err))
}

func TestProcess_UnsupportedFormat(t *testing.T) {
	_, _, err := Process("report.txt", strings.NewReader("a,b,c\n"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
