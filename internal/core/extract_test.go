package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractItem(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "bracketed segment with comma",
			input:  "[Widget, extra] [Error: disk full (FullSyndicate:123)",
			want:   "Widget",
			wantOK: true,
		},
		{
			name:   "no brackets",
			input:  "no brackets here",
			wantOK: false,
		},
		{
			name:   "empty input",
			input:  "",
			wantOK: false,
		},
		{
			name:   "bracket without comma",
			input:  "[Widget] done",
			wantOK: false,
		},
		{
			name:   "closing bracket before comma",
			input:  "[Widget] a, b",
			wantOK: false,
		},
		{
			name:   "whitespace inside span is preserved",
			input:  "[  Gadget  , x]",
			want:   "  Gadget  ",
			wantOK: true,
		},
		{
			name:   "first bracket fails so a later one matches",
			input:  "[skip] then [Bolt, 3]",
			want:   "Bolt",
			wantOK: true,
		},
		{
			name:   "first matching bracket wins",
			input:  "[First, x] [Second, y]",
			want:   "First",
			wantOK: true,
		},
		{
			name:   "nested bracket is a literal character",
			input:  "[[Inner, x]]",
			want:   "[Inner",
			wantOK: true,
		},
		{
			name:   "empty span does not match",
			input:  "[, x]",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractItem(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractItem_ReturnsSegmentUnmodified(t *testing.T) {
	for _, x := range []string{"A", "Widget 9000", " padded ", "x.y-z", "Ünïcode"} {
		got, ok := ExtractItem("prefix [" + x + ", rest")
		assert.True(t, ok, x)
		assert.Equal(t, x, got)
	}
}

func TestExtractError(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "bounded by FullSyndicate",
			input:  "[Widget, extra] [Error: disk full (FullSyndicate:123)",
			want:   "disk full",
			wantOK: true,
		},
		{
			name:   "no closing marker falls back to end of string",
			input:  "[Widget, extra] [Error: disk full",
			want:   "disk full",
			wantOK: true,
		},
		{
			name:   "trailing whitespace trimmed in fallback",
			input:  "[Error:   timeout waiting   ",
			want:   "timeout waiting",
			wantOK: true,
		},
		{
			name:   "no marker",
			input:  "[Widget, extra] all good",
			wantOK: false,
		},
		{
			name:   "empty input",
			input:  "",
			wantOK: false,
		},
		{
			name:   "first FullSyndicate marker ends the message",
			input:  "[Error: a (FullSyndicate) b (FullSyndicate)",
			want:   "a",
			wantOK: true,
		},
		{
			name:   "empty message still matches",
			input:  "[Error:(FullSyndicate:1)",
			want:   "",
			wantOK: true,
		},
		{
			name:   "marker is case sensitive",
			input:  "[error: lowercase",
			wantOK: false,
		},
		{
			name:   "fallback stops at end of line",
			input:  "[Error: first line\nsecond line",
			want:   "first line",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractError(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
