package main

import (
	"slices"
	"testing"

	"github.com/muse-loyalty/muse-stores/internal/storage"
)

func TestRecordColumns(t *testing.T) {
	if cols := recordColumns(nil); cols != nil {
		t.Errorf("recordColumns(nil) = %v, want nil", cols)
	}

	records := []storage.Record{{"region": "Bahrain", "id": "G05", "n": int64(2)}}
	want := []string{"id", "n", "region"}
	if got := recordColumns(records); !slices.Equal(got, want) {
		t.Errorf("recordColumns() = %v, want %v", got, want)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{nil, ""},
		{"Dubai", "Dubai"},
		{int64(42), "42"},
		{1.5, "1.5"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.v); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
