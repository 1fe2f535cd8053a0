package tracker

import (
	"encoding/json"
	"testing"
)

func TestCollection(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
		limit int
		want  int
	}{
		{name: "bare array truncated", raw: `[1,2,3,4,5,6]`, field: "matches", limit: 5, want: 5},
		{name: "bare array shorter than limit", raw: `[1,2]`, field: "matches", limit: 5, want: 2},
		{name: "bare array no limit", raw: `[1,2,3]`, field: "matches", limit: 0, want: 3},
		{name: "object field not truncated", raw: `{"matches":[1,2,3,4,5,6]}`, field: "matches", limit: 5, want: 6},
		{name: "object missing field", raw: `{"other":[1]}`, field: "matches", limit: 5, want: 0},
		{name: "object null field", raw: `{"matches":null}`, field: "matches", limit: 5, want: 0},
		{name: "object field not an array", raw: `{"matches":{"a":1}}`, field: "matches", limit: 5, want: 0},
		{name: "scalar", raw: `42`, field: "matches", limit: 5, want: 0},
		{name: "empty", raw: ``, field: "matches", limit: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collection(json.RawMessage(tt.raw), tt.field, tt.limit)
			if len(got) != tt.want {
				t.Errorf("Collection() returned %d items, want %d", len(got), tt.want)
			}
		})
	}
}

func TestCollection_KeepsOrder(t *testing.T) {
	got := Collection(json.RawMessage(`["m1","m2","m3","m4","m5","m6"]`), "matches", 5)

	want := []string{`"m1"`, `"m2"`, `"m3"`, `"m4"`, `"m5"`}
	for i := range want {
		if string(got[i]) != want[i] {
			t.Errorf("item %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFirst(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		fields []string
		want   string
		wantOK bool
	}{
		{name: "bare array", raw: `[{"id":1},{"id":2}]`, fields: []string{"results"}, want: `{"id":1}`, wantOK: true},
		{name: "empty bare array", raw: `[]`, fields: []string{"results"}, wantOK: false},
		{name: "results field", raw: `{"results":[{"id":3}]}`, fields: []string{"results"}, want: `{"id":3}`, wantOK: true},
		{name: "empty results field", raw: `{"results":[]}`, fields: []string{"results"}, wantOK: false},
		{name: "legacy matches field", raw: `{"matches":[{"id":4}]}`, fields: []string{"results", "matches"}, want: `{"id":4}`, wantOK: true},
		{name: "empty results falls through", raw: `{"results":[],"matches":[{"id":5}]}`, fields: []string{"results", "matches"}, want: `{"id":5}`, wantOK: true},
		{name: "no known field", raw: `{"items":[{"id":6}]}`, fields: []string{"results"}, wantOK: false},
		{name: "null", raw: `null`, fields: []string{"results"}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := First(json.RawMessage(tt.raw), tt.fields...)
			if ok != tt.wantOK {
				t.Fatalf("First() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && string(got) != tt.want {
				t.Errorf("First() = %s, want %s", got, tt.want)
			}
		})
	}
}
