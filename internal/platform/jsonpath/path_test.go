package jsonpath

import (
	"encoding/json"
	"testing"
)

func TestGet_WalksObjectsAndArrays(t *testing.T) {
	t.Parallel()

	root := map[string]any{
		"header": map[string]any{
			"competitions": []any{
				map[string]any{"id": json.Number("401")},
			},
		},
	}

	got, ok := Get(root, "header", "competitions", 0, "id").String()
	if !ok || got != "401" {
		t.Fatalf("unexpected id: got=%q ok=%v", got, ok)
	}

	if Get(root, "header", "competitions", 3, "id").Present() {
		t.Fatalf("expected out-of-range index to be absent")
	}
	if Get(root, "header", "competitions", "id").Present() {
		t.Fatalf("expected string key on array to be absent")
	}
	if Get(nil, "x").Present() {
		t.Fatalf("expected lookup on nil root to be absent")
	}
}

func TestFirst_SkipsEmptyCandidates(t *testing.T) {
	t.Parallel()

	athlete := map[string]any{"displayName": "", "fullName": "Joe Burrow"}
	got := First(Get(athlete, "displayName"), Get(athlete, "fullName")).StringOr("")
	if got != "Joe Burrow" {
		t.Fatalf("unexpected name: %q", got)
	}
	if First(Get(athlete, "missing")).Present() {
		t.Fatalf("expected absent result when every candidate is empty")
	}
}

func TestValue_IntAndBool(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw    any
		want   int64
		wantOK bool
	}{
		{raw: json.Number("3"), want: 3, wantOK: true},
		{raw: json.Number("2.9"), want: 2, wantOK: true},
		{raw: "4", want: 4, wantOK: true},
		{raw: "x", want: 0, wantOK: false},
		{raw: nil, want: 0, wantOK: false},
	}
	for _, tc := range cases {
		got, ok := Of(tc.raw).Int()
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("Int(%v): got=%d ok=%v want=%d ok=%v", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}

	if !Of(true).Bool() || Of(false).Bool() || Of(nil).Bool() {
		t.Fatalf("unexpected bool conversion")
	}
}

func TestValue_Maps_DropsNonObjects(t *testing.T) {
	t.Parallel()

	v := Of([]any{map[string]any{"a": 1}, "junk", nil, map[string]any{"b": 2}})
	if got := len(v.Maps()); got != 2 {
		t.Fatalf("expected 2 objects, got %d", got)
	}
}
