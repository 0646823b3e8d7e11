package coerce

import (
	"reflect"
	"testing"
)

func TestCoercePrecedence(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", nil},
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"3.14", 3.14},
		{"true", true},
		{"FALSE", false},
		{"[1, 2, 3]", []any{int64(1), int64(2), int64(3)}},
		{"plain text", "plain text"},
	}
	for _, tt := range tests {
		got := Coerce(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Coerce(%q) = %#v (%T), want %#v (%T)", tt.in, got, got, tt.want, tt.want)
		}
	}
}

func TestCoerceIsIdempotentOnNonLiteralStrings(t *testing.T) {
	for _, s := range []string{"Generator 1", "North Zone", "50MW"} {
		got := Coerce(s)
		if got != s {
			t.Errorf("Coerce(%q) = %#v, want unchanged string", s, got)
		}
	}
}

func TestParseLiteralList(t *testing.T) {
	v, ok := parseLiteral("[1, 'a', True, None]")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := []any{int64(1), "a", true, nil}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("parseLiteral = %#v, want %#v", v, want)
	}
}

func TestParseLiteralDict(t *testing.T) {
	v, ok := parseLiteral("{'a': 1, 'b': 2.5}")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := map[string]any{"a": int64(1), "b": 2.5}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("parseLiteral = %#v, want %#v", v, want)
	}
}

func TestParseLiteralTuple(t *testing.T) {
	v, ok := parseLiteral("(1, 2)")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := []any{int64(1), int64(2)}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("parseLiteral = %#v, want %#v", v, want)
	}
}

func TestParseLiteralRejectsGarbage(t *testing.T) {
	for _, s := range []string{"[1, 2", "not a literal", "{1: }"} {
		if _, ok := parseLiteral(s); ok {
			t.Errorf("parseLiteral(%q) unexpectedly succeeded", s)
		}
	}
}

func TestNoSpaceCollate(t *testing.T) {
	if NoSpaceCollate("Max Capacity", "MaxCapacity") != 0 {
		t.Error("expected whitespace-insensitive equality")
	}
	if NoSpaceCollate("Max Capacity", "Min Capacity") == 0 {
		t.Error("expected distinct values to compare unequal")
	}
}
