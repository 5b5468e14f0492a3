package id

import (
	"strings"
	"testing"
)

func TestPrefixedGenerator_NewID(t *testing.T) {
	gen := NewPrefixedGenerator("ply")

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	if !strings.HasPrefix(first, "ply_") || len(first) != len("ply_")+24 {
		t.Fatalf("unexpected id format: %q", first)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}

func TestPrefixedGenerator_EmptyPrefix(t *testing.T) {
	got, err := NewPrefixedGenerator(" ").NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(got) != 24 || strings.Contains(got, "_") {
		t.Fatalf("unexpected id format: %q", got)
	}
}
