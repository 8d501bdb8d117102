package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	a := New()
	b := New()

	if !IsValid(a) || !IsValid(b) {
		t.Fatalf("expected valid UUIDs, got %q and %q", a, b)
	}
	if a == b {
		t.Fatal("expected distinct ids")
	}
	if a[14] != '7' {
		t.Errorf("expected version 7, got %q", a)
	}
	if a > b {
		t.Errorf("expected time-ordered ids, got %s > %s", a, b)
	}
}

func TestParse(t *testing.T) {
	upper := strings.ToUpper(New())
	got, err := Parse(upper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != strings.ToLower(upper) {
		t.Errorf("expected canonical form, got %s", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid input")
	}
}
