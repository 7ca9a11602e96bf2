package uuid

import (
	"strings"
	"testing"
	"time"
)

func TestNew_IsVersion7(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("New() returned invalid uuid %q", id)
	}
	// xxxxxxxx-xxxx-7xxx-...
	if id[14] != '7' {
		t.Errorf("expected version nibble 7, got %q in %s", id[14], id)
	}
}

func TestParse_Canonicalises(t *testing.T) {
	id := New()
	got, err := Parse(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != id {
		t.Errorf("Parse = %q, want %q", got, id)
	}
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestNew_SortsByCreation(t *testing.T) {
	first := New()
	time.Sleep(2 * time.Millisecond)
	second := New()
	if first >= second {
		t.Errorf("expected %s < %s", first, second)
	}
}

func TestIsValid(t *testing.T) {
	if IsValid("") || IsValid("1234") {
		t.Error("expected invalid")
	}
}
