package routine

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// nestedAliases builds a step whose extra field holds levels of anchors,
// each listing the previous one fanout times.
func nestedAliases(levels, fanout int) string {
	var b strings.Builder
	b.WriteString("- name: Boom\n  length: 1\n  extra:\n")
	fmt.Fprintf(&b, "    l0: &l0 [%s]\n", strings.TrimSuffix(strings.Repeat("lol, ", fanout), ", "))
	for i := 1; i < levels; i++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*l%d, ", i-1), fanout), ", ")
		fmt.Fprintf(&b, "    l%d: &l%d [%s]\n", i, i, refs)
	}
	return b.String()
}

// TestParseDocumentExcessiveAliasing rejects a small file whose aliases
// expand exponentially.
func TestParseDocumentExcessiveAliasing(t *testing.T) {
	doc, err := ParseDocument([]byte(nestedAliases(8, 10)))
	if !errors.Is(err, errExcessiveAliasing) {
		t.Fatalf("ParseDocument error = %v, want %v", err, errExcessiveAliasing)
	}
	if doc != nil {
		t.Error("expected no document")
	}
}

// TestParseDocumentSelfReference rejects an anchor that contains itself.
func TestParseDocumentSelfReference(t *testing.T) {
	_, err := ParseDocument([]byte("- &a {name: Loop, length: 1, again: *a}\n"))
	if err == nil {
		t.Fatal("expected an error for a self-referencing anchor")
	}
}

// TestParseDocumentModestAliasing accepts a routine that reuses one anchored
// step many times.
func TestParseDocumentModestAliasing(t *testing.T) {
	var b strings.Builder
	b.WriteString("- &rest {name: Rest, length: 10, cues: [")
	b.WriteString(strings.TrimSuffix(strings.Repeat("breathe, ", 30), ", "))
	b.WriteString("]}\n")
	for i := 0; i < 200; i++ {
		b.WriteString("- *rest\n")
	}

	r, _, err := Validate(mustParse(t, b.String()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Exercises) != 201 || r.TotalDuration() != 2010 {
		t.Errorf("got %d steps totalling %d, want 201 totalling 2010", len(r.Exercises), r.TotalDuration())
	}
}

// TestParseDocumentSmallNestedAliases keeps shallow anchor nesting, which
// stays within the expansion limit.
func TestParseDocumentSmallNestedAliases(t *testing.T) {
	if _, err := ParseDocument([]byte(nestedAliases(3, 10))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
