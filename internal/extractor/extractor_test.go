package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestPlainText_ExtractText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "march.txt", "03/12 COFFEE 4.50\nline two\f03/13 GROCERY 45.67\n\f  \n")

	pages, err := PlainText{}.ExtractText(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"03/12 COFFEE 4.50\nline two", "03/13 GROCERY 45.67\n"}
	if !reflect.DeepEqual(pages, want) {
		t.Errorf("got %q, want %q", pages, want)
	}
}

func TestPlainText_MissingFile(t *testing.T) {
	if _, err := (PlainText{}).ExtractText(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSplitPages(t *testing.T) {
	got := SplitPages("a\n---PAGE_BREAK---\nb\n---PAGE_BREAK---\n", "\n---PAGE_BREAK---\n")
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRegistry_Supports(t *testing.T) {
	r := NewRegistry(false)
	tests := []struct {
		path     string
		expected bool
	}{
		{"a/statement.pdf", true},
		{"a/STATEMENT.PDF", true},
		{"a/statement.txt", true},
		{"a/statement.csv", false},
		{"a/statement", false},
	}
	for _, tt := range tests {
		if got := r.Supports(tt.path); got != tt.expected {
			t.Errorf("Supports(%q): got %v, want %v", tt.path, got, tt.expected)
		}
	}
}

func TestRegistry_Restrict(t *testing.T) {
	r := NewRegistry(false).Restrict([]string{"PDF", " .csv"})
	if got := r.Extensions(); !reflect.DeepEqual(got, []string{".pdf"}) {
		t.Errorf("got %v, want [.pdf]", got)
	}
	if r.Supports("a.txt") {
		t.Error("restricted registry should not support .txt")
	}
}

func TestRegistry_ExtractTextUnsupported(t *testing.T) {
	_, err := NewRegistry(false).ExtractText("statement.xlsx")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("got %v, want ErrUnsupported", err)
	}
}

func TestRegistry_ExtractTextDispatch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "feb.TXT", "02/01 BOOKSTORE 19.99")
	pages, err := NewRegistry(false).ExtractText(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 || pages[0] != "02/01 BOOKSTORE 19.99" {
		t.Errorf("got %q", pages)
	}
}

func TestPDF_CorruptDocument(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.pdf", "this is not a pdf")
	_, err := (&PDF{}).ExtractText(path)
	if !errors.Is(err, ErrNoText) {
		t.Errorf("got %v, want ErrNoText", err)
	}
}

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name     string
		pages    []string
		expected bool
	}{
		{
			name:     "statement text",
			pages:    []string{"Statement Period 02/15/2024 - 03/14/2024\n02/16 PAYMENT THANK YOU 500.00"},
			expected: true,
		},
		{
			name:     "too short",
			pages:    []string{"Balance 4.50"},
			expected: false,
		},
		{
			name:     "no statement words",
			pages:    []string{"lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod"},
			expected: false,
		},
		{
			name:     "decoded garbage",
			pages:    []string{"ÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔÕÖ×ØÙÚÛÜÝÞßàáâãäåæçèéêëìíîïðñòóôõö balance"},
			expected: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReadableText(tt.pages); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTextQuality(t *testing.T) {
	if q := textQuality(nil); q != 0 {
		t.Errorf("empty: got %f, want 0", q)
	}
	if q := textQuality([]string{"abc 123 $4.50"}); q != 1 {
		t.Errorf("ascii: got %f, want 1", q)
	}
}
