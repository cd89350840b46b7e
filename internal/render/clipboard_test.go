package render

import (
	"errors"
	"testing"
)

func stubClipboard(t *testing.T, fn func(string) error) {
	t.Helper()
	prev := writeClipboard
	writeClipboard = fn
	t.Cleanup(func() { writeClipboard = prev })
}

func TestCopyText(t *testing.T) {
	var got string
	stubClipboard(t, func(s string) error { got = s; return nil })
	if err := copyText("report"); err != nil {
		t.Fatalf("copyText: %v", err)
	}
	if got != "report" {
		t.Fatalf("clipboard got %q", got)
	}
	if err := copyText(""); err != nil || got != " " {
		t.Fatalf("empty text should become a space, got %q err=%v", got, err)
	}
}

func TestCopyText_WrapsError(t *testing.T) {
	boom := errors.New("no display")
	stubClipboard(t, func(string) error { return boom })
	if err := copyText("x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
