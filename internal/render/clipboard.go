package render

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

func copyText(s string) error {
	if s == "" {
		s = " "
	}
	if err := writeClipboard(s); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
