package outwriter

import (
	"os"

	"github.com/huangsam/devpulse/internal/contract"
	"golang.org/x/term"
)

// getMaxTableTextWidth returns the width left for the free-text column of a table
// with the given fixed columns, based on the terminal width.
func getMaxTableTextWidth(cfg *contract.Config, fixedWidth int) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Borders, separators and padding
	available := termWidth - fixedWidth - 20
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
