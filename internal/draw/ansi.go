// Package draw renders the play field to ANSI terminals and provides the
// shape geometry shared by every front end.
package draw

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI control sequences.
const (
	seqClear       = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
	seqAltScreen   = "\033[?1049h"
	seqMainScreen  = "\033[?1049l"
	seqResetAttrib = "\033[0m"
)

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	io.WriteString(w, seqClear)
}

// EnterAltScreen switches to the alternate screen buffer and hides the cursor.
func EnterAltScreen(w io.Writer) {
	io.WriteString(w, seqAltScreen+seqHideCursor+seqClear)
}

// ExitAltScreen restores the main screen buffer and the cursor.
func ExitAltScreen(w io.Writer) {
	io.WriteString(w, seqResetAttrib+seqShowCursor+seqMainScreen)
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}
