// Package cli holds the terminal output helpers of the newtask CLI: color,
// dot leaders and aligned tables.
package cli

import (
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

// colorEnabled starts off when NO_COLOR is set (no-color.org); the CLI
// refines it with ColorFor once it knows where output goes.
var colorEnabled = os.Getenv("NO_COLOR") == ""

// SetColor turns ANSI styling on or off and returns the previous setting.
func SetColor(on bool) bool {
	prev := colorEnabled
	colorEnabled = on
	return prev
}

// ColorFor reports whether output to f should be styled: f is a terminal
// and NO_COLOR is unset. Playbooks piped with -o - stay plain.
func ColorFor(f *os.File) bool {
	return os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(f.Fd()))
}

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

// Green marks success ("ok", "Wrote").
func Green(s string) string { return paint(ansiGreen, s) }

// Yellow marks dry runs and warnings.
func Yellow(s string) string { return paint(ansiYellow, s) }

// Red marks failures.
func Red(s string) string { return paint(ansiRed, s) }

// Bold highlights module keys in headers.
func Bold(s string) string { return paint(ansiBold, s) }

// Dim de-emphasizes secondary detail. Keep it out of Table cells: tabwriter
// counts the escape bytes.
func Dim(s string) string { return paint(ansiDim, s) }

// DotPad pads name with a dot leader to width, for task listings:
// DotPad("nxos_vlans", 20) → "nxos_vlans .........".
func DotPad(name string, width int) string {
	if width <= 0 || len(name) >= width-1 {
		return name
	}
	return name + " " + strings.Repeat(".", width-len(name)-1)
}
