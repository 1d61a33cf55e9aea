// Package ui provides colored status-line output: a [OK]/[WARN]/[FAIL]
// tagged line per significant event. It uses github.com/fatih/color for
// terminal status text, the same library mutagen-io-mutagen's
// cmd/mutagen/monitor.go uses for session-status coloring.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	ok   = color.New(color.FgGreen, color.Bold)
	warn = color.New(color.FgYellow, color.Bold)
	fail = color.New(color.FgRed, color.Bold)
)

// OK prints a green "[OK]"-tagged line to stdout.
func OK(format string, a ...interface{}) {
	ok.Print("[OK] ")
	fmt.Printf(format+"\n", a...)
}

// Warn prints a yellow "[WARN]"-tagged line to stderr.
func Warn(format string, a ...interface{}) {
	warn.Fprint(os.Stderr, "[WARN] ")
	fmt.Fprintf(os.Stderr, format+"\n", a...)
}

// Fail prints a red "[FAIL]"-tagged line to stderr.
func Fail(format string, a ...interface{}) {
	fail.Fprint(os.Stderr, "[FAIL] ")
	fmt.Fprintf(os.Stderr, format+"\n", a...)
}

// ClearScreen writes the ANSI sequence to clear the terminal and move the
// cursor home, for the CLI's "clear console before each run" flag.
func ClearScreen() {
	fmt.Print("\033[H\033[2J")
}
