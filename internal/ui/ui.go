// Package ui formats human-facing terminal output. Colors are used only
// when stdout is a terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

var (
	isTerminal   = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	colorEnabled = true

	out io.Writer = os.Stdout
)

// SetOutput redirects all ui output. Passing anything other than os.Stdout
// also disables colors.
func SetOutput(w io.Writer) {
	out = w
	if w != io.Writer(os.Stdout) {
		DisableColors()
	}
}

// Output returns the writer ui prints to.
func Output() io.Writer { return out }

// DisableColors disables all color output
func DisableColors() {
	colorEnabled = false
	initStyles()
}

// EnableColors enables color output when stdout is a terminal
func EnableColors() {
	colorEnabled = true
	isTerminal = isatty.IsTerminal(os.Stdout.Fd())
	initStyles()
}

// IsTerminal checks if stdout is a terminal and colors are on
func IsTerminal() bool {
	return isTerminal && colorEnabled
}

// Section prints a section header
func Section(title string) {
	fmt.Fprintln(out)
	if IsTerminal() {
		fmt.Fprintln(out, headerStyle.Render("━━━ "+strings.ToUpper(title)+" ━━━"))
		return
	}
	fmt.Fprintln(out, strings.ToUpper(title))
	fmt.Fprintln(out, strings.Repeat("=", len(title)))
}

// FormatBytes formats bytes to human-readable format using go-humanize
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatDuration formats duration to human-readable format
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
