package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	warningStyle lipgloss.Style
	infoStyle    lipgloss.Style
	dimStyle     lipgloss.Style
	pathStyle    lipgloss.Style
	headerStyle  lipgloss.Style
)

func init() {
	initStyles()
}

func initStyles() {
	if !IsTerminal() {
		successStyle = lipgloss.NewStyle()
		errorStyle = lipgloss.NewStyle()
		warningStyle = lipgloss.NewStyle()
		infoStyle = lipgloss.NewStyle()
		dimStyle = lipgloss.NewStyle()
		pathStyle = lipgloss.NewStyle()
		headerStyle = lipgloss.NewStyle()
		return
	}

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Underline(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
}

func Success(text string) string { return successStyle.Render(text) }

func Error(text string) string { return errorStyle.Render(text) }

func Warning(text string) string { return warningStyle.Render(text) }

func Info(text string) string { return infoStyle.Render(text) }

func Dim(text string) string { return dimStyle.Render(text) }

// Path renders a filesystem path
func Path(text string) string { return pathStyle.Render(text) }

// SuccessMsg prints a success message
func SuccessMsg(format string, args ...interface{}) {
	fmt.Fprintln(out, Success("✓")+" "+fmt.Sprintf(format, args...))
}

// ErrorMsg prints an error message
func ErrorMsg(format string, args ...interface{}) {
	fmt.Fprintln(out, Error("✗")+" "+fmt.Sprintf(format, args...))
}

// WarningMsg prints a warning message
func WarningMsg(format string, args ...interface{}) {
	fmt.Fprintln(out, Warning("⚠")+" "+fmt.Sprintf(format, args...))
}

// InfoMsg prints an info message
func InfoMsg(format string, args ...interface{}) {
	fmt.Fprintln(out, Info("ℹ")+" "+fmt.Sprintf(format, args...))
}

// Plain prints a message without any decoration.
func Plain(format string, args ...interface{}) {
	fmt.Fprintf(out, format+"\n", args...)
}
