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
	movieStyle   lipgloss.Style
	tvShowStyle  lipgloss.Style
	pathStyle    lipgloss.Style
)

func init() {
	initStyles()
}

func initStyles() {
	if !IsTerminal() {
		plain := lipgloss.NewStyle()
		successStyle, errorStyle, warningStyle, infoStyle = plain, plain, plain, plain
		dimStyle, movieStyle, tvShowStyle, pathStyle = plain, plain, plain, plain
		return
	}

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	movieStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	tvShowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
}

// Success renders success text
func Success(text string) string {
	return successStyle.Render(text)
}

// Error renders error text
func Error(text string) string {
	return errorStyle.Render(text)
}

// Warning renders warning text
func Warning(text string) string {
	return warningStyle.Render(text)
}

// Info renders info text
func Info(text string) string {
	return infoStyle.Render(text)
}

// Dim renders dim text
func Dim(text string) string {
	return dimStyle.Render(text)
}

// Movie renders movie titles
func Movie(text string) string {
	return movieStyle.Render(text)
}

// TVShow renders series and episode titles
func TVShow(text string) string {
	return tvShowStyle.Render(text)
}

// Path renders file paths
func Path(text string) string {
	return pathStyle.Render(text)
}

// SuccessMsg prints a success message
func SuccessMsg(format string, args ...interface{}) {
	fmt.Println(Success("✓") + " " + fmt.Sprintf(format, args...))
}

// ErrorMsg prints an error message
func ErrorMsg(format string, args ...interface{}) {
	fmt.Println(Error("✗") + " " + fmt.Sprintf(format, args...))
}

// WarningMsg prints a warning message
func WarningMsg(format string, args ...interface{}) {
	fmt.Println(Warning("⚠") + " " + fmt.Sprintf(format, args...))
}

// InfoMsg prints an info message
func InfoMsg(format string, args ...interface{}) {
	fmt.Println(Info("ℹ") + " " + fmt.Sprintf(format, args...))
}
