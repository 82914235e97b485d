package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal, primary highlight
	colorOK     = lipgloss.Color("35")  // green
	colorErr    = lipgloss.Color("167") // soft red
	colorMuted  = lipgloss.Color("245") // secondary text
	colorFaint  = lipgloss.Color("240") // de-emphasized text
	colorText   = lipgloss.Color("255") // values
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleDim renders secondary text such as stats and hints.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	// StyleValue renders user data like paths and counts.
	StyleValue = lipgloss.NewStyle().Foreground(colorText)

	styleIconOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleIconErr     = lipgloss.NewStyle().Foreground(colorErr)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorMuted)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleHint        = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

const (
	iconOK    = "✓"
	iconErr   = "✗"
	iconInfo  = "›"
	iconArrow = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconOK.Render(iconOK) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconErr.Render(iconErr) + " " + fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path a command wrote its result to.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints an aligned label/value pair.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats summarizes a processed graph on one dim line. The trailing tag
// says whether the layout came from the cache or was computed fresh.
func printStats(nodeCount, edgeCount int, cached bool) {
	parts := []string{fmt.Sprintf("%d nodes", nodeCount)}
	if edgeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", edgeCount))
	}
	if cached {
		parts = append(parts, "cached")
	} else {
		parts = append(parts, "computed")
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleHint.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
