package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/home-lang/pantry-sub014/pkg/registry"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for package names in headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value. Empty values are left out.
func printKeyValue(key, value string) {
	if value == "" {
		return
	}
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printSummary prints the non-empty parts on one dimmed line.
func printSummary(parts ...string) {
	parts = slices.DeleteFunc(parts, func(s string) bool { return s == "" })
	if len(parts) == 0 {
		return
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// countLabel renders "n label", or nothing for zero.
func countLabel(n int, label string) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d %s", n, label)
}

// =============================================================================
// Package Display
// =============================================================================

// printMetadata prints one package version as a key-value block.
func printMetadata(m *registry.PackageMetadata) {
	fmt.Println(StyleTitle.Render(m.Name+"@"+m.Version) + " " + StyleDim.Render("from "+m.Origin))
	if m.Description != "" {
		fmt.Println(m.Description)
	}
	fmt.Println()
	printKeyValue("License", m.License)
	if m.Homepage != "" {
		printKeyValue("Homepage", StyleLink.Render(m.Homepage))
	}
	if m.Repository != "" {
		printKeyValue("Repository", StyleLink.Render(m.Repository))
	}
	printKeyValue("Tarball", m.Tarball)
	printKeyValue("Integrity", m.Integrity)
	printKeyValue("Platforms", strings.Join(append(slices.Clone(m.OS), m.CPU...), " "))
	printDeps("Dependencies", m.Dependencies)
	printDeps("Peers", m.PeerDependencies)
	printDeps("Optional", m.OptionalDependencies)
}

func printDeps(label string, ds map[string]string) {
	if len(ds) == 0 {
		return
	}
	names := slices.Sorted(maps.Keys(ds))
	fmt.Println()
	fmt.Println(StyleTitle.Render(label) + " " + StyleDim.Render(fmt.Sprintf("(%d)", len(ds))))
	for _, n := range names {
		printDetail("%s %s", n, ds[n])
	}
}
