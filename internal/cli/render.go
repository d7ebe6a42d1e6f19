package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/greenledger/emfactor/internal/resolver"
)

// printer is the locale-aware message printer for number formatting.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// formatKg renders a CO2e mass with thousand separators and sensible
// precision for the magnitude.
func formatKg(kg float64) string {
	switch {
	case kg >= 1000:
		return printer.Sprintf("%.1f", kg)
	case kg >= 1:
		return printer.Sprintf("%.2f", kg)
	default:
		return printer.Sprintf("%.4f", kg)
	}
}

// confidenceLabel buckets a confidence score for display.
func confidenceLabel(c float64) string {
	switch {
	case c >= 0.85:
		return "high"
	case c >= 0.6:
		return "medium"
	case c > 0:
		return "low"
	default:
		return "none"
	}
}

// renderResult renders a resolution result for the terminal. When styled is
// false the output carries no ANSI sequences, for piped output and tests.
func renderResult(result *resolver.Result, styled bool) string {
	title := lipgloss.NewStyle()
	label := lipgloss.NewStyle()
	warn := lipgloss.NewStyle()
	if styled {
		title = title.Bold(true)
		label = label.Bold(true).Foreground(lipgloss.Color("33"))
		warn = warn.Foreground(lipgloss.Color("214"))
	}

	var b strings.Builder

	if !result.OK() {
		b.WriteString(title.Render("Resolution failed") + "\n")
		b.WriteString(fmt.Sprintf("  %s: %s\n", label.Render("Error"), result.Failure.Error))
		b.WriteString(fmt.Sprintf("  %s: %s\n", label.Render("Suggestion"), result.Failure.Suggestion))
		return b.String()
	}

	b.WriteString(title.Render(fmt.Sprintf("%s kg CO2e", formatKg(result.CO2eKg))) + "\n")
	b.WriteString(fmt.Sprintf("  %s: %v kgCO2e per %s (%s, %s)\n",
		label.Render("Factor"), result.FactorUsed, result.FactorUnit, result.Source, result.TierLabel))
	b.WriteString(fmt.Sprintf("  %s: %d (%s), confidence %.2f (%s)\n",
		label.Render("Layer"), int(result.Layer), result.Layer, result.Confidence, confidenceLabel(result.Confidence)))
	b.WriteString(fmt.Sprintf("  %s: %s\n", label.Render("Match"), result.MatchDetails))

	if result.GasBreakdown != nil {
		b.WriteString(fmt.Sprintf("  %s: CO2 %s / CH4 %s / N2O %s kg\n",
			label.Render("Gases"),
			formatKg(result.GasBreakdown.CO2),
			formatKg(result.GasBreakdown.CH4),
			formatKg(result.GasBreakdown.N2O)))
	}

	for _, warning := range result.Warnings {
		b.WriteString("  " + warn.Render(fmt.Sprintf("warning: %s", warning)) + "\n")
	}

	if len(result.Alternatives) > 0 {
		b.WriteString("  " + label.Render("Alternatives") + ":\n")
		for i, alt := range result.Alternatives {
			b.WriteString(fmt.Sprintf("    %d. %v kgCO2e per %s (%s %s %d, layer %s, confidence %.2f)\n",
				i+1, alt.FactorValue, alt.FactorUnit, alt.Source, alt.Region, alt.VintageYear,
				alt.Layer, alt.Confidence))
		}
	}

	return b.String()
}

// renderFactorTable renders dataset records as an aligned table.
func renderFactorTable(rows [][]string, styled bool) string {
	if len(rows) == 0 {
		return "no matching factors\n"
	}

	header := lipgloss.NewStyle()
	if styled {
		header = header.Bold(true)
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for rowIdx, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			line.WriteString(cell)
			if i < len(row)-1 {
				line.WriteString(strings.Repeat(" ", widths[i]-len(cell)+2))
			}
		}
		text := line.String()
		if rowIdx == 0 {
			text = header.Render(text)
		}
		b.WriteString(text + "\n")
	}
	return b.String()
}

// formatFactorValue renders a factor value without scientific notation for
// the magnitudes the dataset carries.
func formatFactorValue(v float64) string {
	if v >= 100 || v == math.Trunc(v) {
		return printer.Sprintf("%.0f", v)
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
