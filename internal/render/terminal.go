package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/meltforce/barload/internal/plates"
)

var (
	sleeveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9e9e9e"))
	shaftStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#616161"))
	collarStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#424242")).Foreground(lipgloss.Color("#ffffff"))
	captionStyle = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c62828")).Bold(true)
)

// Terminal draws res as one line of colored plate blocks around the bar,
// followed by the caption and a per-side summary.
func Terminal(res *plates.Result) string {
	right := make([]string, 0, len(res.PerSide)+2)
	for _, p := range res.PerSide {
		st := styleFor(p)
		right = append(right, lipgloss.NewStyle().
			Background(lipgloss.Color(st.Fill)).
			Foreground(lipgloss.Color(st.Ink)).
			Padding(0, 1).
			Render(label(p)))
	}
	if res.Collar {
		right = append(right, collarStyle.Render("C"))
	}
	left := slices.Clone(right)
	slices.Reverse(left)

	row := make([]string, 0, 2*len(right)+3)
	row = append(row, sleeveStyle.Render("══"))
	row = append(row, left...)
	row = append(row, shaftStyle.Render("┃━━━━━━━━━━━━━━┃"))
	row = append(row, right...)
	row = append(row, sleeveStyle.Render("══"))
	bar := lipgloss.JoinHorizontal(lipgloss.Center, row...)

	var b strings.Builder
	b.WriteString(bar)
	b.WriteString("\n")
	b.WriteString(captionStyle.Render(Caption(res)))
	b.WriteString("\n")
	b.WriteString(Summary(res))
	return b.String()
}

// TerminalError formats an error for the terminal.
func TerminalError(err error) string {
	return errorStyle.Render("error: " + err.Error())
}

// Summary lists the plates per side grouped by denomination, e.g.
// "per side: 2 × 25, 1 × 10 (60 kg)".
func Summary(res *plates.Result) string {
	if len(res.PerSide) == 0 {
		return "per side: no plates"
	}
	counts := res.Counts()
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%d × %s", c.Count, label(c.WeightKg))
	}
	return fmt.Sprintf("per side: %s (%s kg)", strings.Join(parts, ", "), label(res.PerSideWeight()))
}
