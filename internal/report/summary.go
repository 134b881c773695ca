// Package report renders stored runs for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/molsim/internal/props"
	"github.com/san-kum/molsim/internal/storage"
)

// RenderSummary formats one averaged record as a boxed panel.
func RenderSummary(s props.Summary) string {
	rows := [][2]string{
		{"step", fmt.Sprintf("%d", s.Step)},
		{"time", fmt.Sprintf("%.4f", s.Time)},
		{"v_sum", formatVec(s.VSum)},
		{"kin energy", fmt.Sprintf("%.4f ± %.4f", s.KinEnergy, s.KinEnergyStd)},
		{"tot energy", fmt.Sprintf("%.4f ± %.4f", s.TotEnergy, s.TotEnergyStd)},
		{"pressure", fmt.Sprintf("%.4f ± %.4f", s.Pressure, s.PressureStd)},
	}
	return Panel.Render(renderRows("summary", rows))
}

// RenderRun formats run metadata and, when present, its last summary.
func RenderRun(meta storage.RunMetadata, last *props.Summary) string {
	rows := [][2]string{
		{"id", meta.ID},
		{"started", meta.Timestamp.Format("2006-01-02 15:04:05")},
		{"dim", fmt.Sprintf("%d", meta.Dim)},
		{"molecules", fmt.Sprintf("%d", meta.NMol)},
		{"dt", fmt.Sprintf("%g", meta.Dt)},
		{"steps", fmt.Sprintf("%d", meta.Steps)},
		{"time", fmt.Sprintf("%.4f → %.4f", meta.StartTime, meta.EndTime)},
		{"potential", meta.Potential},
	}
	if meta.Preset != "" {
		rows = append(rows, [2]string{"preset", meta.Preset})
	}
	if meta.Checkpoint != "" {
		rows = append(rows, [2]string{"checkpoint", meta.Checkpoint})
	}

	body := renderRows("run", rows)
	if last != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", RenderSummary(*last))
	}
	return Panel.Render(body)
}

func renderRows(title string, rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}

	var b strings.Builder
	b.WriteString(Title.Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(Label.Render(fmt.Sprintf("%-*s", width, r[0])))
		b.WriteString("  ")
		b.WriteString(Value.Render(r[1]))
	}
	return b.String()
}

func formatVec(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.3g", x)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
