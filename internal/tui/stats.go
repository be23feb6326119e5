package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/model"
)

func (d dashboardModel) renderStatsPanel(w int) string {
	title := titleStyle.Render("Board")
	total := mutedStyle.Render(fmt.Sprintf("%d tasks", d.stats.Total))
	header := fmt.Sprintf("%s  %s", title, total)

	chartWidth := w - 6
	if chartWidth < 16 {
		chartWidth = 16
	}
	chart := buildStatsChart(d.stats, chartWidth, 6)

	alerts := ""
	if d.stats.Overdue > 0 {
		alerts = errorStyle.Render(fmt.Sprintf("%d overdue", d.stats.Overdue))
	}
	if d.stats.DueSoon > 0 {
		if alerts != "" {
			alerts += "  "
		}
		alerts += warningStyle.Render(fmt.Sprintf("%d due soon", d.stats.DueSoon))
	}

	rows := []string{header, "", chart.View()}
	if alerts != "" {
		rows = append(rows, "", alerts)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func buildStatsChart(s model.Stats, w, h int) barchart.Model {
	chart := barchart.New(w, h)

	counts := []struct {
		label string
		value int
		color lipgloss.Color
	}{
		{"TODO", s.Todo, statusColors[model.StatusTodo]},
		{"PROG", s.InProgress, statusColors[model.StatusInProgress]},
		{"REV", s.InReview, statusColors[model.StatusInReview]},
		{"DONE", s.Done, statusColors[model.StatusDone]},
		{"BLK", s.Blocked, statusColors[model.StatusBlocked]},
	}

	var bars []barchart.BarData
	for _, c := range counts {
		bars = append(bars, barchart.BarData{
			Label: c.label,
			Values: []barchart.BarValue{{
				Name:  c.label,
				Value: float64(c.value),
				Style: lipgloss.NewStyle().Foreground(c.color),
			}},
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart
}
