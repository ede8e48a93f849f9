package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cyclr/internal/cycle"
	"github.com/sadopc/cyclr/internal/tracker"
)

// maxChartCycles caps how many recent cycle lengths the chart shows.
const maxChartCycles = 12

type insightsModel struct {
	svc    *tracker.Service
	width  int
	height int

	insights *tracker.Insights
	err      error

	chart barchart.Model
}

func newInsightsModel(svc *tracker.Service) insightsModel {
	return insightsModel{
		svc:   svc,
		chart: barchart.New(60, 12),
	}
}

func (m *insightsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m insightsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		in, err := m.svc.Insights()
		return insightsDataMsg{insights: in, err: err}
	}
}

func (m insightsModel) update(msg tea.Msg) (insightsModel, tea.Cmd) {
	if msg, ok := msg.(insightsDataMsg); ok {
		m.err = msg.err
		if msg.insights != nil {
			m.insights = msg.insights
			m.buildChart()
		}
	}
	return m, nil
}

// chartCycles returns the most recent lengths, oldest first, with the
// 1-based cycle number of the first one.
func chartCycles(lengths []int) ([]int, int) {
	if len(lengths) <= maxChartCycles {
		return lengths, 1
	}
	skip := len(lengths) - maxChartCycles
	return lengths[skip:], skip + 1
}

func (m *insightsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)
	if m.insights == nil || len(m.insights.CycleLengths) == 0 {
		return
	}

	lengths, first := chartCycles(m.insights.CycleLengths)
	var bars []barchart.BarData
	for i, n := range lengths {
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if n < 21 || n > 35 {
			style = lipgloss.NewStyle().Foreground(colorWarning)
		}
		bars = append(bars, barchart.BarData{
			Label:  fmt.Sprintf("#%d", first+i),
			Values: []barchart.BarValue{{Name: "days", Value: float64(n), Style: style}},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m insightsModel) view() string {
	w := m.width - 4
	title := titleStyle.Render("Insights")

	if m.err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", errorStyle.Render(m.err.Error()),
		))
	}
	if m.insights == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("Loading..."),
		))
	}

	in := m.insights
	summary := renderInsightsSummary(in)

	var chartView string
	if len(in.CycleLengths) == 0 {
		chartView = mutedStyle.Render("  No complete cycles yet")
	} else {
		chartView = lipgloss.JoinVertical(lipgloss.Left,
			subtitleStyle.Render("Cycle length (days)"),
			m.chart.View(),
			renderLengthsRow(in.CycleLengths),
		)
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", summary, "", chartView),
	)
}

func renderInsightsSummary(in *tracker.Insights) string {
	p := in.Prediction
	line := func(label, value string) string {
		return "  " + lipgloss.NewStyle().Width(20).Render(label) + highlightStyle.Render(value)
	}

	next := formatOptionalDate(p.NextPeriodStart)
	if countdown := formatCountdown(in.DaysUntilNext); countdown != "" {
		next += " (" + countdown + ")"
	}
	avg := "—"
	if p.AverageCycleLength != nil {
		avg = fmt.Sprintf("%.1f days", *p.AverageCycleLength)
	}

	rows := []string{
		line("Periods logged", fmt.Sprint(in.PeriodCount)),
		line("Last period", formatOptionalDate(in.LastPeriodStart)),
		line("Next period", next),
		line("Fertile window", formatOptionalDate(p.NextFertileStart)+" → "+formatOptionalDate(p.NextFertileEnd)),
		line("Average cycle", avg),
		line("Regularity", regularityLabel(p.CycleRegularity)),
	}
	return strings.Join(rows, "\n")
}

func regularityLabel(r cycle.Regularity) string {
	switch r {
	case cycle.Regular:
		return successStyle.Render(string(r))
	case cycle.SomewhatRegular:
		return warningStyle.Render(string(r))
	case cycle.Irregular:
		return errorStyle.Render(string(r))
	}
	return mutedStyle.Render(string(r))
}

func renderLengthsRow(lengths []int) string {
	shown, _ := chartCycles(lengths)
	parts := make([]string, len(shown))
	for i, n := range shown {
		parts[i] = fmt.Sprint(n)
	}
	return mutedStyle.Render("  " + strings.Join(parts, " · "))
}
