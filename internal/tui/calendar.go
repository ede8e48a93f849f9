package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cyclr/internal/cycle"
	"github.com/sadopc/cyclr/internal/store"
	"github.com/sadopc/cyclr/internal/tracker"
)

type calendarModel struct {
	svc    *tracker.Service
	store  *store.Store
	width  int
	height int

	year  int
	month int
	today cycle.Date

	cal       *tracker.MonthCalendar
	weekStart time.Weekday
	err       error
}

func newCalendarModel(svc *tracker.Service, s *store.Store) calendarModel {
	today := cycle.Today()
	return calendarModel{
		svc:       svc,
		store:     s,
		year:      today.Year(),
		month:     int(today.Month()),
		today:     today,
		weekStart: time.Monday,
	}
}

func (c calendarModel) Init() tea.Cmd {
	return c.loadData()
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c calendarModel) loadData() tea.Cmd {
	year, month := c.year, c.month
	return func() tea.Msg {
		cal, err := c.svc.Calendar(year, month)
		weekStart := c.store.GetSettingOr(store.SettingWeekStart, "monday")
		return calendarDataMsg{cal: cal, weekStart: weekStart, err: err}
	}
}

// shiftMonth moves the displayed month by delta, rolling the year over.
func (c *calendarModel) shiftMonth(delta int) {
	m := c.month - 1 + delta
	c.year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		c.year--
	}
	c.month = m + 1
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		c.err = msg.err
		if msg.cal != nil {
			c.cal = msg.cal
		}
		c.weekStart = parseWeekStart(msg.weekStart)
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			c.shiftMonth(-1)
			return c, c.loadData()
		case key.Matches(msg, keys.Right):
			c.shiftMonth(1)
			return c, c.loadData()
		case key.Matches(msg, keys.Today):
			c.today = cycle.Today()
			c.year, c.month = c.today.Year(), int(c.today.Month())
			return c, c.loadData()
		}
	}
	return c, nil
}

func parseWeekStart(s string) time.Weekday {
	if strings.EqualFold(s, "sunday") {
		return time.Sunday
	}
	return time.Monday
}

// weekdayOffset is the number of blank cells before day one when weeks
// begin on weekStart.
func weekdayOffset(first, weekStart time.Weekday) int {
	return (int(first) - int(weekStart) + 7) % 7
}

func (c calendarModel) view() string {
	w := c.width - 4
	title := titleStyle.Render(time.Month(c.month).String() + " " + fmt.Sprint(c.year))

	if c.err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", errorStyle.Render(c.err.Error()),
		))
	}
	if c.cal == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("Loading..."),
		))
	}

	grid := renderMonthGrid(c.cal.CalendarData, c.weekStart, c.today)
	left := lipgloss.JoinVertical(lipgloss.Left, title, "", grid, "", renderLegend())
	right := renderPredictionPanel(c.cal.Predictions)

	nav := mutedStyle.Render("  ←/→: month  t: today")
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, body, "", nav))
}

// renderMonthGrid lays out days as week rows, starting each row on
// weekStart.
func renderMonthGrid(days []cycle.DayInfo, weekStart time.Weekday, today cycle.Date) string {
	var header []string
	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(weekStart) + i) % 7)
		header = append(header, weekdayHeaderStyle.Render(wd.String()[:2]))
	}

	rows := []string{strings.Join(header, "")}
	if len(days) == 0 {
		return rows[0]
	}

	offset := weekdayOffset(days[0].Date.Weekday(), weekStart)
	cells := make([]string, 0, 7)
	for i := 0; i < offset; i++ {
		cells = append(cells, dayStyle.Render(""))
	}
	for _, d := range days {
		cells = append(cells, renderDay(d, today))
		if len(cells) == 7 {
			rows = append(rows, strings.Join(cells, ""))
			cells = cells[:0]
		}
	}
	if len(cells) > 0 {
		rows = append(rows, strings.Join(cells, ""))
	}
	return strings.Join(rows, "\n")
}

func renderDay(d cycle.DayInfo, today cycle.Date) string {
	label := fmt.Sprint(d.Date.Day())
	if d.Date.Equal(today) {
		label = "[" + label + "]"
	}

	style := dayStyle
	switch {
	case d.IsPeriod:
		style = periodDayStyle
	case d.IsOvulation:
		style = ovulationDayStyle
	case d.IsPredictedPeriod:
		style = predictedDayStyle
	case d.IsFertile:
		style = fertileDayStyle
	}
	return style.Render(label)
}

func renderLegend() string {
	items := []string{
		periodDayStyle.UnsetWidth().Render(" ") + " period",
		predictedDayStyle.UnsetWidth().Render("__") + " predicted",
		ovulationDayStyle.UnsetWidth().Render(" ") + " ovulation",
		fertileDayStyle.UnsetWidth().Render("●") + " fertile",
	}
	return mutedStyle.Render(strings.Join(items, "  "))
}

func renderPredictionPanel(p cycle.CyclePrediction) string {
	rows := []string{titleStyle.Render("Next cycle"), ""}
	if p.NextPeriodStart == nil {
		rows = append(rows,
			mutedStyle.Render("Log at least two periods"),
			mutedStyle.Render("to see predictions."),
		)
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	line := func(label, value string) string {
		return lipgloss.NewStyle().Width(12).Render(label) + highlightStyle.Render(value)
	}
	rows = append(rows,
		line("Period", formatOptionalDate(p.NextPeriodStart)),
		line("Ovulation", formatOptionalDate(p.NextOvulation)),
		line("Fertile", formatOptionalDate(p.NextFertileStart)+" → "+formatOptionalDate(p.NextFertileEnd)),
	)
	if p.AverageCycleLength != nil {
		rows = append(rows, line("Average", fmt.Sprintf("%.1f days", *p.AverageCycleLength)))
	}
	rows = append(rows, line("Regularity", string(p.CycleRegularity)))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
