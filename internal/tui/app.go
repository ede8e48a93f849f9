package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cyclr/internal/export"
	"github.com/sadopc/cyclr/internal/store"
	"github.com/sadopc/cyclr/internal/tracker"
)

var exportFormats = []string{"Periods (CSV)", "Periods (JSON)", "Shown month (JSON)"}

// App is the root Bubble Tea model.
type App struct {
	svc    *tracker.Service
	store  *store.Store
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	calendar calendarModel
	periods  periodsModel
	insights insightsModel
	settings settingsModel

	help   help.Model
	status string
}

func NewApp(svc *tracker.Service, s *store.Store) App {
	h := help.New()
	h.ShowAll = false

	dir, err := os.UserHomeDir()
	if err != nil {
		dir = "."
	}

	return App{
		svc:        svc,
		store:      s,
		activeView: viewCalendar,
		exportDir:  dir,
		calendar:   newCalendarModel(svc, s),
		periods:    newPeriodsModel(svc, s),
		insights:   newInsightsModel(svc),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.calendar.Init(),
		a.periods.refresh(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.calendar.setSize(a.width, contentHeight)
		a.periods.setSize(a.width, contentHeight)
		a.insights.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.insights.buildChart()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewCalendar
			return a, a.calendar.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewPeriods
			return a, a.periods.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewInsights
			return a, a.insights.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.QuickAdd) && a.activeView != viewPeriods:
			return a, a.periods.quickAdd()
		}

	case statusMsg:
		a.status = msg.text
		return a, nil

	case periodsChangedMsg:
		a.status = msg.text
		return a, tea.Batch(a.calendar.loadData(), a.periods.refresh(), a.insights.refresh())

	case settingsSavedMsg:
		a.status = "Settings saved"
		return a, tea.Batch(a.calendar.loadData(), a.periods.refresh())

	case calendarDataMsg:
		var cmd tea.Cmd
		a.calendar, cmd = a.calendar.update(msg)
		return a, cmd

	case periodsDataMsg:
		var cmd tea.Cmd
		a.periods, cmd = a.periods.update(msg)
		return a, cmd

	case insightsDataMsg:
		var cmd tea.Cmd
		a.insights, cmd = a.insights.update(msg)
		return a, cmd

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewPeriods:
		a.periods, cmd = a.periods.update(msg)
	case viewInsights:
		a.insights, cmd = a.insights.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewPeriods:
		return a.periods.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewCalendar:
		return a.calendar.loadData()
	case viewPeriods:
		return a.periods.refresh()
	case viewInsights:
		return a.insights.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewCalendar:
		content = a.calendar.view()
	case viewPeriods:
		content = a.periods.view()
	case viewInsights:
		content = a.insights.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("cyclr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Countdown indicator in footer
	countdown := ""
	if a.insights.insights != nil {
		if c := formatCountdown(a.insights.insights.DaysUntilNext); c != "" {
			countdown = accentStyle.Render(" ● next period " + c)
		}
	}

	left := footerStyle.Render(helpView)
	right := countdown + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	dir := a.exportDir
	year, month := a.calendar.year, a.calendar.month
	return func() tea.Msg {
		dateStr := time.Now().Format("2006-01-02")

		switch format {
		case 0, 1:
			periods, err := a.svc.Periods()
			if err != nil {
				return errorStatus("Export error", err)
			}
			if format == 0 {
				path := filepath.Join(dir, fmt.Sprintf("cyclr-periods-%s.csv", dateStr))
				if err := export.PeriodsToCSV(periods, path); err != nil {
					return errorStatus("CSV error", err)
				}
				return exportDoneMsg{path: path}
			}
			path := filepath.Join(dir, fmt.Sprintf("cyclr-periods-%s.json", dateStr))
			if err := export.PeriodsToJSON(periods, path); err != nil {
				return errorStatus("JSON error", err)
			}
			return exportDoneMsg{path: path}
		default:
			cal, err := a.svc.Calendar(year, month)
			if err != nil {
				return errorStatus("Export error", err)
			}
			path := filepath.Join(dir, fmt.Sprintf("cyclr-calendar-%04d-%02d.json", year, month))
			if err := export.CalendarToJSON(cal, path); err != nil {
				return errorStatus("JSON error", err)
			}
			return exportDoneMsg{path: path}
		}
	}
}
