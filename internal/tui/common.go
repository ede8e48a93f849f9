package tui

import (
	"fmt"
	"strings"

	"github.com/sadopc/cyclr/internal/cycle"
	"github.com/sadopc/cyclr/internal/tracker"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCalendar viewState = iota
	viewPeriods
	viewInsights
	viewSettings
)

var viewNames = []string{"Calendar", "Periods", "Insights", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// periodsChangedMsg follows any create, update or delete so every view
// reloads from the store.
type periodsChangedMsg struct {
	text string
}

type calendarDataMsg struct {
	cal       *tracker.MonthCalendar
	weekStart string
	err       error
}

type periodsDataMsg struct {
	periods     []cycle.PeriodRecord
	defaultFlow cycle.FlowIntensity
	err         error
}

type insightsDataMsg struct {
	insights *tracker.Insights
	err      error
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func errorStatus(action string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("%s: %v", action, err), isError: true}
}

func formatOptionalDate(d *cycle.Date) string {
	if d == nil {
		return "—"
	}
	return d.Time().Format("Jan 02, 2006")
}

// formatCountdown describes how far away a predicted start is.
func formatCountdown(days *int) string {
	if days == nil {
		return ""
	}
	switch n := *days; {
	case n == 0:
		return "today"
	case n == 1:
		return "tomorrow"
	case n > 1:
		return fmt.Sprintf("in %d days", n)
	case n == -1:
		return "1 day late"
	default:
		return fmt.Sprintf("%d days late", -n)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// validateDate accepts YYYY-MM-DD, or an empty string when optional.
func validateDate(optional bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if optional {
				return nil
			}
			return fmt.Errorf("date is required")
		}
		if _, err := cycle.ParseDate(s); err != nil {
			return fmt.Errorf("use YYYY-MM-DD")
		}
		return nil
	}
}
