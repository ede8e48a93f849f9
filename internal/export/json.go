package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/cyclr/internal/cycle"
	"github.com/sadopc/cyclr/internal/tracker"
)

type periodsExport struct {
	ExportedAt string               `json:"exported_at"`
	Count      int                  `json:"count"`
	Periods    []cycle.PeriodRecord `json:"periods"`
}

type calendarExport struct {
	ExportedAt string `json:"exported_at"`
	*tracker.MonthCalendar
}

// PeriodsToJSON writes the periods as an indented JSON document.
func PeriodsToJSON(periods []cycle.PeriodRecord, path string) error {
	return writeJSON(periodsExport{
		ExportedAt: exportedAt(),
		Count:      len(periods),
		Periods:    periods,
	}, path)
}

// CalendarToJSON writes a month calendar with its prediction.
func CalendarToJSON(cal *tracker.MonthCalendar, path string) error {
	if cal == nil {
		return fmt.Errorf("export calendar: nil calendar")
	}
	return writeJSON(calendarExport{ExportedAt: exportedAt(), MonthCalendar: cal}, path)
}

func exportedAt() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
