package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/cyclr/internal/cycle"
)

var csvHeader = []string{"ID", "Start", "End", "Flow", "Notes", "Created"}

// PeriodsToCSV writes one row per period to path.
func PeriodsToCSV(periods []cycle.PeriodRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, p := range periods {
		row := []string{
			p.ID,
			p.StartDate.String(),
			formatOptionalDate(p.EndDate),
			string(p.FlowIntensity),
			stringOrEmpty(p.Notes),
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatOptionalDate(d *cycle.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
