package cli

import (
	"fmt"
	"strings"

	"github.com/sadopc/cyclr/internal/cycle"
	"github.com/sadopc/cyclr/internal/export"
	"github.com/spf13/cobra"
)

func exportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export periods (CSV or JSON) or a month calendar (JSON)",
		Example: `  cyclr export --format csv --out periods.csv
  cyclr export --format json --out periods.json
  cyclr export --format json --month 2025-08 --out august.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			month, _ := cmd.Flags().GetString("month")
			out, _ := cmd.Flags().GetString("out")

			switch strings.ToLower(format) {
			case "csv":
				if month != "" {
					return &cycle.ValidationError{Field: "month", Value: month, Reason: "month export is JSON only"}
				}
				periods, err := e.svc.Periods()
				if err != nil {
					return err
				}
				if err := export.PeriodsToCSV(periods, out); err != nil {
					return err
				}
			case "json":
				if month != "" {
					year, m, err := parseYearMonth(month)
					if err != nil {
						return err
					}
					cal, err := e.svc.Calendar(year, m)
					if err != nil {
						return err
					}
					if err := export.CalendarToJSON(cal, out); err != nil {
						return err
					}
					break
				}
				periods, err := e.svc.Periods()
				if err != nil {
					return err
				}
				if err := export.PeriodsToJSON(periods, out); err != nil {
					return err
				}
			default:
				return &cycle.ValidationError{Field: "format", Value: format, Reason: "must be csv or json"}
			}

			e.log.WithField("path", out).Info("export written")
			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported to %s\n", okMark, out)
			return nil
		},
	}
	cmd.Flags().String("format", "csv", "Output format (csv, json)")
	cmd.Flags().String("month", "", "Export one month's calendar instead of periods (YYYY-MM, json only)")
	cmd.Flags().StringP("out", "o", "", "Output file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// parseYearMonth reads a YYYY-MM literal.
func parseYearMonth(s string) (int, int, error) {
	d, err := cycle.ParseDate(s + "-01")
	if err != nil {
		return 0, 0, &cycle.ValidationError{Field: "month", Value: s, Reason: "use YYYY-MM"}
	}
	return d.Year(), int(d.Month()), nil
}
