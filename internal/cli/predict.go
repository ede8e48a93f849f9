package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/cyclr/internal/cycle"
	"github.com/sadopc/cyclr/internal/store"
	"github.com/spf13/cobra"
)

func predictCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast the next period, ovulation and fertile window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := e.svc.Predictions()
			if err != nil {
				return fmt.Errorf("failed to predict: %w", err)
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd, p)
			}
			printPrediction(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func calendarCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar [YEAR MONTH]",
		Short: "Show a month with recorded, predicted and fertile days",
		Long:  "Show a month with recorded, predicted and fertile days. Defaults to the current month.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected YEAR MONTH or no arguments, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			today := cycle.Today()
			year, month := today.Year(), int(today.Month())
			if len(args) == 2 {
				var err error
				if year, err = parseIntArg("year", args[0]); err != nil {
					return err
				}
				if month, err = parseIntArg("month", args[1]); err != nil {
					return err
				}
			}

			cal, err := e.svc.Calendar(year, month)
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd, cal)
			}

			weekStart := time.Monday
			if strings.EqualFold(e.store.GetSettingOr(store.SettingWeekStart, "monday"), "sunday") {
				weekStart = time.Sunday
			}
			out := cmd.OutOrStdout()
			printCalendar(out, cal, weekStart, today)
			fmt.Fprintln(out)
			printPrediction(out, cal.Predictions)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func parseIntArg(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &cycle.ValidationError{Field: name, Value: raw, Reason: "must be an integer"}
	}
	return n, nil
}
