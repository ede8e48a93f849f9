package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sadopc/cyclr/internal/cycle"
	"github.com/sadopc/cyclr/internal/store"
	"github.com/spf13/cobra"
)

func periodCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "period",
		Aliases: []string{"periods"},
		Short:   "Record and manage periods",
		Long:    "Add, list, update and delete recorded periods",
	}
	cmd.AddCommand(periodAddCmd(e))
	cmd.AddCommand(periodListCmd(e))
	cmd.AddCommand(periodUpdateCmd(e))
	cmd.AddCommand(periodDeleteCmd(e))
	cmd.AddCommand(periodQuickCmd(e))
	return cmd
}

func periodAddCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add START",
		Short: "Record a period starting on START (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := cycle.ParseDate(args[0])
			if err != nil {
				return err
			}
			in := cycle.PeriodInput{StartDate: start}

			if end, _ := cmd.Flags().GetString("end"); end != "" {
				d, err := cycle.ParseDate(end)
				if err != nil {
					return err
				}
				in.EndDate = &d
			}
			flow, _ := cmd.Flags().GetString("flow")
			in.FlowIntensity = cycle.FlowIntensity(strings.ToLower(flow))
			if notes, _ := cmd.Flags().GetString("notes"); notes != "" {
				in.Notes = &notes
			}

			p, err := e.svc.AddPeriod(in)
			if err != nil {
				return fmt.Errorf("failed to add period: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Logged period %s\n", okMark, p.ID)
			fmt.Fprintf(out, "  Start: %s\n", p.StartDate)
			fmt.Fprintf(out, "  End:   %s\n", optionalDate(p.EndDate))
			fmt.Fprintf(out, "  Flow:  %s\n", p.FlowIntensity)
			return nil
		},
	}
	cmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringP("flow", "f", "", "Flow intensity (light, medium, heavy; default medium)")
	cmd.Flags().StringP("notes", "n", "", "Notes")
	return cmd
}

func periodListCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded periods, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				periods, err := e.svc.Periods()
				if err != nil {
					return fmt.Errorf("failed to list periods: %w", err)
				}
				if periods == nil {
					periods = []cycle.PeriodRecord{}
				}
				return writeJSON(cmd, periods)
			}

			periods, err := e.svc.PeriodsByStart()
			if err != nil {
				return fmt.Errorf("failed to list periods: %w", err)
			}
			if len(periods) == 0 {
				fmt.Fprintln(out, "No periods recorded")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTART\tEND\tFLOW\tNOTES")
			fmt.Fprintln(w, "--\t-----\t---\t----\t-----")
			for _, p := range periods {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.StartDate, optionalDate(p.EndDate), p.FlowIntensity, optionalString(p.Notes))
			}
			return w.Flush()
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func periodUpdateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the end date, flow or notes of a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch cycle.PeriodPatch
			if cmd.Flags().Changed("end") {
				end, _ := cmd.Flags().GetString("end")
				d, err := cycle.ParseDate(end)
				if err != nil {
					return err
				}
				patch.EndDate = &d
			}
			if cmd.Flags().Changed("flow") {
				flow, _ := cmd.Flags().GetString("flow")
				f := cycle.FlowIntensity(strings.ToLower(flow))
				patch.FlowIntensity = &f
			}
			if cmd.Flags().Changed("notes") {
				notes, _ := cmd.Flags().GetString("notes")
				patch.Notes = &notes
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update\nHint: pass --end, --flow or --notes")
			}

			p, err := e.svc.UpdatePeriod(args[0], patch)
			if err != nil {
				return fmt.Errorf("failed to update period: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated period %s (%s → %s, %s)\n",
				okMark, p.ID, p.StartDate, optionalDate(p.EndDate), p.FlowIntensity)
			return nil
		},
	}
	cmd.Flags().String("end", "", "New end date (YYYY-MM-DD)")
	cmd.Flags().StringP("flow", "f", "", "New flow intensity")
	cmd.Flags().StringP("notes", "n", "", "New notes")
	return cmd
}

func periodDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a period",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.svc.DeletePeriod(args[0]); err != nil {
				return fmt.Errorf("failed to delete period: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted period %s\n", okMark, args[0])
			return nil
		},
	}
}

func periodQuickCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quick",
		Short: "Record a period starting today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, _ := cmd.Flags().GetString("flow")
			if flow == "" {
				flow = e.store.GetSettingOr(store.SettingDefaultFlow, string(cycle.FlowMedium))
			}

			p, err := e.svc.QuickAdd(cycle.FlowIntensity(flow))
			if err != nil {
				return fmt.Errorf("failed to add period: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Logged %s period starting today (%s)\n", okMark, p.FlowIntensity, p.StartDate)
			return nil
		},
	}
	cmd.Flags().StringP("flow", "f", "", "Flow intensity (default from settings)")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
