package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sadopc/cyclr/internal/cycle"
	"github.com/sadopc/cyclr/internal/tracker"
)

var (
	okMark         = color.New(color.FgHiGreen).Sprint("✓")
	headingColor   = color.New(color.Bold)
	mutedColor     = color.New(color.FgHiBlack)
	periodColor    = color.New(color.FgHiWhite, color.BgRed, color.Bold)
	predictedColor = color.New(color.FgRed, color.Underline)
	ovulationColor = color.New(color.FgBlack, color.BgYellow)
	fertileColor   = color.New(color.FgCyan)
)

func regularityColor(r cycle.Regularity) *color.Color {
	switch r {
	case cycle.Regular:
		return color.New(color.FgHiGreen)
	case cycle.SomewhatRegular:
		return color.New(color.FgYellow)
	case cycle.Irregular:
		return color.New(color.FgRed)
	}
	return mutedColor
}

func optionalDate(d *cycle.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func optionalString(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func printPrediction(w io.Writer, p cycle.CyclePrediction) {
	if p.NextPeriodStart == nil {
		fmt.Fprintln(w, "Not enough history to predict the next cycle.")
		fmt.Fprintln(w, mutedColor.Sprint("Log at least two periods 15 to 45 days apart."))
		return
	}

	fmt.Fprintln(w, headingColor.Sprint("Next cycle"))
	fmt.Fprintf(w, "  Period:      %s → %s\n", optionalDate(p.NextPeriodStart), optionalDate(p.NextPeriodEnd))
	fmt.Fprintf(w, "  Ovulation:   %s\n", optionalDate(p.NextOvulation))
	fmt.Fprintf(w, "  Fertile:     %s → %s\n", optionalDate(p.NextFertileStart), optionalDate(p.NextFertileEnd))
	if p.AverageCycleLength != nil {
		fmt.Fprintf(w, "  Average:     %.1f days\n", *p.AverageCycleLength)
	}
	fmt.Fprintf(w, "  Regularity:  %s\n", regularityColor(p.CycleRegularity).Sprint(p.CycleRegularity))
}

// printCalendar renders a month grid with weeks starting on weekStart.
func printCalendar(w io.Writer, cal *tracker.MonthCalendar, weekStart time.Weekday, today cycle.Date) {
	title := fmt.Sprintf("%s %d", time.Month(cal.Month), cal.Year)
	fmt.Fprintln(w, headingColor.Sprint(title))

	var header []string
	for i := 0; i < 7; i++ {
		header = append(header, time.Weekday((int(weekStart)+i)%7).String()[:2])
	}
	fmt.Fprintln(w, mutedColor.Sprint(" "+strings.Join(header, "  ")))

	if len(cal.CalendarData) == 0 {
		return
	}
	offset := (int(cal.CalendarData[0].Date.Weekday()) - int(weekStart) + 7) % 7
	line := strings.Repeat("    ", offset)
	col := offset
	for _, d := range cal.CalendarData {
		line += " " + dayCell(d, today) + " "
		col++
		if col == 7 {
			fmt.Fprintln(w, strings.TrimRight(line, " "))
			line, col = "", 0
		}
	}
	if col > 0 {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	fmt.Fprintf(w, "\n%s period  %s predicted  %s ovulation  %s fertile\n",
		periodColor.Sprint("  "), predictedColor.Sprint("__"), ovulationColor.Sprint("  "), fertileColor.Sprint("··"))
}

func dayCell(d cycle.DayInfo, today cycle.Date) string {
	label := fmt.Sprintf("%2d", d.Date.Day())
	switch {
	case d.IsPeriod:
		return periodColor.Sprint(label)
	case d.IsOvulation:
		return ovulationColor.Sprint(label)
	case d.IsPredictedPeriod:
		return predictedColor.Sprint(label)
	case d.IsFertile:
		return fertileColor.Sprint(label)
	case d.Date.Equal(today):
		return headingColor.Sprint(label)
	}
	return label
}
