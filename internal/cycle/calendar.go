package cycle

import "time"

// MonthRange returns the first and last day of a month, or a
// ValidationError when year or month is out of range.
func MonthRange(year, month int) (Date, Date, error) {
	if err := ValidateMonth(year, month); err != nil {
		return Date{}, Date{}, err
	}
	first := NewDate(year, time.Month(month), 1)
	var next Date
	if month == 12 {
		next = NewDate(year+1, time.January, 1)
	} else {
		next = NewDate(year, time.Month(month+1), 1)
	}
	return first, next.AddDays(-1), nil
}

// BuildCalendar describes every day of the month in order.
func BuildCalendar(year, month int, periods []PeriodRecord, p CyclePrediction) ([]DayInfo, error) {
	first, last, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}

	days := make([]DayInfo, 0, last.Day())
	for day := first; !day.After(last); day = day.AddDays(1) {
		info := DayInfo{
			Date:              day,
			Phase:             Classify(day, periods, p),
			IsPredictedPeriod: p.InPredictedPeriod(day),
			IsOvulation:       p.IsOvulation(day),
			IsFertile:         p.InFertileWindow(day),
		}
		if rec, ok := CoveringPeriod(day, periods); ok {
			info.IsPeriod = true
			flow := rec.FlowIntensity
			info.FlowIntensity = &flow
			if rec.Notes != nil {
				notes := *rec.Notes
				info.Notes = &notes
			}
		}
		days = append(days, info)
	}
	return days, nil
}
