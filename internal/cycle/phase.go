package cycle

// OpenPeriodDays is how long a period without an end date is taken to last
// when checking whether it covers a day.
const OpenPeriodDays = 5

// CoverageEnd is the last day a recorded period covers: its end date, or
// OpenPeriodDays after the start when it is still open.
func CoverageEnd(p PeriodRecord) Date {
	if p.EndDate != nil {
		return *p.EndDate
	}
	return p.StartDate.AddDays(OpenPeriodDays)
}

// Covers reports whether p covers day.
func Covers(p PeriodRecord, day Date) bool {
	return day.Within(p.StartDate, CoverageEnd(p))
}

// CoveringPeriod returns the first record, in slice order, that covers day.
func CoveringPeriod(day Date, periods []PeriodRecord) (PeriodRecord, bool) {
	for _, p := range periods {
		if Covers(p, day) {
			return p, true
		}
	}
	return PeriodRecord{}, false
}

// Classify returns the phase of day. Rules apply in order and the first
// match wins:
//
//  1. menstrual when a recorded period covers the day
//  2. menstrual when the day is in the predicted period
//  3. ovulation on the predicted ovulation day
//  4. follicular inside the predicted fertile window
//  5. luteal otherwise
//
// Rule 5 is a catch-all: days before ovulation that fall outside the fertile
// window are labeled luteal too.
func Classify(day Date, periods []PeriodRecord, p CyclePrediction) Phase {
	if _, ok := CoveringPeriod(day, periods); ok {
		return PhaseMenstrual
	}
	if p.InPredictedPeriod(day) {
		return PhaseMenstrual
	}
	if p.IsOvulation(day) {
		return PhaseOvulation
	}
	if p.InFertileWindow(day) {
		return PhaseFollicular
	}
	return PhaseLuteal
}
