package cycle

import (
	"math"
	"sort"
)

// Forecast constants, in days.
const (
	MinCycleLength    = 15 // shorter gaps are discarded as outliers
	MaxCycleLength    = 45 // longer gaps are discarded as outliers
	PeriodLength      = 5  // assumed duration of the predicted period
	LutealPhaseLength = 14 // ovulation precedes the next period by this much
	FertileLeadDays   = 5  // fertile window opens this long before ovulation
	FertileTailDays   = 1  // and closes this long after it

	// MinRegularitySamples is how many accepted lengths regularity needs.
	MinRegularitySamples = 3
)

// Standard deviation thresholds for the regularity label.
const (
	regularMaxStdDev         = 3.0
	somewhatRegularMaxStdDev = 7.0
)

// SortByStart returns a copy of periods ordered by start date. Records
// sharing a start date keep their relative order.
func SortByStart(periods []PeriodRecord) []PeriodRecord {
	sorted := make([]PeriodRecord, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	return sorted
}

// CycleLengths returns the accepted start-to-start gaps of the history in
// chronological order. Gaps outside [MinCycleLength, MaxCycleLength] are
// dropped.
func CycleLengths(periods []PeriodRecord) []int {
	if len(periods) < 2 {
		return nil
	}
	sorted := SortByStart(periods)

	var lengths []int
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].StartDate.DaysSince(sorted[i-1].StartDate)
		if gap >= MinCycleLength && gap <= MaxCycleLength {
			lengths = append(lengths, gap)
		}
	}
	return lengths
}

// Predict forecasts the next cycle from an unordered period history.
// Histories with fewer than two records, or with no accepted cycle length,
// yield DefaultPrediction.
func Predict(periods []PeriodRecord) CyclePrediction {
	lengths := CycleLengths(periods)
	if len(lengths) == 0 {
		return DefaultPrediction()
	}

	mean := meanInts(lengths)
	regularity := NotEnoughData
	if len(lengths) >= MinRegularitySamples {
		regularity = classifyRegularity(stdDev(lengths, mean))
	}

	last := latestStart(periods)
	nextStart := last.AddDays(int(mean))
	ovulation := nextStart.AddDays(-LutealPhaseLength)
	avg := math.Round(mean*10) / 10

	return CyclePrediction{
		NextPeriodStart:    datePtr(nextStart),
		NextPeriodEnd:      datePtr(nextStart.AddDays(PeriodLength)),
		NextOvulation:      datePtr(ovulation),
		NextFertileStart:   datePtr(ovulation.AddDays(-FertileLeadDays)),
		NextFertileEnd:     datePtr(ovulation.AddDays(FertileTailDays)),
		AverageCycleLength: &avg,
		CycleRegularity:    regularity,
	}
}

func classifyRegularity(sigma float64) Regularity {
	switch {
	case sigma <= regularMaxStdDev:
		return Regular
	case sigma <= somewhatRegularMaxStdDev:
		return SomewhatRegular
	default:
		return Irregular
	}
}

func latestStart(periods []PeriodRecord) Date {
	var last Date
	for i, p := range periods {
		if i == 0 || p.StartDate.After(last) {
			last = p.StartDate
		}
	}
	return last
}

func meanInts(values []int) float64 {
	var total int
	for _, v := range values {
		total += v
	}
	return float64(total) / float64(len(values))
}

// stdDev is the population standard deviation of values around mean.
func stdDev(values []int, mean float64) float64 {
	var sum float64
	for _, v := range values {
		d := float64(v) - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
