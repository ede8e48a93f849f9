package cycle

import "time"

// Supported calendar years.
const (
	MinYear = 1
	MaxYear = 9999
)

// FlowIntensity is the recorded strength of a period.
type FlowIntensity string

const (
	FlowLight  FlowIntensity = "light"
	FlowMedium FlowIntensity = "medium"
	FlowHeavy  FlowIntensity = "heavy"
)

// FlowIntensities lists the valid intensities, lightest first.
var FlowIntensities = []FlowIntensity{FlowLight, FlowMedium, FlowHeavy}

func (f FlowIntensity) Valid() bool {
	switch f {
	case FlowLight, FlowMedium, FlowHeavy:
		return true
	}
	return false
}

// ParseFlow maps a literal to a FlowIntensity. The empty string means the
// default, medium.
func ParseFlow(s string) (FlowIntensity, error) {
	if s == "" {
		return FlowMedium, nil
	}
	f := FlowIntensity(s)
	if !f.Valid() {
		return "", &ValidationError{Field: "flow_intensity", Value: s, Reason: "must be light, medium or heavy"}
	}
	return f, nil
}

// Phase is the single cycle phase a day is classified into.
type Phase string

const (
	PhaseMenstrual  Phase = "menstrual"
	PhaseFollicular Phase = "follicular"
	PhaseOvulation  Phase = "ovulation"
	PhaseLuteal     Phase = "luteal"
)

// Regularity labels how much accepted cycle lengths vary.
type Regularity string

const (
	Regular         Regularity = "Regular"
	SomewhatRegular Regularity = "Somewhat Regular"
	Irregular       Regularity = "Irregular"
	NotEnoughData   Regularity = "Not enough data"
	UnknownRegular  Regularity = "Unknown"
)

// PeriodRecord is one recorded period as held by the store.
type PeriodRecord struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	StartDate     Date          `json:"start_date"`
	EndDate       *Date         `json:"end_date"`
	FlowIntensity FlowIntensity `json:"flow_intensity"`
	Notes         *string       `json:"notes"`
	CreatedAt     time.Time     `json:"created_at"`
}

// PeriodInput creates a period.
type PeriodInput struct {
	StartDate     Date          `json:"start_date"`
	EndDate       *Date         `json:"end_date"`
	FlowIntensity FlowIntensity `json:"flow_intensity"`
	Notes         *string       `json:"notes"`
}

// PeriodPatch updates a period. Nil fields are left untouched, so an end
// date can be set or moved but not cleared.
type PeriodPatch struct {
	EndDate       *Date          `json:"end_date"`
	FlowIntensity *FlowIntensity `json:"flow_intensity"`
	Notes         *string        `json:"notes"`
}

// Empty reports whether the patch changes nothing.
func (p PeriodPatch) Empty() bool {
	return p.EndDate == nil && p.FlowIntensity == nil && p.Notes == nil
}

// Apply returns r with the patch's non-nil fields written over it.
func (p PeriodPatch) Apply(r PeriodRecord) PeriodRecord {
	if p.EndDate != nil {
		r.EndDate = datePtr(*p.EndDate)
	}
	if p.FlowIntensity != nil {
		r.FlowIntensity = *p.FlowIntensity
	}
	if p.Notes != nil {
		notes := *p.Notes
		r.Notes = &notes
	}
	return r
}

// CyclePrediction is the forecast for the next cycle. It is recomputed on
// every request and never stored.
type CyclePrediction struct {
	NextPeriodStart    *Date      `json:"next_period_start"`
	NextPeriodEnd      *Date      `json:"next_period_end"`
	NextOvulation      *Date      `json:"next_ovulation"`
	NextFertileStart   *Date      `json:"next_fertile_start"`
	NextFertileEnd     *Date      `json:"next_fertile_end"`
	AverageCycleLength *float64   `json:"average_cycle_length"`
	CycleRegularity    Regularity `json:"cycle_regularity"`
}

// DefaultPrediction is the all-absent prediction returned when the history
// is too short to measure a cycle.
func DefaultPrediction() CyclePrediction {
	return CyclePrediction{CycleRegularity: UnknownRegular}
}

// InPredictedPeriod reports whether day falls in the predicted period.
func (p CyclePrediction) InPredictedPeriod(day Date) bool {
	return within(day, p.NextPeriodStart, p.NextPeriodEnd)
}

// InFertileWindow reports whether day falls in the predicted fertile window.
func (p CyclePrediction) InFertileWindow(day Date) bool {
	return within(day, p.NextFertileStart, p.NextFertileEnd)
}

// IsOvulation reports whether day is the predicted ovulation day.
func (p CyclePrediction) IsOvulation(day Date) bool {
	return p.NextOvulation != nil && p.NextOvulation.Equal(day)
}

func within(day Date, start, end *Date) bool {
	if start == nil || end == nil {
		return false
	}
	return day.Within(*start, *end)
}

// DayInfo describes a single calendar day.
type DayInfo struct {
	Date              Date           `json:"date"`
	Phase             Phase          `json:"phase"`
	IsPeriod          bool           `json:"is_period"`
	IsPredictedPeriod bool           `json:"is_predicted_period"`
	IsOvulation       bool           `json:"is_ovulation"`
	IsFertile         bool           `json:"is_fertile"`
	FlowIntensity     *FlowIntensity `json:"flow_intensity"`
	Notes             *string        `json:"notes"`
}
