// Package tracker is the application layer between the period store and
// the cycle core. Each call reads the store once and runs the pure cycle
// functions over that snapshot.
package tracker

import (
	"fmt"
	"time"

	"github.com/sadopc/cyclr/internal/cycle"
	"github.com/sirupsen/logrus"
)

// PeriodStore is the record storage the service needs.
type PeriodStore interface {
	ListPeriods() ([]cycle.PeriodRecord, error)
	GetPeriod(id string) (*cycle.PeriodRecord, error)
	CreatePeriod(in cycle.PeriodInput) (*cycle.PeriodRecord, error)
	UpdatePeriod(id string, patch cycle.PeriodPatch) (*cycle.PeriodRecord, error)
	DeletePeriod(id string) error
}

// SuggestedPeriodDays is the span offered as a default end date when a
// period is entered without one.
const SuggestedPeriodDays = 4

// MonthCalendar is one month of day classifications plus the prediction it
// was derived from.
type MonthCalendar struct {
	CalendarData []cycle.DayInfo       `json:"calendar_data"`
	Predictions  cycle.CyclePrediction `json:"predictions"`
	Month        int                   `json:"month"`
	Year         int                   `json:"year"`
}

// Insights summarizes the history for the CLI and TUI.
type Insights struct {
	Prediction      cycle.CyclePrediction
	CycleLengths    []int
	PeriodCount     int
	LastPeriodStart *cycle.Date
	// DaysUntilNext is negative once the predicted start has passed.
	DaysUntilNext *int
}

type Service struct {
	store PeriodStore
	log   logrus.FieldLogger
	now   func() time.Time
}

func New(store PeriodStore, log logrus.FieldLogger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// today is the current local calendar day.
func (s *Service) today() cycle.Date {
	return cycle.DateOf(s.now())
}

func (s *Service) Periods() ([]cycle.PeriodRecord, error) {
	return s.store.ListPeriods()
}

// PeriodsByStart returns the history newest first.
func (s *Service) PeriodsByStart() ([]cycle.PeriodRecord, error) {
	periods, err := s.store.ListPeriods()
	if err != nil {
		return nil, err
	}
	sorted := cycle.SortByStart(periods)
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted, nil
}

func (s *Service) GetPeriod(id string) (*cycle.PeriodRecord, error) {
	return s.store.GetPeriod(id)
}

func (s *Service) AddPeriod(in cycle.PeriodInput) (*cycle.PeriodRecord, error) {
	if in.StartDate.IsZero() {
		return nil, &cycle.ValidationError{Field: "start_date", Value: "", Reason: "required"}
	}
	flow, err := cycle.ParseFlow(string(in.FlowIntensity))
	if err != nil {
		return nil, err
	}
	in.FlowIntensity = flow
	if err := checkRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	p, err := s.store.CreatePeriod(in)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"period_id": p.ID, "start_date": p.StartDate.String()}).Info("period created")
	return p, nil
}

// QuickAdd records an open period starting today.
func (s *Service) QuickAdd(flow cycle.FlowIntensity) (*cycle.PeriodRecord, error) {
	return s.AddPeriod(cycle.PeriodInput{StartDate: s.today(), FlowIntensity: flow})
}

func (s *Service) UpdatePeriod(id string, patch cycle.PeriodPatch) (*cycle.PeriodRecord, error) {
	if patch.FlowIntensity != nil && !patch.FlowIntensity.Valid() {
		return nil, &cycle.ValidationError{Field: "flow_intensity", Value: *patch.FlowIntensity, Reason: "must be light, medium or heavy"}
	}
	current, err := s.store.GetPeriod(id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*current)
	if err := checkRange(updated.StartDate, updated.EndDate); err != nil {
		return nil, err
	}

	p, err := s.store.UpdatePeriod(id, patch)
	if err != nil {
		return nil, err
	}
	s.log.WithField("period_id", id).Info("period updated")
	return p, nil
}

func (s *Service) DeletePeriod(id string) error {
	if err := s.store.DeletePeriod(id); err != nil {
		return err
	}
	s.log.WithField("period_id", id).Info("period deleted")
	return nil
}

// Predictions forecasts the next cycle from the stored history.
func (s *Service) Predictions() (cycle.CyclePrediction, error) {
	periods, err := s.store.ListPeriods()
	if err != nil {
		return cycle.CyclePrediction{}, fmt.Errorf("load periods: %w", err)
	}
	return cycle.Predict(periods), nil
}

// Calendar classifies every day of a month. The month is validated before
// the store is read.
func (s *Service) Calendar(year, month int) (*MonthCalendar, error) {
	if err := cycle.ValidateMonth(year, month); err != nil {
		return nil, err
	}
	periods, err := s.store.ListPeriods()
	if err != nil {
		return nil, fmt.Errorf("load periods: %w", err)
	}

	prediction := cycle.Predict(periods)
	days, err := cycle.BuildCalendar(year, month, periods, prediction)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"year": year, "month": month, "periods": len(periods)}).Debug("calendar built")
	return &MonthCalendar{
		CalendarData: days,
		Predictions:  prediction,
		Month:        month,
		Year:         year,
	}, nil
}

func (s *Service) Insights() (*Insights, error) {
	periods, err := s.store.ListPeriods()
	if err != nil {
		return nil, fmt.Errorf("load periods: %w", err)
	}

	in := &Insights{
		Prediction:   cycle.Predict(periods),
		CycleLengths: cycle.CycleLengths(periods),
		PeriodCount:  len(periods),
	}
	if len(periods) > 0 {
		sorted := cycle.SortByStart(periods)
		last := sorted[len(sorted)-1].StartDate
		in.LastPeriodStart = &last
	}
	if next := in.Prediction.NextPeriodStart; next != nil {
		days := next.DaysSince(s.today())
		in.DaysUntilNext = &days
	}
	return in, nil
}

// SuggestedEnd is the default end date offered for a period starting on
// start.
func SuggestedEnd(start cycle.Date) cycle.Date {
	return start.AddDays(SuggestedPeriodDays)
}

func checkRange(start cycle.Date, end *cycle.Date) error {
	if end != nil && end.Before(start) {
		return &cycle.ValidationError{Field: "end_date", Value: end.String(), Reason: "before start_date " + start.String()}
	}
	return nil
}
