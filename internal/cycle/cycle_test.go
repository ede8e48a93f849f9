package cycle

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func periodsStarting(t *testing.T, starts ...string) []PeriodRecord {
	t.Helper()
	periods := make([]PeriodRecord, 0, len(starts))
	for i, s := range starts {
		periods = append(periods, PeriodRecord{
			ID:            string(rune('a' + i)),
			StartDate:     mustDate(t, s),
			FlowIntensity: FlowMedium,
		})
	}
	return periods
}

func strPtr(s string) *string { return &s }

// ============================================================
// Date
// ============================================================

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-07-11")
	if err != nil {
		t.Fatal(err)
	}
	if d.Year() != 2025 || d.Month() != time.July || d.Day() != 11 {
		t.Fatalf("got %v", d)
	}
	if d.String() != "2025-07-11" {
		t.Fatalf("String() = %q", d.String())
	}
}

func TestParseDateMalformed(t *testing.T) {
	for _, in := range []string{"", "2025-13-01", "2025-02-30", "11/07/2025", "2025-7-1"} {
		_, err := ParseDate(in)
		if !IsValidation(err) {
			t.Errorf("ParseDate(%q) err = %v, want ValidationError", in, err)
		}
	}
}

func TestMakeDate(t *testing.T) {
	d, err := MakeDate(2024, 2, 29)
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("got %s", d)
	}
	if _, err := MakeDate(2025, 2, 29); !IsValidation(err) {
		t.Fatalf("2025-02-29 should be rejected, got %v", err)
	}
	if _, err := MakeDate(2025, 0, 1); !IsValidation(err) {
		t.Fatalf("month 0 should be rejected, got %v", err)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := mustDate(t, "2024-12-30")
	if got := d.AddDays(3).String(); got != "2025-01-02" {
		t.Fatalf("AddDays(3) = %s", got)
	}
	if got := mustDate(t, "2025-03-01").DaysSince(mustDate(t, "2025-02-01")); got != 28 {
		t.Fatalf("DaysSince = %d, want 28", got)
	}
	if !d.Within(d, d) {
		t.Fatal("a day lies within a one-day range")
	}
	if d.Within(d.AddDays(1), d.AddDays(2)) {
		t.Fatal("day before range should not be within")
	}
}

func TestDateOfIgnoresClock(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	got := DateOf(time.Date(2025, 5, 1, 23, 59, 0, 0, loc))
	if got.String() != "2025-05-01" {
		t.Fatalf("DateOf = %s", got)
	}
}

func TestDateJSON(t *testing.T) {
	type wrap struct {
		D *Date `json:"d"`
	}
	data, err := json.Marshal(wrap{D: datePtr(mustDate(t, "2025-08-09"))})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"d":"2025-08-09"}` {
		t.Fatalf("got %s", data)
	}
	data, _ = json.Marshal(wrap{})
	if string(data) != `{"d":null}` {
		t.Fatalf("absent date should be null, got %s", data)
	}

	var w wrap
	if err := json.Unmarshal([]byte(`{"d":"2025-02-31"}`), &w); err == nil {
		t.Fatal("expected error for impossible date")
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2025, time.February, 28},
		{2025, time.April, 30},
		{2025, time.December, 31},
		{1900, time.February, 28},
		{2000, time.February, 29},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

// ============================================================
// Enums and errors
// ============================================================

func TestParseFlow(t *testing.T) {
	f, err := ParseFlow("")
	if err != nil || f != FlowMedium {
		t.Fatalf("empty flow = %q, %v; want medium", f, err)
	}
	for _, want := range FlowIntensities {
		got, err := ParseFlow(string(want))
		if err != nil || got != want {
			t.Fatalf("ParseFlow(%q) = %q, %v", want, got, err)
		}
	}
	if _, err := ParseFlow("spotting"); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidateMonth(2025, 13)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Field != "month" {
		t.Fatalf("field = %q", ve.Field)
	}
	if !strings.Contains(err.Error(), "13") {
		t.Fatalf("message should mention the value: %q", err.Error())
	}
}

func TestValidateMonth(t *testing.T) {
	for _, m := range []int{1, 6, 12} {
		if err := ValidateMonth(2025, m); err != nil {
			t.Errorf("month %d: %v", m, err)
		}
	}
	for _, m := range []int{-1, 0, 13} {
		if err := ValidateMonth(2025, m); !IsValidation(err) {
			t.Errorf("month %d should fail", m)
		}
	}
	for _, y := range []int{0, 10000} {
		if err := ValidateMonth(y, 1); !IsValidation(err) {
			t.Errorf("year %d should fail", y)
		}
	}
}

func TestPeriodPatchApply(t *testing.T) {
	rec := PeriodRecord{ID: "p1", StartDate: mustDate(t, "2025-04-15"), FlowIntensity: FlowMedium}

	if !(PeriodPatch{}).Empty() {
		t.Fatal("zero patch should be empty")
	}
	if got := (PeriodPatch{}).Apply(rec); got.EndDate != nil || got.FlowIntensity != FlowMedium {
		t.Fatal("empty patch changed the record")
	}

	end := mustDate(t, "2025-04-20")
	heavy := FlowHeavy
	got := PeriodPatch{EndDate: &end, FlowIntensity: &heavy, Notes: strPtr("cramps")}.Apply(rec)
	if got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Fatalf("end date not applied: %v", got.EndDate)
	}
	if got.FlowIntensity != FlowHeavy || got.Notes == nil || *got.Notes != "cramps" {
		t.Fatalf("patch not applied: %+v", got)
	}
	if !got.StartDate.Equal(rec.StartDate) {
		t.Fatal("start date must not change")
	}
}

// ============================================================
// Predict
// ============================================================

func TestPredictTooFewRecords(t *testing.T) {
	for _, periods := range [][]PeriodRecord{nil, {}, periodsStarting(t, "2025-01-01")} {
		p := Predict(periods)
		if p != DefaultPrediction() {
			t.Fatalf("Predict(%d records) = %+v, want default", len(periods), p)
		}
		if p.CycleRegularity != UnknownRegular {
			t.Fatalf("regularity = %q", p.CycleRegularity)
		}
	}
}

func TestPredictNoAcceptedLengths(t *testing.T) {
	p := Predict(periodsStarting(t, "2025-01-01", "2025-01-10", "2025-06-01"))
	if p != DefaultPrediction() {
		t.Fatalf("all gaps outside band should give default, got %+v", p)
	}
}

func TestPredictReferenceHistory(t *testing.T) {
	periods := periodsStarting(t, "2025-06-14", "2025-04-15", "2025-07-11", "2025-05-12")
	p := Predict(periods)

	if p.AverageCycleLength == nil || *p.AverageCycleLength != 29.0 {
		t.Fatalf("average = %v, want 29.0", p.AverageCycleLength)
	}
	if p.CycleRegularity != Regular {
		t.Fatalf("regularity = %q, want Regular (sigma = sqrt(8))", p.CycleRegularity)
	}
	want := map[string]*Date{
		"2025-08-09": p.NextPeriodStart,
		"2025-08-14": p.NextPeriodEnd,
		"2025-07-26": p.NextOvulation,
		"2025-07-21": p.NextFertileStart,
		"2025-07-27": p.NextFertileEnd,
	}
	for s, got := range want {
		if got == nil || got.String() != s {
			t.Errorf("got %v, want %s", got, s)
		}
	}
}

func TestPredictTruncatesMean(t *testing.T) {
	// gaps 28 and 29: mean 28.5, forecast adds 28 days
	p := Predict(periodsStarting(t, "2025-01-01", "2025-01-29", "2025-02-27"))
	if *p.AverageCycleLength != 28.5 {
		t.Fatalf("average = %v", *p.AverageCycleLength)
	}
	if p.NextPeriodStart.String() != "2025-03-27" {
		t.Fatalf("next start = %s, want 2025-03-27", p.NextPeriodStart)
	}
	if p.CycleRegularity != NotEnoughData {
		t.Fatalf("two lengths should be %q, got %q", NotEnoughData, p.CycleRegularity)
	}
}

func TestPredictRoundsAverageToOneDecimal(t *testing.T) {
	// gaps 28, 28, 29: mean 28.333...
	p := Predict(periodsStarting(t, "2025-01-01", "2025-01-29", "2025-02-26", "2025-03-27"))
	if *p.AverageCycleLength != 28.3 {
		t.Fatalf("average = %v, want 28.3", *p.AverageCycleLength)
	}
}

func TestPredictOutlierIgnored(t *testing.T) {
	regular := periodsStarting(t, "2024-01-01", "2024-01-29", "2024-02-26", "2024-03-25")
	base := Predict(regular)

	// a 200-day gap before the history starts
	withGap := append(periodsStarting(t, "2023-06-15"), regular...)
	got := Predict(withGap)
	if *got.AverageCycleLength != *base.AverageCycleLength || got.CycleRegularity != base.CycleRegularity {
		t.Fatalf("outlier changed statistics: %+v vs %+v", got, base)
	}
	if !got.NextPeriodStart.Equal(*base.NextPeriodStart) {
		t.Fatalf("outlier changed forecast: %s vs %s", got.NextPeriodStart, base.NextPeriodStart)
	}
}

func TestPredictBandIsInclusive(t *testing.T) {
	lengths := CycleLengths(periodsStarting(t, "2025-01-01", "2025-01-16", "2025-03-02", "2025-03-16", "2025-05-01"))
	want := []int{15, 45}
	if len(lengths) != len(want) {
		t.Fatalf("lengths = %v, want %v", lengths, want)
	}
	for i := range want {
		if lengths[i] != want[i] {
			t.Fatalf("lengths = %v, want %v", lengths, want)
		}
	}
}

func TestPredictRegularityBands(t *testing.T) {
	tests := []struct {
		name   string
		starts []string
		want   Regularity
	}{
		// gaps 28, 28, 28: sigma 0
		{"regular", []string{"2025-01-01", "2025-01-29", "2025-02-26", "2025-03-26"}, Regular},
		// gaps 22, 34, 22, 34: sigma 6
		{"somewhat", []string{"2025-01-01", "2025-01-23", "2025-02-26", "2025-03-20", "2025-04-23"}, SomewhatRegular},
		// gaps 16, 40, 16, 40: sigma 12
		{"irregular", []string{"2025-01-01", "2025-01-17", "2025-02-26", "2025-03-14", "2025-04-23"}, Irregular},
		// gaps 20, 40: only two samples
		{"not enough", []string{"2025-01-01", "2025-01-21", "2025-03-02"}, NotEnoughData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Predict(periodsStarting(t, tt.starts...)).CycleRegularity
			if got != tt.want {
				t.Fatalf("regularity = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPredictRegularityBoundaries(t *testing.T) {
	if classifyRegularity(3.0) != Regular {
		t.Fatal("sigma 3 is Regular")
	}
	if classifyRegularity(3.0001) != SomewhatRegular {
		t.Fatal("sigma just over 3 is Somewhat Regular")
	}
	if classifyRegularity(7.0) != SomewhatRegular {
		t.Fatal("sigma 7 is Somewhat Regular")
	}
	if classifyRegularity(7.0001) != Irregular {
		t.Fatal("sigma just over 7 is Irregular")
	}
}

func TestPredictWindowInvariants(t *testing.T) {
	histories := [][]string{
		{"2025-01-01", "2025-01-29"},
		{"2024-11-20", "2024-12-31", "2025-01-17"},
		{"2025-04-15", "2025-05-12", "2025-06-14", "2025-07-11"},
	}
	for _, h := range histories {
		p := Predict(periodsStarting(t, h...))
		if p.NextPeriodStart == nil {
			t.Fatalf("%v: expected a forecast", h)
		}
		if p.NextPeriodEnd.DaysSince(*p.NextPeriodStart) != PeriodLength {
			t.Errorf("%v: period window not %d days", h, PeriodLength)
		}
		if p.NextPeriodStart.DaysSince(*p.NextOvulation) != LutealPhaseLength {
			t.Errorf("%v: ovulation not %d days before start", h, LutealPhaseLength)
		}
		if p.NextOvulation.DaysSince(*p.NextFertileStart) != FertileLeadDays ||
			p.NextFertileEnd.DaysSince(*p.NextOvulation) != FertileTailDays {
			t.Errorf("%v: fertile window misplaced", h)
		}
	}
}

func TestPredictDoesNotReorderInput(t *testing.T) {
	periods := periodsStarting(t, "2025-03-01", "2025-01-01", "2025-02-01")
	Predict(periods)
	if periods[0].StartDate.String() != "2025-03-01" {
		t.Fatal("Predict must not sort the caller's slice")
	}
}

// ============================================================
// Classify
// ============================================================

func referencePrediction(t *testing.T) CyclePrediction {
	t.Helper()
	return Predict(periodsStarting(t, "2025-04-15", "2025-05-12", "2025-06-14", "2025-07-11"))
}

func TestClassifyPrecedence(t *testing.T) {
	periods := periodsStarting(t, "2025-04-15", "2025-05-12", "2025-06-14", "2025-07-11")
	p := Predict(periods)

	tests := []struct {
		day  string
		want Phase
	}{
		{"2025-07-11", PhaseMenstrual}, // recorded start
		{"2025-07-16", PhaseMenstrual}, // open record, start+5
		{"2025-07-17", PhaseLuteal},    // past open coverage
		{"2025-07-20", PhaseLuteal},    // day before fertile window
		{"2025-07-21", PhaseFollicular},
		{"2025-07-26", PhaseOvulation},
		{"2025-07-27", PhaseFollicular},
		{"2025-07-28", PhaseLuteal},
		{"2025-08-09", PhaseMenstrual}, // predicted start
		{"2025-08-14", PhaseMenstrual}, // predicted end
		{"2025-08-15", PhaseLuteal},
	}
	for _, tt := range tests {
		if got := Classify(mustDate(t, tt.day), periods, p); got != tt.want {
			t.Errorf("Classify(%s) = %q, want %q", tt.day, got, tt.want)
		}
	}
}

func TestClassifyRecordedEndDate(t *testing.T) {
	end := mustDate(t, "2025-03-03")
	periods := []PeriodRecord{{StartDate: mustDate(t, "2025-03-01"), EndDate: &end}}
	p := DefaultPrediction()

	if Classify(mustDate(t, "2025-03-03"), periods, p) != PhaseMenstrual {
		t.Fatal("end date is inclusive")
	}
	if Classify(mustDate(t, "2025-03-04"), periods, p) != PhaseLuteal {
		t.Fatal("explicit end date overrides the open-period default")
	}
}

func TestClassifyRecordedBeatsOvulation(t *testing.T) {
	p := referencePrediction(t)
	periods := periodsStarting(t, "2025-07-24")
	if got := Classify(*p.NextOvulation, periods, p); got != PhaseMenstrual {
		t.Fatalf("recorded period should win over ovulation, got %q", got)
	}
}

func TestClassifyDefaultPrediction(t *testing.T) {
	if got := Classify(mustDate(t, "2025-01-15"), nil, DefaultPrediction()); got != PhaseLuteal {
		t.Fatalf("empty history should fall back to luteal, got %q", got)
	}
}

func TestCoveringPeriodInsertionOrder(t *testing.T) {
	end := mustDate(t, "2025-03-10")
	periods := []PeriodRecord{
		{ID: "second", StartDate: mustDate(t, "2025-03-02"), FlowIntensity: FlowLight},
		{ID: "first", StartDate: mustDate(t, "2025-03-01"), EndDate: &end, FlowIntensity: FlowHeavy},
	}
	rec, ok := CoveringPeriod(mustDate(t, "2025-03-03"), periods)
	if !ok || rec.ID != "second" {
		t.Fatalf("got %q, want the first record in slice order", rec.ID)
	}
}

// ============================================================
// BuildCalendar
// ============================================================

func TestBuildCalendarDayCounts(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2024, 2, 29},
		{2025, 2, 28},
		{2025, 4, 30},
		{2025, 12, 31},
		{2025, 1, 31},
	}
	for _, tt := range tests {
		days, err := BuildCalendar(tt.year, tt.month, nil, DefaultPrediction())
		if err != nil {
			t.Fatal(err)
		}
		if len(days) != tt.want {
			t.Errorf("%d-%02d: %d days, want %d", tt.year, tt.month, len(days), tt.want)
		}
	}
}

func TestBuildCalendarInvalidMonth(t *testing.T) {
	for _, m := range []int{0, 13, -4} {
		_, err := BuildCalendar(2025, m, nil, DefaultPrediction())
		if !IsValidation(err) {
			t.Errorf("month %d: err = %v, want ValidationError", m, err)
		}
	}
	if _, err := BuildCalendar(10000, 1, nil, DefaultPrediction()); !IsValidation(err) {
		t.Errorf("year 10000 should be rejected, got %v", err)
	}
}

func TestBuildCalendarEmptyHistory(t *testing.T) {
	days, err := BuildCalendar(2025, 2, nil, DefaultPrediction())
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range days {
		if d.IsPeriod || d.IsPredictedPeriod || d.IsOvulation || d.IsFertile {
			t.Fatalf("%s: no flags expected", d.Date)
		}
		if d.FlowIntensity != nil || d.Notes != nil {
			t.Fatalf("%s: no flow or notes expected", d.Date)
		}
		if d.Phase != PhaseLuteal {
			t.Fatalf("%s: phase = %q", d.Date, d.Phase)
		}
	}
}

func TestBuildCalendarOrderedAndContiguous(t *testing.T) {
	days, _ := BuildCalendar(2024, 12, nil, DefaultPrediction())
	if days[0].Date.String() != "2024-12-01" || days[len(days)-1].Date.String() != "2024-12-31" {
		t.Fatalf("range = %s..%s", days[0].Date, days[len(days)-1].Date)
	}
	for i := 1; i < len(days); i++ {
		if days[i].Date.DaysSince(days[i-1].Date) != 1 {
			t.Fatalf("gap between %s and %s", days[i-1].Date, days[i].Date)
		}
	}
}

func TestBuildCalendarFlags(t *testing.T) {
	periods := periodsStarting(t, "2025-04-15", "2025-05-12", "2025-06-14", "2025-07-11")
	periods[3].FlowIntensity = FlowHeavy
	periods[3].Notes = strPtr("summer")
	p := Predict(periods)

	july, err := BuildCalendar(2025, 7, periods, p)
	if err != nil {
		t.Fatal(err)
	}
	byDay := func(days []DayInfo, d int) DayInfo { return days[d-1] }

	d11 := byDay(july, 11)
	if !d11.IsPeriod || d11.FlowIntensity == nil || *d11.FlowIntensity != FlowHeavy {
		t.Fatalf("July 11 should be a heavy period day: %+v", d11)
	}
	if d11.Notes == nil || *d11.Notes != "summer" {
		t.Fatalf("notes not copied: %+v", d11.Notes)
	}
	if byDay(july, 17).IsPeriod {
		t.Fatal("July 17 is past the open-period coverage")
	}
	if !byDay(july, 26).IsOvulation || !byDay(july, 26).IsFertile {
		t.Fatal("July 26 is ovulation and inside the fertile window")
	}
	if byDay(july, 26).Phase != PhaseOvulation {
		t.Fatalf("July 26 phase = %q", byDay(july, 26).Phase)
	}
	if !byDay(july, 21).IsFertile || byDay(july, 20).IsFertile {
		t.Fatal("fertile window should open on July 21")
	}

	aug, _ := BuildCalendar(2025, 8, periods, p)
	for d := 9; d <= 14; d++ {
		if !byDay(aug, d).IsPredictedPeriod {
			t.Fatalf("Aug %d should be predicted period", d)
		}
		if byDay(aug, d).IsPeriod {
			t.Fatalf("Aug %d has no recorded period", d)
		}
	}
	if byDay(aug, 15).IsPredictedPeriod {
		t.Fatal("Aug 15 is after the predicted period")
	}
}

func TestBuildCalendarActualAndPredictedOverlap(t *testing.T) {
	periods := periodsStarting(t, "2025-04-15", "2025-05-12", "2025-06-14", "2025-07-11")
	p := Predict(periods)
	periods = append(periods, PeriodRecord{StartDate: mustDate(t, "2025-08-10"), FlowIntensity: FlowLight})

	aug, _ := BuildCalendar(2025, 8, periods, p)
	d := aug[9] // Aug 10
	if !d.IsPeriod || !d.IsPredictedPeriod {
		t.Fatalf("both flags should be set: %+v", d)
	}
}

func TestBuildCalendarDecemberRollover(t *testing.T) {
	periods := periodsStarting(t, "2025-12-30")
	dec, _ := BuildCalendar(2025, 12, periods, DefaultPrediction())
	if !dec[30].IsPeriod {
		t.Fatal("Dec 31 should be covered")
	}
	jan, _ := BuildCalendar(2026, 1, periods, DefaultPrediction())
	if !jan[3].IsPeriod || jan[4].IsPeriod {
		t.Fatal("open period starting Dec 30 should cover through Jan 4")
	}
}

func TestDayInfoJSONFieldNames(t *testing.T) {
	days, _ := BuildCalendar(2025, 2, nil, DefaultPrediction())
	data, err := json.Marshal(days[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"date":"2025-02-01"`, `"phase":"luteal"`, `"is_period":false`,
		`"is_predicted_period":false`, `"is_ovulation":false`, `"is_fertile":false`,
		`"flow_intensity":null`, `"notes":null`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("missing %s in %s", field, data)
		}
	}
}

func TestCyclePredictionJSONDefault(t *testing.T) {
	data, _ := json.Marshal(DefaultPrediction())
	want := `{"next_period_start":null,"next_period_end":null,"next_ovulation":null,` +
		`"next_fertile_start":null,"next_fertile_end":null,"average_cycle_length":null,` +
		`"cycle_regularity":"Unknown"}`
	if string(data) != want {
		t.Fatalf("got %s", data)
	}
}
