package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/cyclr/internal/cycle"
	"github.com/sadopc/cyclr/internal/store"
	"github.com/sadopc/cyclr/internal/tracker"
)

type periodsModel struct {
	svc    *tracker.Service
	store  *store.Store
	width  int
	height int

	periods     []cycle.PeriodRecord
	cursor      int
	defaultFlow cycle.FlowIntensity

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "delete"

	// Form field pointers (survive value copies)
	formStart   *string
	formEnd     *string
	formFlow    *string
	formNotes   *string
	formConfirm *bool

	editingID string
}

func newPeriodsModel(svc *tracker.Service, s *store.Store) periodsModel {
	start, end, flow, notes := "", "", string(cycle.FlowMedium), ""
	confirm := false
	return periodsModel{
		svc:         svc,
		store:       s,
		defaultFlow: cycle.FlowMedium,
		formStart:   &start,
		formEnd:     &end,
		formFlow:    &flow,
		formNotes:   &notes,
		formConfirm: &confirm,
	}
}

func (p *periodsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p periodsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		periods, err := p.svc.PeriodsByStart()
		flow, _ := cycle.ParseFlow(p.store.GetSettingOr(store.SettingDefaultFlow, string(cycle.FlowMedium)))
		if flow == "" {
			flow = cycle.FlowMedium
		}
		return periodsDataMsg{periods: periods, defaultFlow: flow, err: err}
	}
}

func (p periodsModel) selected() (cycle.PeriodRecord, bool) {
	if p.cursor < 0 || p.cursor >= len(p.periods) {
		return cycle.PeriodRecord{}, false
	}
	return p.periods[p.cursor], true
}

func (p periodsModel) update(msg tea.Msg) (periodsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case periodsDataMsg:
		if msg.err != nil {
			return p, func() tea.Msg { return errorStatus("Load periods", msg.err) }
		}
		p.periods = msg.periods
		p.defaultFlow = msg.defaultFlow
		if p.cursor >= len(p.periods) {
			p.cursor = max(0, len(p.periods)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.periods)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.New):
			return p.showNewForm()
		case key.Matches(msg, keys.QuickAdd):
			return p, p.quickAdd()
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			if rec, ok := p.selected(); ok {
				return p.showEditForm(rec)
			}
		case key.Matches(msg, keys.Delete):
			if rec, ok := p.selected(); ok {
				return p.showDeleteForm(rec)
			}
		}
	}
	return p, nil
}

func (p periodsModel) flowOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(cycle.FlowIntensities))
	for i, f := range cycle.FlowIntensities {
		opts[i] = huh.NewOption(titleCase(string(f)), string(f))
	}
	return opts
}

func (p periodsModel) showNewForm() (periodsModel, tea.Cmd) {
	today := cycle.Today()
	*p.formStart = today.String()
	*p.formEnd = ""
	*p.formFlow = string(p.defaultFlow)
	*p.formNotes = ""
	p.formType = "new"

	startPtr := p.formStart
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Start date").
				Placeholder("YYYY-MM-DD").
				Validate(validateDate(false)).
				Value(p.formStart),
			huh.NewInput().Title("End date").
				DescriptionFunc(func() string {
					if start, err := cycle.ParseDate(strings.TrimSpace(*startPtr)); err == nil {
						return "Leave empty while ongoing. Typical end: " + tracker.SuggestedEnd(start).String()
					}
					return "Leave empty while ongoing"
				}, startPtr).
				Placeholder("YYYY-MM-DD").
				Validate(p.validateEnd).
				Value(p.formEnd),
			huh.NewSelect[string]().Title("Flow").Options(p.flowOptions()...).Value(p.formFlow),
			huh.NewText().Title("Notes").CharLimit(500).Value(p.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p periodsModel) showEditForm(rec cycle.PeriodRecord) (periodsModel, tea.Cmd) {
	*p.formStart = rec.StartDate.String()
	*p.formEnd = ""
	if rec.EndDate != nil {
		*p.formEnd = rec.EndDate.String()
	}
	*p.formFlow = string(rec.FlowIntensity)
	*p.formNotes = ""
	if rec.Notes != nil {
		*p.formNotes = *rec.Notes
	}
	p.formType = "edit"
	p.editingID = rec.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Started " + rec.StartDate.String()),
			huh.NewInput().Title("End date").
				Placeholder(tracker.SuggestedEnd(rec.StartDate).String()).
				Validate(p.validateEnd).
				Value(p.formEnd),
			huh.NewSelect[string]().Title("Flow").Options(p.flowOptions()...).Value(p.formFlow),
			huh.NewText().Title("Notes").CharLimit(500).Value(p.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p periodsModel) showDeleteForm(rec cycle.PeriodRecord) (periodsModel, tea.Cmd) {
	*p.formConfirm = false
	p.formType = "delete"
	p.editingID = rec.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete the period starting %s?", rec.StartDate)).
				Affirmative("Delete").
				Negative("Keep").
				Value(p.formConfirm),
		),
	).WithShowHelp(true)

	p.formActive = true
	return p, p.form.Init()
}

// validateEnd checks the end date field against the start date field.
func (p periodsModel) validateEnd(s string) error {
	if err := validateDate(true)(s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	end, _ := cycle.ParseDate(s)
	if start, err := cycle.ParseDate(strings.TrimSpace(*p.formStart)); err == nil && end.Before(start) {
		return fmt.Errorf("end date is before the start date")
	}
	return nil
}

func (p periodsModel) updateForm(msg tea.Msg) (periodsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		switch p.formType {
		case "new":
			return p, p.create(p.formInput())
		case "edit":
			return p, p.save(p.editingID, p.formPatch())
		case "delete":
			if *p.formConfirm {
				return p, p.remove(p.editingID)
			}
		}
		return p, nil
	}

	return p, cmd
}

func (p periodsModel) formInput() cycle.PeriodInput {
	start, _ := cycle.ParseDate(strings.TrimSpace(*p.formStart))
	in := cycle.PeriodInput{
		StartDate:     start,
		FlowIntensity: cycle.FlowIntensity(*p.formFlow),
	}
	if end, err := cycle.ParseDate(strings.TrimSpace(*p.formEnd)); err == nil {
		in.EndDate = &end
	}
	if notes := strings.TrimSpace(*p.formNotes); notes != "" {
		in.Notes = &notes
	}
	return in
}

// formPatch never clears an end date; an empty field leaves it unchanged.
func (p periodsModel) formPatch() cycle.PeriodPatch {
	flow := cycle.FlowIntensity(*p.formFlow)
	notes := strings.TrimSpace(*p.formNotes)
	patch := cycle.PeriodPatch{FlowIntensity: &flow, Notes: &notes}
	if end, err := cycle.ParseDate(strings.TrimSpace(*p.formEnd)); err == nil {
		patch.EndDate = &end
	}
	return patch
}

func (p periodsModel) create(in cycle.PeriodInput) tea.Cmd {
	return func() tea.Msg {
		rec, err := p.svc.AddPeriod(in)
		if err != nil {
			return errorStatus("Add period", err)
		}
		return periodsChangedMsg{text: "Logged period starting " + rec.StartDate.String()}
	}
}

func (p periodsModel) quickAdd() tea.Cmd {
	flow := p.defaultFlow
	return func() tea.Msg {
		rec, err := p.svc.QuickAdd(flow)
		if err != nil {
			return errorStatus("Quick add", err)
		}
		return periodsChangedMsg{text: fmt.Sprintf("Logged %s period starting today (%s)", rec.FlowIntensity, rec.StartDate)}
	}
}

func (p periodsModel) save(id string, patch cycle.PeriodPatch) tea.Cmd {
	return func() tea.Msg {
		if _, err := p.svc.UpdatePeriod(id, patch); err != nil {
			return errorStatus("Update period", err)
		}
		return periodsChangedMsg{text: "Period updated"}
	}
}

func (p periodsModel) remove(id string) tea.Cmd {
	return func() tea.Msg {
		if err := p.svc.DeletePeriod(id); err != nil {
			return errorStatus("Delete period", err)
		}
		return periodsChangedMsg{text: "Period deleted"}
	}
}

func (p periodsModel) view() string {
	w := p.width - 4
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Period")
		switch p.formType {
		case "edit":
			title = titleStyle.Render("Edit Period")
		case "delete":
			title = titleStyle.Render("Delete Period")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Periods")
	if len(p.periods) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No periods logged yet. Press n to add one or a to start one today."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-12s %-6s %-8s %s", "Start", "End", "Days", "Flow", "Notes")))

	for i, rec := range p.periods {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		end, days := "ongoing", "—"
		if rec.EndDate != nil {
			end = rec.EndDate.String()
			days = fmt.Sprint(rec.EndDate.DaysSince(rec.StartDate) + 1)
		}
		notes := ""
		if rec.Notes != nil {
			notes = *rec.Notes
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-12s %-12s %-6s %-8s", cursor, rec.StartDate, end, days, rec.FlowIntensity))+
			mutedStyle.Render(" "+notes))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  a: quick add  e: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
