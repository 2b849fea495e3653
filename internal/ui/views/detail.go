package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/drt/internal/api"
	"github.com/tgienger/drt/internal/models"
	"github.com/tgienger/drt/internal/ui/keys"
	"github.com/tgienger/drt/internal/ui/styles"
	"github.com/tgienger/drt/internal/viewmodels"
)

// FocusArea is the section of the detail page that receives n/d/enter
type FocusArea int

const (
	FocusInfo FocusArea = iota
	FocusNotes
	FocusEvents
)

const collapsedDescriptionLines = 6

// PositionDetailView shows one position with its notes and events
type PositionDetailView struct {
	ctx    context.Context
	api    api.Provider
	styles *styles.Styles
	keys   keys.KeyMap
	loc    *time.Location

	width  int
	height int

	id     int64
	state  viewmodels.LoadState
	detail viewmodels.PositionDetail

	focus       FocusArea
	noteCursor  int
	eventCursor int
	expanded    bool

	choosingStatus bool
	statusCursor   int
	fetching       bool

	// note or event creation
	form     *form
	formKind string

	confirmingDelete bool
	deleteKind       string
	deleteTargetID   int64
	deleteTargetName string

	viewingEvent *models.InterviewEvent

	showHelpPopup bool
}

func NewPositionDetailView(ctx context.Context, provider api.Provider, id int64) *PositionDetailView {
	return &PositionDetailView{
		ctx:    ctx,
		api:    provider,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		loc:    time.Local,
		id:     id,
		focus:  FocusNotes,
	}
}

type detailLoadedMsg struct {
	id     int64
	gen    uint64
	detail viewmodels.PositionDetail
	err    error
}

// positionSavedMsg reports a PUT of the shown position
type positionSavedMsg struct {
	positionID int64
	action     string
	notice     string
	err        error
}

// detailMutatedMsg reports a note or event create/delete
type detailMutatedMsg struct {
	positionID int64
	action     string
	err        error
}

func (v *PositionDetailView) Init() tea.Cmd {
	return v.load()
}

func (v *PositionDetailView) load() tea.Cmd {
	v.state = v.state.Begin()
	gen := v.state.Gen
	ctx, provider, id := v.ctx, v.api, v.id
	return func() tea.Msg {
		detail, err := viewmodels.LoadPositionDetail(ctx, provider, id)
		return detailLoadedMsg{id: id, gen: gen, detail: detail, err: err}
	}
}

// PositionID is the id of the position shown
func (v *PositionDetailView) PositionID() int64 {
	return v.id
}

func (v *PositionDetailView) CapturingInput() bool {
	return v.form != nil || v.choosingStatus || v.confirmingDelete ||
		v.showHelpPopup || v.viewingEvent != nil
}

func (v *PositionDetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		if v.form != nil {
			v.form.SetWidth(clamp(styles.ContentWidth(v.width)-10, 20, 60))
		}
		return v, nil

	case detailLoadedMsg:
		if msg.id != v.id {
			return v, nil
		}
		next, ok := v.state.Finish(msg.gen, msg.err)
		if !ok {
			return v, nil
		}
		v.state = next
		if msg.err != nil {
			return v, tea.Batch(
				failed("load position", msg.err),
				func() tea.Msg { return BackToPositions{} },
			)
		}
		v.detail = msg.detail
		v.noteCursor = clamp(v.noteCursor, 0, max(0, len(v.detail.Notes)-1))
		v.eventCursor = clamp(v.eventCursor, 0, max(0, len(v.detail.Events)-1))
		return v, nil

	case positionSavedMsg:
		if msg.positionID != v.id {
			return v, nil
		}
		v.fetching = false
		if msg.err != nil {
			return v, failed(msg.action, msg.err)
		}
		// reload instead of showing the PUT response
		if msg.notice != "" {
			return v, tea.Batch(v.load(), notify(msg.notice, ""))
		}
		return v, v.load()

	case detailMutatedMsg:
		if msg.positionID != v.id {
			return v, nil
		}
		if msg.err != nil {
			if v.form != nil {
				v.form.busy = ""
			}
			return v, failed(msg.action, msg.err)
		}
		v.form = nil
		return v, v.load()

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.form != nil {
			return v.updateForm(msg)
		}
		if v.choosingStatus {
			return v.updateChoosingStatus(msg)
		}
		if v.viewingEvent != nil {
			if key.Matches(msg, v.keys.Back) || key.Matches(msg, v.keys.Enter) {
				v.viewingEvent = nil
			}
			return v, nil
		}
		if !v.state.IsLoaded() {
			if key.Matches(msg, v.keys.Back) {
				return v, func() tea.Msg { return BackToPositions{} }
			}
			return v, nil
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *PositionDetailView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToPositions{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true

	case key.Matches(msg, v.keys.Reload):
		return v, v.load()

	case key.Matches(msg, v.keys.Tab):
		v.focus = (v.focus + 1) % 3

	case key.Matches(msg, v.keys.ShiftTab):
		v.focus = (v.focus + 2) % 3

	case key.Matches(msg, v.keys.Up):
		switch v.focus {
		case FocusNotes:
			if v.noteCursor > 0 {
				v.noteCursor--
			}
		case FocusEvents:
			if v.eventCursor > 0 {
				v.eventCursor--
			}
		}

	case key.Matches(msg, v.keys.Down):
		switch v.focus {
		case FocusNotes:
			if v.noteCursor < len(v.detail.Notes)-1 {
				v.noteCursor++
			}
		case FocusEvents:
			if v.eventCursor < len(v.detail.Events)-1 {
				v.eventCursor++
			}
		}

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusInfo:
			v.expanded = !v.expanded
		case FocusEvents:
			if v.eventCursor < len(v.detail.Events) {
				e := v.detail.Events[v.eventCursor]
				v.viewingEvent = &e
			}
		}

	case key.Matches(msg, v.keys.Status):
		v.choosingStatus = true
		v.statusCursor = 0
		for i, s := range models.Statuses {
			if s == v.detail.Position.CurrentStatus {
				v.statusCursor = i
			}
		}

	case key.Matches(msg, v.keys.FetchJD):
		return v, v.fetchJD()

	case key.Matches(msg, v.keys.New):
		if v.focus == FocusEvents {
			return v, v.startEventForm()
		}
		return v, v.startNoteForm()

	case key.Matches(msg, v.keys.Delete):
		switch v.focus {
		case FocusNotes:
			if v.noteCursor < len(v.detail.Notes) {
				n := v.detail.Notes[v.noteCursor]
				v.confirmingDelete = true
				v.deleteKind = "note"
				v.deleteTargetID = n.ID
				v.deleteTargetName = n.Title
			}
		case FocusEvents:
			if v.eventCursor < len(v.detail.Events) {
				e := v.detail.Events[v.eventCursor]
				v.confirmingDelete = true
				v.deleteKind = "event"
				v.deleteTargetID = e.ID
				v.deleteTargetName = e.Title
			}
		}
	}
	return v, nil
}

func (v *PositionDetailView) fetchJD() tea.Cmd {
	if v.fetching {
		return nil
	}
	link, err := viewmodels.PositionJDLink(v.detail.Position)
	if err != nil {
		return func() tea.Msg {
			return Alert{Title: "Please add a recruiting link first", Error: true}
		}
	}
	v.fetching = true
	ctx, provider, id, pos := v.ctx, v.api, v.id, v.detail.Position
	return func() tea.Msg {
		const action = "fetch job description"
		info, err := provider.FetchJD(ctx, link)
		if err != nil {
			return positionSavedMsg{positionID: id, action: action, err: err}
		}
		_, err = provider.UpdatePosition(ctx, id, viewmodels.ApplyJobInfoToPosition(pos, *info))
		return positionSavedMsg{positionID: id, action: action, err: err,
			notice: "Job description fetched successfully"}
	}
}

func (v *PositionDetailView) updateChoosingStatus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.choosingStatus = false
	case key.Matches(msg, v.keys.Up):
		if v.statusCursor > 0 {
			v.statusCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.statusCursor < len(models.Statuses)-1 {
			v.statusCursor++
		}
	case key.Matches(msg, v.keys.Enter):
		v.choosingStatus = false
		updated := viewmodels.WithStatus(v.detail.Position, models.Statuses[v.statusCursor])
		ctx, provider, id := v.ctx, v.api, v.id
		return v, func() tea.Msg {
			_, err := provider.UpdatePosition(ctx, id, updated)
			return positionSavedMsg{positionID: id, action: "update status", err: err}
		}
	}
	return v, nil
}

func (v *PositionDetailView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch confirmKey(msg) {
	case "yes":
		v.confirmingDelete = false
		ctx, provider, id, target, kind := v.ctx, v.api, v.id, v.deleteTargetID, v.deleteKind
		return v, func() tea.Msg {
			var err error
			if kind == "event" {
				err = provider.DeleteEvent(ctx, target)
			} else {
				err = provider.DeleteNote(ctx, target)
			}
			return detailMutatedMsg{positionID: id, action: "delete " + kind, err: err}
		}
	case "no":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *PositionDetailView) startNoteForm() tea.Cmd {
	defaults := viewmodels.NewNoteForm()
	f := newForm("New Note", "Add Note")
	values := make([]string, len(models.ProcessTypes))
	labels := make([]string, len(models.ProcessTypes))
	for i, pt := range models.ProcessTypes {
		values[i] = string(pt)
		labels[i] = pt.Label()
	}
	f.addChoice("type", "Stage", values, labels, string(defaults.ProcessType))
	f.addText("title", "Title", "Note title", 200)
	f.addArea("content", "Content", "What happened?", 10000, 6)
	f.SetWidth(clamp(styles.ContentWidth(v.width)-10, 20, 60))

	v.form = f
	v.formKind = "note"
	v.focus = FocusNotes
	return f.Start()
}

func (v *PositionDetailView) startEventForm() tea.Cmd {
	defaults := viewmodels.NewEventForm()
	f := newForm("New Event", "Add Event")
	values := make([]string, len(models.EventTypes))
	labels := make([]string, len(models.EventTypes))
	for i, et := range models.EventTypes {
		values[i] = string(et)
		labels[i] = et.Label()
	}
	f.addChoice("type", "Type", values, labels, string(defaults.EventType))
	f.addText("title", "Title", "Event title", 200)
	f.addArea("description", "Description", "Optional", 5000, 3)
	f.addText("start", "Start ("+viewmodels.StartLayout+")", time.Now().Format(viewmodels.StartLayout), 16)
	f.addText("duration", "Duration (minutes)", "60", 5)
	f.addChoice("meeting", "Meeting",
		[]string{string(models.MeetingOnSite), string(models.MeetingRemote)},
		[]string{models.MeetingOnSite.Label(), models.MeetingRemote.Label()},
		string(defaults.MeetingType))
	loc := f.addText("location", "Location", "Office address", 300)
	loc.visible = func(f *form) bool { return f.Value("meeting") != string(models.MeetingRemote) }
	link := f.addText("link", "Meeting link", "https://...", 500)
	link.visible = func(f *form) bool { return f.Value("meeting") == string(models.MeetingRemote) }
	f.SetWidth(clamp(styles.ContentWidth(v.width)-10, 20, 60))

	v.form = f
	v.formKind = "event"
	v.focus = FocusEvents
	return f.Start()
}

func (v *PositionDetailView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, v.keys.Back) {
		v.form = nil
		return v, nil
	}
	submitted, cmd := v.form.Update(msg)
	if !submitted {
		return v, cmd
	}

	ctx, provider, id := v.ctx, v.api, v.id
	switch v.formKind {
	case "event":
		e, err := viewmodels.EventForm{
			EventType:   models.EventType(v.form.Value("type")),
			Title:       v.form.Value("title"),
			Description: v.form.Value("description"),
			Start:       v.form.Value("start"),
			Duration:    v.form.Value("duration"),
			MeetingType: models.MeetingType(v.form.Value("meeting")),
			Location:    v.form.Value("location"),
			MeetingLink: v.form.Value("link"),
		}.Event(id, v.loc)
		if err != nil {
			v.form.err = err.Error()
			return v, nil
		}
		v.form.err = ""
		v.form.busy = "Saving..."
		return v, func() tea.Msg {
			_, err := provider.CreateEvent(ctx, e)
			return detailMutatedMsg{positionID: id, action: "create event", err: err}
		}
	default:
		n, err := viewmodels.NoteForm{
			ProcessType: models.ProcessType(v.form.Value("type")),
			Title:       v.form.Value("title"),
			Content:     v.form.Value("content"),
		}.Note(id)
		if err != nil {
			v.form.err = err.Error()
			return v, nil
		}
		v.form.err = ""
		v.form.busy = "Saving..."
		return v, func() tea.Msg {
			_, err := provider.CreateNote(ctx, n)
			return detailMutatedMsg{positionID: id, action: "create note", err: err}
		}
	}
}

func (v *PositionDetailView) View() string {
	s := v.styles
	if v.showHelpPopup {
		return renderHelpPopup(s, v.width, v.height,
			"tab", "switch section",
			"↑↓", "select note / event",
			"↵", "expand description / view event",
			"s", "update status",
			"f", "fetch job description",
			"n", "new note / event",
			"d", "delete note / event",
			"r", "reload",
			"esc", "back to positions",
		)
	}
	if v.confirmingDelete {
		return renderConfirm(s, v.width, v.height, "Delete "+strings.ToUpper(v.deleteKind[:1])+v.deleteKind[1:]+"?",
			fmt.Sprintf("%q will be removed.", v.deleteTargetName))
	}
	if v.form != nil {
		return v.form.View(s, v.width, v.height)
	}
	if v.viewingEvent != nil {
		return renderEventDetail(s, *v.viewingEvent, nil, v.width, v.height)
	}
	if v.choosingStatus {
		return v.renderStatusPicker()
	}
	if !v.state.IsLoaded() {
		return s.TitleMuted.Render("Loading...")
	}

	contentWidth := styles.ContentWidth(v.width)
	textWidth := clamp(contentWidth-8, 20, 90)
	p := v.detail.Position

	header := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, s.Title.Render(p.CompanyName), "  ", s.StatusBadge(p.CurrentStatus)),
		p.PositionTitle,
	)

	meta := []string{}
	if p.Location != "" {
		meta = append(meta, p.Location)
	}
	if p.SalaryRange != "" {
		meta = append(meta, p.SalaryRange)
	}
	meta = append(meta, "Applied "+orDash(p.ApplicationDate.String()))
	metaLine := s.TitleMuted.Render(strings.Join(meta, " • "))
	linkLine := s.TitleMuted.Render("Link: " + orDash(p.RecruitingLink))
	if v.fetching {
		linkLine += "  " + s.TitleMuted.Render("(fetching job description...)")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.TitleMuted.Render("← Positions"),
		"",
		header,
		metaLine,
		linkLine,
		"",
		v.section(FocusInfo, "Job Description", v.renderDescription(textWidth-4), textWidth),
		v.section(FocusNotes, fmt.Sprintf("Notes (%d)", len(v.detail.Notes)), v.renderNotes(textWidth-4), textWidth),
		v.section(FocusEvents, fmt.Sprintf("Events (%d)", len(v.detail.Events)), v.renderEvents(textWidth-4), textWidth),
		renderHelp(s, v.width, "tab", "section", "s", "status", "f", "fetch JD", "n", "new", "d", "del", "esc", "back"),
	)

	padded := lipgloss.NewStyle().Padding(0, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}

func (v *PositionDetailView) section(area FocusArea, title, body string, width int) string {
	style := v.styles.Section
	if v.focus == area {
		style = v.styles.SectionFocus
	}
	return style.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render(title),
		body,
	))
}

func (v *PositionDetailView) renderDescription(width int) string {
	s := v.styles
	desc := strings.TrimSpace(v.detail.Position.JobDescription)
	if desc == "" {
		return s.TitleMuted.Render("No job description. Press 'f' to fetch it from the recruiting link.")
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(desc)
	lines := strings.Split(wrapped, "\n")
	if !v.expanded && len(lines) > collapsedDescriptionLines {
		lines = append(lines[:collapsedDescriptionLines], s.TitleMuted.Render("… press enter to expand"))
	}
	return strings.Join(lines, "\n")
}

func (v *PositionDetailView) renderNotes(width int) string {
	s := v.styles
	if len(v.detail.Notes) == 0 {
		return s.TitleMuted.Render("No notes yet. Press 'n' to add one.")
	}
	rows := make([]string, 0, len(v.detail.Notes)+2)
	for i, n := range v.detail.Notes {
		line := fmt.Sprintf("%-18s %s", n.ProcessType.Label(), truncate(n.Title, width-34))
		if !n.CreatedAt.IsZero() {
			line += "  " + n.CreatedAt.Local().Format("Jan 2, 2006")
		}
		style := s.ListItem
		if i == v.noteCursor && v.focus == FocusNotes {
			style = s.ListSelected
		}
		rows = append(rows, style.Width(width).Render(line))
	}
	if v.focus == FocusNotes && v.noteCursor < len(v.detail.Notes) {
		rows = append(rows, "", lipgloss.NewStyle().Width(width).PaddingLeft(2).
			Render(v.detail.Notes[v.noteCursor].Content))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *PositionDetailView) renderEvents(width int) string {
	s := v.styles
	if len(v.detail.Events) == 0 {
		return s.TitleMuted.Render("No events yet. Press tab then 'n' to schedule one.")
	}
	rows := make([]string, 0, len(v.detail.Events))
	for i, e := range v.detail.Events {
		when := e.StartDatetime.Local().Format("Jan 2 15:04")
		if !e.EndDatetime.IsZero() {
			when += "-" + e.EndDatetime.Local().Format("15:04")
		}
		line := fmt.Sprintf("%s  %s  %s", when,
			s.EventBadge(viewmodels.EventColor(e.EventType), e.EventType.Label()),
			truncate(e.Title, width-44))
		style := s.ListItem
		if i == v.eventCursor && v.focus == FocusEvents {
			style = s.ListSelected
		}
		rows = append(rows, style.Width(width).Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *PositionDetailView) renderStatusPicker() string {
	s := v.styles
	items := []string{s.Title.Render("Update Status"), ""}
	for i, st := range models.Statuses {
		style := s.ListItem
		if i == v.statusCursor {
			style = s.ListSelected
		}
		marker := "  "
		if st == v.detail.Position.CurrentStatus {
			marker = "● "
		}
		items = append(items, style.Render(marker+st.Label()))
	}
	items = append(items, "", s.TitleMuted.Render("↵: set • Esc: cancel"))
	return renderCentered(v.width, v.height, s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, items...)))
}
