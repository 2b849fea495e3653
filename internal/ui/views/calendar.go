package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/drt/internal/api"
	"github.com/tgienger/drt/internal/models"
	"github.com/tgienger/drt/internal/ui/keys"
	"github.com/tgienger/drt/internal/ui/styles"
	"github.com/tgienger/drt/internal/viewmodels"
)

// CalendarView is a week agenda of every interview event
type CalendarView struct {
	ctx    context.Context
	api    api.Provider
	styles *styles.Styles
	keys   keys.KeyMap
	now    func() time.Time

	width  int
	height int

	state viewmodels.LoadState
	cal   viewmodels.Calendar

	// anchor is the selected day; the week shown is the one containing it
	anchor     time.Time
	itemCursor int

	selected      *viewmodels.CalendarItem
	showHelpPopup bool
}

func NewCalendarView(ctx context.Context, provider api.Provider) *CalendarView {
	v := &CalendarView{
		ctx:    ctx,
		api:    provider,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		now:    time.Now,
	}
	v.anchor = v.today()
	return v
}

type calendarLoadedMsg struct {
	gen uint64
	cal viewmodels.Calendar
	err error
}

func (v *CalendarView) today() time.Time {
	y, m, d := v.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func (v *CalendarView) Init() tea.Cmd {
	return v.load()
}

func (v *CalendarView) load() tea.Cmd {
	v.state = v.state.Begin()
	gen := v.state.Gen
	ctx, provider := v.ctx, v.api
	return func() tea.Msg {
		cal, err := viewmodels.LoadCalendar(ctx, provider)
		return calendarLoadedMsg{gen: gen, cal: cal, err: err}
	}
}

func (v *CalendarView) CapturingInput() bool {
	return v.selected != nil || v.showHelpPopup
}

// dayItems returns the items of the selected day
func (v *CalendarView) dayItems() []viewmodels.CalendarItem {
	for _, d := range v.cal.Week(v.anchor) {
		if d.Date.Equal(v.anchor) {
			return d.Items
		}
	}
	return nil
}

func (v *CalendarView) moveDays(n int) {
	v.anchor = v.anchor.AddDate(0, 0, n)
	v.itemCursor = 0
}

func (v *CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case calendarLoadedMsg:
		next, ok := v.state.Finish(msg.gen, msg.err)
		if !ok {
			return v, nil
		}
		v.state = next
		if msg.err != nil {
			log.WithError(msg.err).WithField("action", "load calendar").Error("action failed")
			return v, nil
		}
		v.cal = msg.cal
		v.itemCursor = clamp(v.itemCursor, 0, max(0, len(v.dayItems())-1))
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.selected != nil {
			switch {
			case key.Matches(msg, v.keys.Back):
				v.selected = nil
			case key.Matches(msg, v.keys.Enter):
				id := v.selected.Event.PositionID
				v.selected = nil
				return v, func() tea.Msg { return OpenPosition{ID: id} }
			}
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
		case key.Matches(msg, v.keys.Reload):
			return v, v.load()
		case key.Matches(msg, v.keys.Left):
			v.moveDays(-1)
		case key.Matches(msg, v.keys.Right):
			v.moveDays(1)
		case key.Matches(msg, v.keys.PrevWeek):
			v.moveDays(-7)
		case key.Matches(msg, v.keys.NextWeek):
			v.moveDays(7)
		case key.Matches(msg, v.keys.Today):
			v.anchor = v.today()
			v.itemCursor = 0
		case key.Matches(msg, v.keys.Up):
			if v.itemCursor > 0 {
				v.itemCursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.itemCursor < len(v.dayItems())-1 {
				v.itemCursor++
			}
		case key.Matches(msg, v.keys.Enter):
			items := v.dayItems()
			if v.itemCursor < len(items) {
				item := items[v.itemCursor]
				v.selected = &item
			}
		}
	}
	return v, nil
}

func (v *CalendarView) View() string {
	s := v.styles
	if v.showHelpPopup {
		return renderHelpPopup(s, v.width, v.height,
			"←→", "previous / next day",
			"[ ]", "previous / next week",
			"t", "today",
			"↑↓", "select event",
			"↵", "event details",
			"r", "reload",
		)
	}
	if v.selected != nil {
		var pos *models.Position
		if p, ok := v.cal.PositionOf(*v.selected); ok {
			pos = &p
		}
		return renderEventDetail(s, v.selected.Event, pos, v.width, v.height)
	}
	switch {
	case v.state.IsFailed():
		return renderCentered(v.width, v.height, lipgloss.JoinVertical(lipgloss.Center,
			s.Error.Render("Could not load the calendar"),
			"",
			s.TitleMuted.Render("Press 'r' to try again"),
		))
	case !v.state.IsLoaded():
		return s.TitleMuted.Render("Loading...")
	}

	week := v.cal.Week(v.anchor)
	width := max(styles.ContentWidth(v.width)-8, 30)
	todayDate := v.today()

	rows := []string{
		s.Title.Render(fmt.Sprintf("Calendar · %s – %s",
			week[0].Date.Format("Jan 2"), week[6].Date.Format("Jan 2, 2006"))),
		v.renderLegend(),
		"",
	}
	for _, d := range week {
		label := d.Date.Format("Mon Jan 2")
		if d.Date.Equal(todayDate) {
			label += " (today)"
		}
		selectedDay := d.Date.Equal(v.anchor)
		if selectedDay {
			rows = append(rows, s.ListSelected.Render("▸ "+label))
		} else {
			rows = append(rows, s.TitleMuted.Render("  "+label))
		}
		for i, item := range d.Items {
			line := fmt.Sprintf("%s-%s  %s  %s",
				item.Start.Local().Format("15:04"),
				item.End.Local().Format("15:04"),
				s.EventBadge(item.Color, item.Event.EventType.Label()),
				truncate(v.itemLabel(item), width-40),
			)
			style := s.ListItem
			if selectedDay && i == v.itemCursor {
				style = s.ListSelected
			}
			rows = append(rows, style.PaddingLeft(4).Render(line))
		}
	}
	rows = append(rows, "", renderHelp(s, v.width, "←→", "day", "[ ]", "week", "t", "today", "↵", "details", "?", "help"))

	padded := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return styles.CenterView(padded, v.width, v.height)
}

func (v *CalendarView) itemLabel(item viewmodels.CalendarItem) string {
	if p, ok := v.cal.PositionOf(item); ok {
		return item.Title + " · " + p.CompanyName
	}
	return item.Title
}

func (v *CalendarView) renderLegend() string {
	parts := make([]string, 0, len(viewmodels.Legend()))
	for _, e := range viewmodels.Legend() {
		parts = append(parts, v.styles.EventBadge(e.Color, e.Label))
	}
	return strings.Join(parts, " ")
}

// renderEventDetail draws the event overlay; position may be nil
func renderEventDetail(s *styles.Styles, e models.InterviewEvent, position *models.Position, width, height int) string {
	contentWidth := styles.ContentWidth(width)
	textWidth := clamp(contentWidth-12, 20, 60)

	rows := []string{
		s.Title.Render(e.Title),
		s.EventBadge(viewmodels.EventColor(e.EventType), e.EventType.Label()),
		"",
	}
	if position != nil {
		rows = append(rows, "Position: "+position.CompanyName+" · "+position.PositionTitle)
	}
	when := e.StartDatetime.Local().Format("Mon Jan 2, 2006 15:04")
	if !e.EndDatetime.IsZero() {
		when += " - " + e.EndDatetime.Local().Format("15:04")
	}
	rows = append(rows, "When: "+when)
	if e.Duration != nil {
		rows = append(rows, fmt.Sprintf("Duration: %d min", *e.Duration))
	}
	if e.MeetingType != "" {
		rows = append(rows, "Meeting: "+e.MeetingType.Label())
	}
	if e.MeetingType == models.MeetingRemote {
		rows = append(rows, "Link: "+orDash(e.MeetingLink))
	} else if e.Location != "" || e.MeetingType == models.MeetingOnSite {
		rows = append(rows, "Location: "+orDash(e.Location))
	}
	if strings.TrimSpace(e.Description) != "" {
		rows = append(rows, "", lipgloss.NewStyle().Width(textWidth).Render(e.Description))
	}
	hint := "Esc: close"
	if position != nil {
		hint = "↵: open position • Esc: close"
	}
	rows = append(rows, "", s.TitleMuted.Render(hint))

	return renderCentered(width, height, s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}
