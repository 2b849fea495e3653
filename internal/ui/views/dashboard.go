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
	"github.com/tgienger/drt/internal/ui/keys"
	"github.com/tgienger/drt/internal/ui/styles"
	"github.com/tgienger/drt/internal/viewmodels"
)

// DashboardView shows the stat cards, recent positions and upcoming events
type DashboardView struct {
	ctx    context.Context
	api    api.Provider
	styles *styles.Styles
	keys   keys.KeyMap
	now    func() time.Time

	width  int
	height int

	state  viewmodels.LoadState
	data   viewmodels.Dashboard
	cursor int

	showHelpPopup bool
}

func NewDashboardView(ctx context.Context, provider api.Provider) *DashboardView {
	return &DashboardView{
		ctx:    ctx,
		api:    provider,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		now:    time.Now,
	}
}

type dashboardLoadedMsg struct {
	gen  uint64
	data viewmodels.Dashboard
	err  error
}

func (v *DashboardView) Init() tea.Cmd {
	return v.load()
}

func (v *DashboardView) load() tea.Cmd {
	v.state = v.state.Begin()
	gen := v.state.Gen
	ctx, provider, now := v.ctx, v.api, v.now()
	return func() tea.Msg {
		data, err := viewmodels.LoadDashboard(ctx, provider, now)
		return dashboardLoadedMsg{gen: gen, data: data, err: err}
	}
}

// CapturingInput reports whether keys must not be treated as navigation
func (v *DashboardView) CapturingInput() bool {
	return v.showHelpPopup
}

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case dashboardLoadedMsg:
		next, ok := v.state.Finish(msg.gen, msg.err)
		if !ok {
			return v, nil
		}
		v.state = next
		if msg.err != nil {
			log.WithError(msg.err).WithField("action", "load dashboard").Error("action failed")
			return v, nil
		}
		v.data = msg.data
		v.cursor = clamp(v.cursor, 0, max(0, len(v.data.Recent)-1))
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		switch {
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
		case key.Matches(msg, v.keys.Reload):
			return v, v.load()
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.data.Recent)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.Enter):
			if v.cursor < len(v.data.Recent) {
				id := v.data.Recent[v.cursor].ID
				return v, func() tea.Msg { return OpenPosition{ID: id} }
			}
		}
	}
	return v, nil
}

func (v *DashboardView) View() string {
	if v.showHelpPopup {
		return renderHelpPopup(v.styles, v.width, v.height,
			"↑↓", "select recent position",
			"↵", "open position",
			"r", "reload",
			"1 2 3", "dashboard / positions / calendar",
			"q", "quit",
		)
	}

	s := v.styles
	switch {
	case v.state.IsFailed():
		return renderCentered(v.width, v.height, lipgloss.JoinVertical(lipgloss.Center,
			s.Error.Render("Could not load the dashboard"),
			"",
			s.TitleMuted.Render("Press 'r' to try again"),
		))
	case !v.state.IsLoaded():
		return s.TitleMuted.Render("Loading...")
	}

	contentWidth := styles.ContentWidth(v.width)
	var b strings.Builder
	b.WriteString(s.Title.Render("Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(v.renderStats())
	b.WriteString("\n\n")
	b.WriteString(s.Title.Render("Recent Applications"))
	b.WriteString("\n")
	b.WriteString(v.renderRecent(contentWidth))
	b.WriteString("\n\n")
	b.WriteString(s.Title.Render("Upcoming Interviews"))
	b.WriteString("\n")
	b.WriteString(v.renderUpcoming(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderHelp(s, v.width, "↵", "open", "r", "reload", "?", "help", "q", "quit"))

	padded := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	return styles.CenterView(padded, v.width, v.height)
}

func (v *DashboardView) renderStats() string {
	s := v.styles
	st := v.data.Stats
	card := func(label string, n int) string {
		return s.Card.Width(16).Render(lipgloss.JoinVertical(lipgloss.Center,
			s.CardValue.Render(fmt.Sprint(n)),
			s.TitleMuted.Render(label),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total", st.Total), " ",
		card("Applied", st.Applied), " ",
		card("Interviewing", st.Interviewing), " ",
		card("Offers", st.Offer),
	)
}

func (v *DashboardView) renderRecent(contentWidth int) string {
	s := v.styles
	if len(v.data.Recent) == 0 {
		return s.TitleMuted.Render("No applications yet. Press 2 to add one.")
	}
	width := max(contentWidth-8, 20)
	rows := make([]string, 0, len(v.data.Recent))
	for i, p := range v.data.Recent {
		line := truncate(p.CompanyName+" · "+p.PositionTitle, width-24) + "  " + s.StatusBadge(p.CurrentStatus)
		style := s.ListItem
		if i == v.cursor {
			style = s.ListSelected
		}
		rows = append(rows, style.Width(width).Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *DashboardView) renderUpcoming(contentWidth int) string {
	s := v.styles
	if len(v.data.Upcoming) == 0 {
		return s.TitleMuted.Render("No upcoming interviews")
	}
	width := max(contentWidth-8, 20)
	rows := make([]string, 0, len(v.data.Upcoming))
	for _, e := range v.data.Upcoming {
		when := e.StartDatetime.Local().Format("Mon Jan 2 15:04")
		line := fmt.Sprintf("%s  %s  %s",
			when,
			s.EventBadge(viewmodels.EventColor(e.EventType), e.EventType.Label()),
			truncate(e.Title, width-40),
		)
		rows = append(rows, s.ListItem.Width(width).Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
