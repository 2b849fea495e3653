package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/drt/internal/api"
	"github.com/tgienger/drt/internal/ui/keys"
	"github.com/tgienger/drt/internal/ui/styles"
	"github.com/tgienger/drt/internal/ui/views"
)

// Page is the active top-level page
type Page string

const (
	PageDashboard Page = "dashboard"
	PagePositions Page = "positions"
	PagePosition  Page = "position"
	PageCalendar  Page = "calendar"
)

// navHeight is the number of lines taken by the nav bar
const navHeight = 2

// Settings remembers where the user was between runs
type Settings interface {
	LastView() (string, error)
	SetLastView(name string) error
	LastPositionID() (int64, error)
	SetLastPositionID(id int64) error
}

type pageModel interface {
	tea.Model
	CapturingInput() bool
}

type App struct {
	ctx      context.Context
	api      api.Provider
	settings Settings
	styles   *styles.Styles
	keys     keys.KeyMap

	page   Page
	view   pageModel
	alert  *views.Alert
	width  int
	height int
}

// NewApp creates the application; settings may be nil
func NewApp(ctx context.Context, provider api.Provider, settings Settings) *App {
	return &App{
		ctx:      ctx,
		api:      provider,
		settings: settings,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
	}
}

// Page returns the active page
func (a *App) Page() Page {
	return a.page
}

func (a *App) Init() tea.Cmd {
	if a.settings != nil {
		last, err := a.settings.LastView()
		if err != nil {
			log.WithError(err).Warn("could not read last view")
		}
		switch Page(last) {
		case PagePosition:
			id, err := a.settings.LastPositionID()
			if err == nil && id > 0 {
				return a.openPosition(id)
			}
			return a.switchTo(PagePositions)
		case PagePositions, PageCalendar:
			return a.switchTo(Page(last))
		}
	}
	return a.switchTo(PageDashboard)
}

func (a *App) switchTo(page Page) tea.Cmd {
	var v pageModel
	switch page {
	case PagePositions:
		v = views.NewPositionListView(a.ctx, a.api)
	case PageCalendar:
		v = views.NewCalendarView(a.ctx, a.api)
	default:
		page = PageDashboard
		v = views.NewDashboardView(a.ctx, a.api)
	}
	a.remember(page, 0)
	return a.activate(page, v)
}

func (a *App) openPosition(id int64) tea.Cmd {
	a.remember(PagePosition, id)
	return a.activate(PagePosition, views.NewPositionDetailView(a.ctx, a.api, id))
}

func (a *App) activate(page Page, v pageModel) tea.Cmd {
	a.page = page
	a.view = v
	cmd := v.Init()
	if a.width > 0 {
		v.Update(a.childSize())
	}
	return cmd
}

func (a *App) remember(page Page, id int64) {
	if a.settings == nil {
		return
	}
	if err := a.settings.SetLastView(string(page)); err != nil {
		log.WithError(err).WithField("page", page).Warn("could not save last view")
	}
	if err := a.settings.SetLastPositionID(id); err != nil {
		log.WithError(err).Warn("could not save last position")
	}
}

func (a *App) childSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: max(a.height-navHeight, 0)}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.view != nil {
			_, cmd := a.view.Update(a.childSize())
			return a, cmd
		}
		return a, nil

	case views.Alert:
		a.alert = &msg
		return a, nil

	case views.OpenPosition:
		return a, a.openPosition(msg.ID)

	case views.BackToPositions:
		return a, a.switchTo(PagePositions)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.alert != nil {
			a.alert = nil
			return a, nil
		}
		if a.view == nil || !a.view.CapturingInput() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, a.keys.Dashboard):
				return a, a.switchTo(PageDashboard)
			case key.Matches(msg, a.keys.Positions):
				return a, a.switchTo(PagePositions)
			case key.Matches(msg, a.keys.Calendar):
				return a, a.switchTo(PageCalendar)
			}
		}
	}

	if a.view == nil {
		return a, nil
	}
	_, cmd := a.view.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	nav := a.renderNav()
	h := max(a.height-navHeight, 0)
	if a.alert != nil {
		return lipgloss.JoinVertical(lipgloss.Left, nav, views.RenderAlert(a.styles, *a.alert, a.width, h))
	}
	if a.view == nil {
		return nav
	}
	return lipgloss.JoinVertical(lipgloss.Left, nav, a.view.View())
}

func (a *App) renderNav() string {
	s := a.styles
	tab := func(k, label string, active bool) string {
		if active {
			return s.NavActive.Render(k + " " + label)
		}
		return s.NavTab.Render(k + " " + label)
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top,
		s.Title.Render("drt"), "  ",
		tab("1", "Dashboard", a.page == PageDashboard),
		tab("2", "Positions", a.page == PagePositions || a.page == PagePosition),
		tab("3", "Calendar", a.page == PageCalendar),
	)
	return styles.CenterView(s.NavBar.Render(bar), a.width, 0)
}
