package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/drt/internal/api/apitest"
	"github.com/tgienger/drt/internal/models"
	"github.com/tgienger/drt/internal/ui/views"
)

type memSettings struct {
	view string
	id   int64
}

func (m *memSettings) LastView() (string, error) { return m.view, nil }
func (m *memSettings) SetLastView(name string) error { m.view = name; return nil }
func (m *memSettings) LastPositionID() (int64, error) { return m.id, nil }
func (m *memSettings) SetLastPositionID(id int64) error { m.id = id; return nil }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newFake() *apitest.Fake {
	f := apitest.New()
	f.Positions = []models.Position{
		{ID: 1, CompanyName: "Acme", PositionTitle: "Backend Engineer", CurrentStatus: models.StatusApplied},
	}
	f.Events = []models.InterviewEvent{
		{ID: 5, PositionID: 1, EventType: models.EventCodingTest, Title: "Take-home",
			StartDatetime: time.Now().Add(time.Hour), EndDatetime: time.Now().Add(2 * time.Hour)},
	}
	return f
}

func TestApp(t *testing.T) {
	ctx := context.Background()

	t.Run("starts on the dashboard", func(t *testing.T) {
		a := NewApp(ctx, newFake(), nil)
		a.Init()
		require.Equal(t, PageDashboard, a.Page())
	})

	t.Run("restores the last position", func(t *testing.T) {
		s := &memSettings{view: "position", id: 1}
		a := NewApp(ctx, newFake(), s)
		a.Init()
		require.Equal(t, PagePosition, a.Page())
	})

	t.Run("position without id falls back to the list", func(t *testing.T) {
		s := &memSettings{view: "position"}
		a := NewApp(ctx, newFake(), s)
		a.Init()
		require.Equal(t, PagePositions, a.Page())
	})

	t.Run("number keys switch pages and are remembered", func(t *testing.T) {
		s := &memSettings{}
		a := NewApp(ctx, newFake(), s)
		a.Init()
		a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

		a.Update(runes("3"))
		require.Equal(t, PageCalendar, a.Page())
		require.Equal(t, "calendar", s.view)

		a.Update(runes("2"))
		require.Equal(t, PagePositions, a.Page())
		require.Contains(t, a.View(), "Positions")
	})

	t.Run("typing in a form does not navigate", func(t *testing.T) {
		a := NewApp(ctx, newFake(), nil)
		a.Init()
		a.Update(runes("2"))
		a.Update(runes("n"))
		require.True(t, a.view.CapturingInput())

		a.Update(runes("1"))
		a.Update(runes("q"))
		require.Equal(t, PagePositions, a.Page())
		require.True(t, a.view.CapturingInput())
	})

	t.Run("ctrl+c always quits", func(t *testing.T) {
		a := NewApp(ctx, newFake(), nil)
		a.Init()
		a.Update(runes("2"))
		a.Update(runes("n"))
		_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		require.Equal(t, tea.QuitMsg{}, cmd())
	})

	t.Run("alerts block until a key is pressed", func(t *testing.T) {
		a := NewApp(ctx, newFake(), nil)
		a.Init()
		a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
		a.Update(views.Alert{Title: "Failed to load position", Detail: "not found", Error: true})
		require.Contains(t, a.View(), "Failed to load position")

		a.Update(runes("3"))
		require.Equal(t, PageDashboard, a.Page())
		require.NotContains(t, a.View(), "Failed to load position")
	})

	t.Run("opening and leaving a position", func(t *testing.T) {
		s := &memSettings{}
		a := NewApp(ctx, newFake(), s)
		a.Init()

		a.Update(views.OpenPosition{ID: 1})
		require.Equal(t, PagePosition, a.Page())
		require.Equal(t, "position", s.view)
		require.Equal(t, int64(1), s.id)

		a.Update(views.BackToPositions{})
		require.Equal(t, PagePositions, a.Page())
		require.Equal(t, int64(0), s.id)
	})
}
