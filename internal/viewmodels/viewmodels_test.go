package viewmodels

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/drt/internal/api/apitest"
	"github.com/tgienger/drt/internal/models"
)

func positionsWith(statuses ...models.Status) []models.Position {
	out := make([]models.Position, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, models.Position{ID: int64(i + 1), CompanyName: "Acme", PositionTitle: "Engineer", CurrentStatus: s})
	}
	return out
}

func TestLoadState(t *testing.T) {
	t.Run("begin and finish", func(t *testing.T) {
		var s LoadState
		require.Equal(t, Idle, s.Kind)
		s = s.Begin()
		require.True(t, s.IsLoading())
		next, ok := s.Finish(s.Gen, nil)
		require.True(t, ok)
		require.True(t, next.IsLoaded())
		require.NoError(t, next.Err)
	})
	t.Run("failure keeps the error", func(t *testing.T) {
		s := LoadState{}.Begin()
		next, ok := s.Finish(s.Gen, errors.New("boom"))
		require.True(t, ok)
		require.True(t, next.IsFailed())
		require.EqualError(t, next.Err, "boom")
		require.Equal(t, "failed", next.Kind.String())
	})
	t.Run("stale result is dropped", func(t *testing.T) {
		s := LoadState{}.Begin()
		old := s.Gen
		s = s.Begin()
		next, ok := s.Finish(old, nil)
		require.False(t, ok)
		require.True(t, next.IsLoading())
		require.Equal(t, s, next)
	})
	t.Run("separate states never share a generation", func(t *testing.T) {
		a := LoadState{}.Begin()
		b := LoadState{}.Begin()
		require.NotEqual(t, a.Gen, b.Gen)
		_, ok := b.Finish(a.Gen, nil)
		require.False(t, ok)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("buckets", func(t *testing.T) {
		s := Summarize(positionsWith(
			models.StatusApplied,
			models.StatusScreening,
			models.StatusTechnicalInterview,
			models.StatusOffer,
			models.StatusAccepted,
			models.StatusRejected,
			models.Status("declined"),
		))
		require.Equal(t, Summary{Total: 7, InProgress: 2, Accepted: 2, Rejected: 1, Other: 2}, s)
	})
	t.Run("parts add up to total for every status", func(t *testing.T) {
		statuses := append([]models.Status{"declined", "something_new"}, models.Statuses...)
		s := Summarize(positionsWith(statuses...))
		require.Equal(t, len(statuses), s.Total)
		require.Equal(t, s.Total, s.InProgress+s.Accepted+s.Rejected+s.Other)
	})
	t.Run("empty", func(t *testing.T) {
		require.Equal(t, Summary{}, Summarize(nil))
	})
}

func TestPositionForm(t *testing.T) {
	today := time.Date(2024, 3, 9, 15, 4, 0, 0, time.UTC)

	t.Run("defaults", func(t *testing.T) {
		f := NewPositionForm()
		require.Equal(t, models.StatusApplied, f.Status)
		f.CompanyName = "  Acme "
		f.PositionTitle = "Backend Engineer"
		p, err := f.Position(today)
		require.NoError(t, err)
		require.Equal(t, "Acme", p.CompanyName)
		require.Equal(t, models.StatusApplied, p.CurrentStatus)
		require.Equal(t, "2024-03-09", p.ApplicationDate.String())
	})
	t.Run("required fields", func(t *testing.T) {
		_, err := PositionForm{PositionTitle: "x"}.Position(today)
		require.ErrorIs(t, err, ErrCompanyRequired)
		_, err = PositionForm{CompanyName: "x", PositionTitle: "   "}.Position(today)
		require.ErrorIs(t, err, ErrTitleRequired)
	})
	t.Run("fetch needs a link", func(t *testing.T) {
		_, err := NewPositionForm().JDLink()
		require.ErrorIs(t, err, ErrLinkRequired)
		require.EqualError(t, err, "recruiting link is required")

		link, err := PositionForm{RecruitingLink: " https://jobs.example/1 "}.JDLink()
		require.NoError(t, err)
		require.Equal(t, "https://jobs.example/1", link)
	})
	t.Run("job info fills empty fields", func(t *testing.T) {
		f := NewPositionForm()
		f.CompanyName = "Typed Co"
		f.ApplyJobInfo(models.JobInfo{
			CompanyName:    "Extracted Co",
			PositionTitle:  "SRE",
			Location:       "Berlin",
			JobDescription: "Run things",
		})
		require.Equal(t, "Typed Co", f.CompanyName)
		require.Equal(t, "SRE", f.PositionTitle)
		require.Equal(t, "Berlin", f.Location)
		require.Equal(t, "Run things", f.JobDescription)
	})
	t.Run("raw text fallback", func(t *testing.T) {
		p := ApplyJobInfoToPosition(models.Position{CompanyName: "Acme"}, models.JobInfo{JDText: "raw posting"})
		require.Equal(t, "raw posting", p.JobDescription)
		require.Equal(t, "Acme", p.CompanyName)
	})
}

func TestWithStatus(t *testing.T) {
	p := models.Position{
		ID:              7,
		CompanyName:     "Acme",
		PositionTitle:   "Engineer",
		Location:        "Remote",
		CurrentStatus:   models.StatusApplied,
		ApplicationDate: models.NewDate(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
	}
	for _, s := range models.Statuses {
		got := WithStatus(p, s)
		require.Equal(t, s, got.CurrentStatus)
		got.CurrentStatus = p.CurrentStatus
		require.Equal(t, p, got)
	}
	// backwards moves are allowed too
	require.Equal(t, models.StatusApplied, WithStatus(WithStatus(p, models.StatusRejected), models.StatusApplied).CurrentStatus)
}

func TestNoteForm(t *testing.T) {
	f := NewNoteForm()
	require.Equal(t, models.ProcessGeneral, f.ProcessType)

	_, err := f.Note(1)
	require.ErrorIs(t, err, ErrNoteTitleRequired)
	f.Title = "Recruiter call"
	_, err = f.Note(1)
	require.ErrorIs(t, err, ErrNoteContentRequired)

	f.Content = "Went well"
	n, err := f.Note(42)
	require.NoError(t, err)
	require.Equal(t, int64(42), n.PositionID)
	require.Equal(t, models.ProcessGeneral, n.ProcessType)
}

func TestEventForm(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	base := func() EventForm {
		f := NewEventForm()
		f.Title = "Onsite loop"
		f.Start = "2024-05-01 10:00"
		f.Duration = "90"
		f.Location = "HQ"
		f.MeetingLink = "https://meet.example/abc"
		return f
	}

	t.Run("on-site sends location only", func(t *testing.T) {
		e, err := base().Event(3, loc)
		require.NoError(t, err)
		require.Equal(t, models.EventTechnicalInterview, e.EventType)
		require.Equal(t, models.MeetingOnSite, e.MeetingType)
		require.Equal(t, "HQ", e.Location)
		require.Empty(t, e.MeetingLink)
		require.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, loc), e.StartDatetime)
		require.Equal(t, 90*time.Minute, e.EndDatetime.Sub(e.StartDatetime))
		require.Equal(t, 90, *e.Duration)
		require.Equal(t, int64(3), e.PositionID)
	})
	t.Run("remote sends link only", func(t *testing.T) {
		f := base()
		f.ToggleMeetingType()
		e, err := f.Event(3, loc)
		require.NoError(t, err)
		require.Equal(t, models.MeetingRemote, e.MeetingType)
		require.Equal(t, "https://meet.example/abc", e.MeetingLink)
		require.Empty(t, e.Location)

		f.ToggleMeetingType()
		require.Equal(t, models.MeetingOnSite, f.MeetingType)
	})
	t.Run("validation", func(t *testing.T) {
		f := base()
		f.Title = ""
		_, err := f.Event(3, loc)
		require.ErrorIs(t, err, ErrEventTitleRequired)

		f = base()
		f.Start = ""
		_, err = f.Event(3, loc)
		require.ErrorIs(t, err, ErrStartRequired)

		f = base()
		f.Start = "tomorrow"
		_, err = f.Event(3, loc)
		require.Error(t, err)

		f = base()
		f.Duration = ""
		_, err = f.Event(3, loc)
		require.ErrorIs(t, err, ErrDurationRequired)

		f = base()
		f.Duration = "1.5h"
		_, err = f.Event(3, loc)
		require.ErrorIs(t, err, ErrDurationRequired)
	})
	t.Run("end may equal or precede start", func(t *testing.T) {
		f := base()
		f.Duration = "0"
		e, err := f.Event(3, loc)
		require.NoError(t, err)
		require.True(t, e.EndDatetime.Equal(e.StartDatetime))

		f.Duration = "-30"
		e, err = f.Event(3, loc)
		require.NoError(t, err)
		require.True(t, e.EndDatetime.Before(e.StartDatetime))
	})
}

func TestCalendar(t *testing.T) {
	loc := time.UTC
	at := func(day, hour int) time.Time { return time.Date(2024, 5, day, hour, 0, 0, 0, loc) }
	events := []models.InterviewEvent{
		{ID: 1, PositionID: 10, EventType: models.EventFinalInterview, Title: "Final", StartDatetime: at(8, 15), EndDatetime: at(8, 16)},
		{ID: 2, PositionID: 10, EventType: models.EventPhoneScreen, Title: "Screen", StartDatetime: at(6, 9), EndDatetime: at(6, 10)},
		{ID: 3, PositionID: 99, EventType: models.EventOther, Title: "Coffee", StartDatetime: at(8, 9), EndDatetime: at(8, 10)},
		{ID: 4, PositionID: 10, EventType: "mystery", Title: "Later", StartDatetime: at(20, 9), EndDatetime: at(20, 10)},
	}
	positions := []models.Position{{ID: 10, CompanyName: "Acme"}}

	c := BuildCalendar(events, positions)

	t.Run("items and colors", func(t *testing.T) {
		require.Len(t, c.Items, 4)
		require.Equal(t, "#c2185b", c.Items[0].Color)
		require.Equal(t, "#0066cc", c.Items[1].Color)
		require.Equal(t, DefaultEventColor, c.Items[2].Color)
		require.Equal(t, DefaultEventColor, c.Items[3].Color)
		require.Equal(t, events[0], c.Items[0].Event)
		require.Equal(t, at(8, 15), c.Items[0].Start)
	})
	t.Run("position lookup", func(t *testing.T) {
		p, ok := c.PositionOf(c.Items[0])
		require.True(t, ok)
		require.Equal(t, "Acme", p.CompanyName)
		_, ok = c.PositionOf(c.Items[2])
		require.False(t, ok)
	})
	t.Run("legend", func(t *testing.T) {
		legend := Legend()
		require.Len(t, legend, 5)
		for _, l := range legend {
			require.NotEqual(t, DefaultEventColor, l.Color)
		}
	})
	t.Run("week", func(t *testing.T) {
		// 2024-05-08 is a Wednesday; the week starts Sunday 05-05
		days := c.Week(at(8, 12))
		require.Len(t, days, 7)
		require.Equal(t, time.Date(2024, 5, 5, 0, 0, 0, 0, loc), days[0].Date)
		require.Len(t, days[1].Items, 1)
		require.Equal(t, "Screen", days[1].Items[0].Title)
		require.Len(t, days[3].Items, 2)
		require.Equal(t, "Coffee", days[3].Items[0].Title)
		require.Equal(t, "Final", days[3].Items[1].Title)
		total := 0
		for _, d := range days {
			total += len(d.Items)
		}
		require.Equal(t, 3, total)
	})
}

func TestDashboard(t *testing.T) {
	t.Run("stats", func(t *testing.T) {
		s := ComputeDashboardStats(positionsWith(
			models.StatusApplied, models.StatusApplied,
			models.StatusScreening,
			models.StatusCodingTest, models.StatusFinalInterview,
			models.StatusOffer,
			models.StatusRejected,
		))
		require.Equal(t, DashboardStats{Total: 7, Applied: 2, Interviewing: 2, Offer: 1}, s)
	})
	t.Run("first five in backend order", func(t *testing.T) {
		positions := positionsWith(models.Statuses...)
		d := BuildDashboard(positions, nil)
		require.Len(t, d.Recent, 5)
		require.Equal(t, int64(1), d.Recent[0].ID)
		require.Equal(t, int64(5), d.Recent[4].ID)
		require.Empty(t, d.Upcoming)
	})
}

func TestLoaders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	newFake := func() *apitest.Fake {
		f := apitest.New()
		f.Positions = positionsWith(models.StatusApplied, models.StatusOffer)
		f.Notes = []models.ProcessNote{{ID: 1, PositionID: 1, Title: "n", Content: "c"}}
		f.Events = []models.InterviewEvent{
			{ID: 1, PositionID: 1, Title: "past", StartDatetime: now.Add(-time.Hour)},
			{ID: 2, PositionID: 1, Title: "next", StartDatetime: now.Add(time.Hour)},
			{ID: 3, PositionID: 2, Title: "other", StartDatetime: now.Add(2 * time.Hour)},
		}
		return f
	}

	t.Run("dashboard asks for events from now", func(t *testing.T) {
		f := newFake()
		d, err := LoadDashboard(ctx, f, now)
		require.NoError(t, err)
		require.Equal(t, now, f.LastFilter.StartDate)
		require.Len(t, d.Upcoming, 2)
		require.Equal(t, 2, d.Stats.Total)
		require.Equal(t, 1, d.Stats.Offer)
	})
	t.Run("dashboard fails if either load fails", func(t *testing.T) {
		f := newFake()
		f.Fail["ListEvents"] = errors.New("down")
		_, err := LoadDashboard(ctx, f, now)
		require.Error(t, err)
		require.Contains(t, err.Error(), "down")
	})
	t.Run("calendar", func(t *testing.T) {
		c, err := LoadCalendar(ctx, newFake())
		require.NoError(t, err)
		require.Len(t, c.Items, 3)
		require.Len(t, c.Positions, 2)
	})
	t.Run("detail", func(t *testing.T) {
		d, err := LoadPositionDetail(ctx, newFake(), 1)
		require.NoError(t, err)
		require.Equal(t, int64(1), d.Position.ID)
		require.Len(t, d.Notes, 1)
		require.Len(t, d.Events, 2)
	})
	t.Run("detail of missing position", func(t *testing.T) {
		_, err := LoadPositionDetail(ctx, newFake(), 404)
		require.Error(t, err)
	})
}
