package viewmodels

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/tgienger/drt/internal/api"
	"github.com/tgienger/drt/internal/models"
	"golang.org/x/sync/errgroup"
)

// LoadDashboard fetches positions and the events starting from now in
// parallel and waits for both.
func LoadDashboard(ctx context.Context, p api.Provider, now time.Time) (Dashboard, error) {
	var (
		positions []models.Position
		events    []models.InterviewEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		positions, err = p.ListPositions(gctx)
		return errors.Wrap(err, "load positions")
	})
	g.Go(func() (err error) {
		events, err = p.ListEvents(gctx, api.EventFilter{StartDate: now})
		return errors.Wrap(err, "load upcoming events")
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(positions, events), nil
}

// LoadCalendar fetches every event and every position in parallel
func LoadCalendar(ctx context.Context, p api.Provider) (Calendar, error) {
	var (
		positions []models.Position
		events    []models.InterviewEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		events, err = p.ListEvents(gctx, api.EventFilter{})
		return errors.Wrap(err, "load events")
	})
	g.Go(func() (err error) {
		positions, err = p.ListPositions(gctx)
		return errors.Wrap(err, "load positions")
	})
	if err := g.Wait(); err != nil {
		return Calendar{}, err
	}
	return BuildCalendar(events, positions), nil
}

// PositionDetail is the position detail page's data
type PositionDetail struct {
	Position models.Position
	Notes    []models.ProcessNote
	Events   []models.InterviewEvent
}

// LoadPositionDetail fetches a position with its notes and events in parallel
func LoadPositionDetail(ctx context.Context, p api.Provider, id int64) (PositionDetail, error) {
	var d PositionDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pos, err := p.GetPosition(gctx, id)
		if err != nil {
			return errors.Wrap(err, "load position")
		}
		d.Position = *pos
		return nil
	})
	g.Go(func() (err error) {
		d.Notes, err = p.ListNotes(gctx, id)
		return errors.Wrap(err, "load notes")
	})
	g.Go(func() (err error) {
		d.Events, err = p.ListEvents(gctx, api.EventFilter{PositionID: id})
		return errors.Wrap(err, "load events")
	})
	if err := g.Wait(); err != nil {
		return PositionDetail{}, err
	}
	return d, nil
}
