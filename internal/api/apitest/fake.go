// Package apitest provides an in-memory api.Provider for tests
package apitest

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/tgienger/drt/internal/api"
	"github.com/tgienger/drt/internal/models"
)

// Fake keeps records in memory. Set Fail[op] to make that operation return
// the error; op is the Provider method name.
type Fake struct {
	mu        sync.Mutex
	nextID    int64
	Positions []models.Position
	Notes     []models.ProcessNote
	Events    []models.InterviewEvent
	JobInfo   models.JobInfo
	Fail      map[string]error
	Calls     []string
	// LastFilter is the filter of the most recent ListEvents call
	LastFilter api.EventFilter
}

var _ api.Provider = (*Fake)(nil)

func New() *Fake {
	return &Fake{nextID: 100, Fail: map[string]error{}}
}

func (f *Fake) call(op string) error {
	f.Calls = append(f.Calls, op)
	return f.Fail[op]
}

// Called reports how many times op ran
func (f *Fake) Called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func notFound(path string) error {
	return &api.StatusError{Method: "GET", Path: path, StatusCode: 404, Body: `{"detail":"Not found."}`}
}

func (f *Fake) ListPositions(ctx context.Context) ([]models.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListPositions"); err != nil {
		return nil, err
	}
	return append([]models.Position{}, f.Positions...), nil
}

func (f *Fake) GetPosition(ctx context.Context, id int64) (*models.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetPosition"); err != nil {
		return nil, err
	}
	for _, p := range f.Positions {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, notFound("/positions/")
}

func (f *Fake) CreatePosition(ctx context.Context, p models.Position) (*models.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreatePosition"); err != nil {
		return nil, err
	}
	f.nextID++
	p.ID = f.nextID
	f.Positions = append(f.Positions, p)
	return &p, nil
}

func (f *Fake) UpdatePosition(ctx context.Context, id int64, p models.Position) (*models.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdatePosition"); err != nil {
		return nil, err
	}
	for i := range f.Positions {
		if f.Positions[i].ID == id {
			p.ID = id
			f.Positions[i] = p
			return &p, nil
		}
	}
	return nil, notFound("/positions/")
}

func (f *Fake) DeletePosition(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeletePosition"); err != nil {
		return err
	}
	for i := range f.Positions {
		if f.Positions[i].ID == id {
			f.Positions = append(f.Positions[:i], f.Positions[i+1:]...)
			return nil
		}
	}
	return notFound("/positions/")
}

func (f *Fake) FetchJD(ctx context.Context, link string) (*models.JobInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("FetchJD"); err != nil {
		return nil, err
	}
	if link == "" {
		return nil, errors.New("empty link")
	}
	info := f.JobInfo
	if info.RecruitingLink == "" {
		info.RecruitingLink = link
	}
	return &info, nil
}

func (f *Fake) ListNotes(ctx context.Context, positionID int64) ([]models.ProcessNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListNotes"); err != nil {
		return nil, err
	}
	out := []models.ProcessNote{}
	for _, n := range f.Notes {
		if n.PositionID == positionID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *Fake) CreateNote(ctx context.Context, n models.ProcessNote) (*models.ProcessNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateNote"); err != nil {
		return nil, err
	}
	f.nextID++
	n.ID = f.nextID
	f.Notes = append(f.Notes, n)
	return &n, nil
}

func (f *Fake) UpdateNote(ctx context.Context, id int64, n models.ProcessNote) (*models.ProcessNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateNote"); err != nil {
		return nil, err
	}
	for i := range f.Notes {
		if f.Notes[i].ID == id {
			n.ID = id
			f.Notes[i] = n
			return &n, nil
		}
	}
	return nil, notFound("/notes/")
}

func (f *Fake) DeleteNote(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteNote"); err != nil {
		return err
	}
	for i := range f.Notes {
		if f.Notes[i].ID == id {
			f.Notes = append(f.Notes[:i], f.Notes[i+1:]...)
			return nil
		}
	}
	return notFound("/notes/")
}

// ListEvents honours PositionID and StartDate; EndDate is recorded only
func (f *Fake) ListEvents(ctx context.Context, filter api.EventFilter) ([]models.InterviewEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastFilter = filter
	if err := f.call("ListEvents"); err != nil {
		return nil, err
	}
	out := []models.InterviewEvent{}
	for _, e := range f.Events {
		if filter.PositionID != 0 && e.PositionID != filter.PositionID {
			continue
		}
		if !filter.StartDate.IsZero() && e.StartDatetime.Before(filter.StartDate) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *Fake) CreateEvent(ctx context.Context, e models.InterviewEvent) (*models.InterviewEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateEvent"); err != nil {
		return nil, err
	}
	f.nextID++
	e.ID = f.nextID
	f.Events = append(f.Events, e)
	return &e, nil
}

func (f *Fake) UpdateEvent(ctx context.Context, id int64, e models.InterviewEvent) (*models.InterviewEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateEvent"); err != nil {
		return nil, err
	}
	for i := range f.Events {
		if f.Events[i].ID == id {
			e.ID = id
			f.Events[i] = e
			return &e, nil
		}
	}
	return nil, notFound("/events/")
}

func (f *Fake) DeleteEvent(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteEvent"); err != nil {
		return err
	}
	for i := range f.Events {
		if f.Events[i].ID == id {
			f.Events = append(f.Events[:i], f.Events[i+1:]...)
			return nil
		}
	}
	return notFound("/events/")
}
