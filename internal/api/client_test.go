package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tgienger/drt/internal/models"
)

// fakeBackend is an in-memory stand-in for the tracker REST API
type fakeBackend struct {
	mu        sync.Mutex
	enveloped bool
	nextID    int64
	positions map[int64]models.Position
	notes     map[int64]models.ProcessNote
	events    map[int64]models.InterviewEvent
	lastQuery map[string]string
	requestID string
}

func newFakeBackend(enveloped bool) *fakeBackend {
	return &fakeBackend{
		enveloped: enveloped,
		positions: map[int64]models.Position{},
		notes:     map[int64]models.ProcessNote{},
		events:    map[int64]models.InterviewEvent{},
	}
}

func (b *fakeBackend) writeList(w http.ResponseWriter, items interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if b.enveloped {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"count": 0, "results": items})
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requestID = r.Header.Get("X-Request-ID")
	b.lastQuery = map[string]string{}
	for k := range r.URL.Query() {
		b.lastQuery[k] = r.URL.Query().Get(k)
	}

	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api"), "/"), "/")
	resource := parts[0]
	var id int64
	if len(parts) > 1 {
		if parts[1] == "fetch_jd" {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["url"] == "" {
				http.Error(w, `{"error":"URL is required in the request body"}`, http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data": map[string]string{
					"company_name":    "Acme",
					"position_title":  "Backend Engineer",
					"job_description": "Build things",
				},
				"message": "Job information extracted successfully",
			})
			return
		}
		id, _ = strconv.ParseInt(parts[1], 10, 64)
	}

	switch resource {
	case "positions":
		b.servePositions(w, r, id)
	case "notes":
		b.serveNotes(w, r, id)
	case "events":
		b.serveEvents(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (b *fakeBackend) servePositions(w http.ResponseWriter, r *http.Request, id int64) {
	switch {
	case r.Method == http.MethodGet && id == 0:
		list := []models.Position{}
		for i := int64(1); i <= b.nextID; i++ {
			if p, ok := b.positions[i]; ok {
				list = append(list, p)
			}
		}
		b.writeList(w, list)
	case r.Method == http.MethodGet:
		p, ok := b.positions[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(p)
	case r.Method == http.MethodPost:
		var p models.Position
		_ = json.NewDecoder(r.Body).Decode(&p)
		if p.CompanyName == "" || p.PositionTitle == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.nextID++
		p.ID = b.nextID
		b.positions[p.ID] = p
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)
	case r.Method == http.MethodPut:
		if _, ok := b.positions[id]; !ok {
			http.NotFound(w, r)
			return
		}
		var p models.Position
		_ = json.NewDecoder(r.Body).Decode(&p)
		p.ID = id
		b.positions[id] = p
		_ = json.NewEncoder(w).Encode(p)
	case r.Method == http.MethodDelete:
		delete(b.positions, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (b *fakeBackend) serveNotes(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		pid, _ := strconv.ParseInt(r.URL.Query().Get("position_id"), 10, 64)
		list := []models.ProcessNote{}
		for i := int64(1); i <= b.nextID; i++ {
			if n, ok := b.notes[i]; ok && n.PositionID == pid {
				list = append(list, n)
			}
		}
		b.writeList(w, list)
	case http.MethodPost:
		var n models.ProcessNote
		_ = json.NewDecoder(r.Body).Decode(&n)
		b.nextID++
		n.ID = b.nextID
		b.notes[n.ID] = n
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(n)
	case http.MethodPut:
		var n models.ProcessNote
		_ = json.NewDecoder(r.Body).Decode(&n)
		n.ID = id
		b.notes[id] = n
		_ = json.NewEncoder(w).Encode(n)
	case http.MethodDelete:
		delete(b.notes, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (b *fakeBackend) serveEvents(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		list := []models.InterviewEvent{}
		for i := int64(1); i <= b.nextID; i++ {
			if e, ok := b.events[i]; ok {
				list = append(list, e)
			}
		}
		b.writeList(w, list)
	case http.MethodPost:
		var e models.InterviewEvent
		_ = json.NewDecoder(r.Body).Decode(&e)
		b.nextID++
		e.ID = b.nextID
		b.events[e.ID] = e
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(e)
	case http.MethodPut:
		var e models.InterviewEvent
		_ = json.NewDecoder(r.Body).Decode(&e)
		e.ID = id
		b.events[id] = e
		_ = json.NewEncoder(w).Encode(e)
	case http.MethodDelete:
		delete(b.events, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func newTestClient(t *testing.T, enveloped bool) (*Client, *fakeBackend) {
	backend := newFakeBackend(enveloped)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", 0), backend
}

func TestPositions(t *testing.T) {
	for _, enveloped := range []bool{false, true} {
		name := "bare array"
		if enveloped {
			name = "results envelope"
		}
		t.Run(name, func(t *testing.T) {
			ctx := context.TODO()
			c, _ := newTestClient(t, enveloped)

			list, err := c.ListPositions(ctx)
			require.Nil(t, err)
			require.Empty(t, list)

			created, err := c.CreatePosition(ctx, models.Position{CompanyName: "Acme", PositionTitle: "SRE"})
			require.Nil(t, err)
			require.NotZero(t, created.ID)

			list, err = c.ListPositions(ctx)
			require.Nil(t, err)
			require.Len(t, list, 1)
			require.Equal(t, "Acme", list[0].CompanyName)

			for _, s := range models.Statuses {
				p := list[0]
				p.CurrentStatus = s
				updated, err := c.UpdatePosition(ctx, p.ID, p)
				require.Nil(t, err)
				require.Equal(t, s, updated.CurrentStatus)
			}

			got, err := c.GetPosition(ctx, created.ID)
			require.Nil(t, err)
			require.Equal(t, models.StatusAccepted, got.CurrentStatus)

			require.Nil(t, c.DeletePosition(ctx, created.ID))
			list, err = c.ListPositions(ctx)
			require.Nil(t, err)
			require.Empty(t, list)

			_, err = c.GetPosition(ctx, created.ID)
			require.True(t, IsNotFound(err))
		})
	}
}

func TestCreatePositionRejected(t *testing.T) {
	c, _ := newTestClient(t, false)
	_, err := c.CreatePosition(context.TODO(), models.Position{CompanyName: "Acme"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusBadRequest, se.StatusCode)
	require.Equal(t, http.MethodPost, se.Method)
}

func TestNotesAndEvents(t *testing.T) {
	ctx := context.TODO()
	c, backend := newTestClient(t, true)

	p, err := c.CreatePosition(ctx, models.Position{CompanyName: "Acme", PositionTitle: "SRE"})
	require.Nil(t, err)

	t.Run(`notes are scoped to a position`, func(t *testing.T) {
		n, err := c.CreateNote(ctx, models.ProcessNote{PositionID: p.ID, ProcessType: models.ProcessGeneral, Title: "t", Content: "c"})
		require.Nil(t, err)
		_, err = c.CreateNote(ctx, models.ProcessNote{PositionID: p.ID + 100, Title: "other", Content: "c"})
		require.Nil(t, err)

		notes, err := c.ListNotes(ctx, p.ID)
		require.Nil(t, err)
		require.Len(t, notes, 1)
		require.Equal(t, strconv.FormatInt(p.ID, 10), backend.lastQuery["position_id"])

		n.Title = "renamed"
		updated, err := c.UpdateNote(ctx, n.ID, *n)
		require.Nil(t, err)
		require.Equal(t, "renamed", updated.Title)

		require.Nil(t, c.DeleteNote(ctx, n.ID))
		notes, err = c.ListNotes(ctx, p.ID)
		require.Nil(t, err)
		require.Empty(t, notes)
	})

	t.Run(`events filter and delete`, func(t *testing.T) {
		start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		e, err := c.CreateEvent(ctx, models.InterviewEvent{
			PositionID:    p.ID,
			EventType:     models.EventPhoneScreen,
			Title:         "call",
			StartDatetime: start,
			EndDatetime:   start.Add(30 * time.Minute),
		})
		require.Nil(t, err)

		events, err := c.ListEvents(ctx, EventFilter{PositionID: p.ID, StartDate: start})
		require.Nil(t, err)
		require.Len(t, events, 1)
		require.True(t, start.Equal(events[0].StartDatetime))
		require.Equal(t, "2024-05-01T10:00:00Z", backend.lastQuery["start_date"])
		require.Equal(t, strconv.FormatInt(p.ID, 10), backend.lastQuery["position_id"])
		_, hasEnd := backend.lastQuery["end_date"]
		require.False(t, hasEnd)

		e.Title = "moved"
		updated, err := c.UpdateEvent(ctx, e.ID, *e)
		require.Nil(t, err)
		require.Equal(t, "moved", updated.Title)

		require.Nil(t, c.DeleteEvent(ctx, e.ID))
		events, err = c.ListEvents(ctx, EventFilter{})
		require.Nil(t, err)
		require.Empty(t, events)
		require.NotEmpty(t, backend.requestID)
	})
}

func TestFetchJD(t *testing.T) {
	c, _ := newTestClient(t, false)

	info, err := c.FetchJD(context.TODO(), "https://jobs.example.com/1")
	require.Nil(t, err)
	require.Equal(t, "Acme", info.CompanyName)
	require.Equal(t, "Build things", info.Description())
	require.Equal(t, "https://jobs.example.com/1", info.RecruitingLink)

	_, err = c.FetchJD(context.TODO(), "")
	require.Error(t, err)
}

func TestFetchJDTopLevel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jd_text":"raw posting"}`))
	}))
	defer srv.Close()

	info, err := NewClient(srv.URL, 0).FetchJD(context.TODO(), "https://x")
	require.Nil(t, err)
	require.Equal(t, "raw posting", info.Description())
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, time.Second).ListPositions(context.TODO())
	require.Error(t, err)
	var se *StatusError
	require.False(t, IsNotFound(err))
	require.False(t, errors.As(err, &se))
}

func TestUpdateWithEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, time.Second)
	ctx := context.TODO()

	t.Run(`position keeps the sent fields`, func(t *testing.T) {
		sent := models.Position{CompanyName: "Acme", PositionTitle: "Backend Engineer", CurrentStatus: models.StatusOffer}
		got, err := c.UpdatePosition(ctx, 7, sent)
		require.Nil(t, err)
		require.Equal(t, int64(7), got.ID)
		require.Equal(t, "Acme", got.CompanyName)
		require.Equal(t, models.StatusOffer, got.CurrentStatus)
	})

	t.Run(`note and event keep the sent fields`, func(t *testing.T) {
		n, err := c.UpdateNote(ctx, 3, models.ProcessNote{PositionID: 7, Title: "Recruiter call"})
		require.Nil(t, err)
		require.Equal(t, int64(3), n.ID)
		require.Equal(t, "Recruiter call", n.Title)

		e, err := c.UpdateEvent(ctx, 4, models.InterviewEvent{PositionID: 7, Title: "Onsite"})
		require.Nil(t, err)
		require.Equal(t, int64(4), e.ID)
		require.Equal(t, "Onsite", e.Title)
	})
}
