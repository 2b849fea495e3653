package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/drt/internal/models"
)

// Provider is the REST surface the views depend on
type Provider interface {
	ListPositions(ctx context.Context) ([]models.Position, error)
	GetPosition(ctx context.Context, id int64) (*models.Position, error)
	CreatePosition(ctx context.Context, p models.Position) (*models.Position, error)
	// UpdatePosition replaces the whole record (PUT)
	UpdatePosition(ctx context.Context, id int64, p models.Position) (*models.Position, error)
	DeletePosition(ctx context.Context, id int64) error
	FetchJD(ctx context.Context, link string) (*models.JobInfo, error)

	ListNotes(ctx context.Context, positionID int64) ([]models.ProcessNote, error)
	CreateNote(ctx context.Context, n models.ProcessNote) (*models.ProcessNote, error)
	UpdateNote(ctx context.Context, id int64, n models.ProcessNote) (*models.ProcessNote, error)
	DeleteNote(ctx context.Context, id int64) error

	ListEvents(ctx context.Context, filter EventFilter) ([]models.InterviewEvent, error)
	CreateEvent(ctx context.Context, e models.InterviewEvent) (*models.InterviewEvent, error)
	UpdateEvent(ctx context.Context, id int64, e models.InterviewEvent) (*models.InterviewEvent, error)
	DeleteEvent(ctx context.Context, id int64) error
}

const (
	DefaultBaseURL string = "http://localhost:8000/api"

	positionsPath string = "/positions/"
	positionPath  string = "/positions/%d/"
	fetchJDPath   string = "/positions/fetch_jd/"
	notesPath     string = "/notes/"
	notePath      string = "/notes/%d/"
	eventsPath    string = "/events/"
	eventPath     string = "/events/%d/"
)

// Client talks to the tracker backend over JSON/HTTP.
// It never retries and only times out when configured to.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL; timeout 0 means no timeout
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// EventFilter narrows ListEvents; zero fields are not sent
type EventFilter struct {
	PositionID int64
	StartDate  time.Time
	EndDate    time.Time
}

func (f EventFilter) query() url.Values {
	q := url.Values{}
	if f.PositionID != 0 {
		q.Set("position_id", fmt.Sprint(f.PositionID))
	}
	if !f.StartDate.IsZero() {
		q.Set("start_date", f.StartDate.UTC().Format(time.RFC3339))
	}
	if !f.EndDate.IsZero() {
		q.Set("end_date", f.EndDate.UTC().Format(time.RFC3339))
	}
	return q
}

func (c *Client) ListPositions(ctx context.Context) ([]models.Position, error) {
	data, err := c.sendRequest(ctx, http.MethodGet, positionsPath, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Position](data)
}

func (c *Client) GetPosition(ctx context.Context, id int64) (*models.Position, error) {
	resp := models.Position{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf(positionPath, id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreatePosition(ctx context.Context, p models.Position) (*models.Position, error) {
	resp := models.Position{}
	if err := c.do(ctx, http.MethodPost, positionsPath, nil, p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdatePosition(ctx context.Context, id int64, p models.Position) (*models.Position, error) {
	// a 2xx with no body leaves the sent record as the result
	resp := p
	resp.ID = id
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf(positionPath, id), nil, p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeletePosition(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf(positionPath, id), nil, nil, nil)
}

// fetchJDResponse covers both the {success, data, message} envelope and
// backends that answer with the extracted fields at the top level.
type fetchJDResponse struct {
	models.JobInfo
	Data *models.JobInfo `json:"data"`
}

func (c *Client) FetchJD(ctx context.Context, link string) (*models.JobInfo, error) {
	resp := fetchJDResponse{}
	body := map[string]string{"url": link}
	if err := c.do(ctx, http.MethodPost, fetchJDPath, nil, body, &resp); err != nil {
		return nil, err
	}
	info := resp.JobInfo
	if resp.Data != nil {
		info = *resp.Data
	}
	if info.RecruitingLink == "" {
		info.RecruitingLink = link
	}
	return &info, nil
}

func (c *Client) ListNotes(ctx context.Context, positionID int64) ([]models.ProcessNote, error) {
	q := url.Values{}
	q.Set("position_id", fmt.Sprint(positionID))
	data, err := c.sendRequest(ctx, http.MethodGet, notesPath, q, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.ProcessNote](data)
}

func (c *Client) CreateNote(ctx context.Context, n models.ProcessNote) (*models.ProcessNote, error) {
	resp := models.ProcessNote{}
	if err := c.do(ctx, http.MethodPost, notesPath, nil, n, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateNote(ctx context.Context, id int64, n models.ProcessNote) (*models.ProcessNote, error) {
	resp := n
	resp.ID = id
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf(notePath, id), nil, n, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf(notePath, id), nil, nil, nil)
}

func (c *Client) ListEvents(ctx context.Context, filter EventFilter) ([]models.InterviewEvent, error) {
	data, err := c.sendRequest(ctx, http.MethodGet, eventsPath, filter.query(), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.InterviewEvent](data)
}

func (c *Client) CreateEvent(ctx context.Context, e models.InterviewEvent) (*models.InterviewEvent, error) {
	resp := models.InterviewEvent{}
	if err := c.do(ctx, http.MethodPost, eventsPath, nil, e, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id int64, e models.InterviewEvent) (*models.InterviewEvent, error) {
	resp := e
	resp.ID = id
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf(eventPath, id), nil, e, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf(eventPath, id), nil, nil, nil)
}

// do sends the request and decodes a non-empty response body into out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	data, err := c.sendRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decode %s %s response", method, path)
	}
	return nil
}

func (c *Client) sendRequest(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	requestID := uuid.NewString()
	logger := log.
		WithField("external_request", uri).
		WithField("method", method).
		WithField("request_id", requestID)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(b)
		logger = logger.WithField("request_body", string(b))
	}

	r, err := http.NewRequestWithContext(ctx, method, uri, reader)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	r.Header.Set("Accept", "application/json")
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.http.Do(r)
	if err != nil {
		logger.WithError(err).Error("request failed")
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithError(err).Error("read response failed")
		return nil, errors.Wrapf(err, "read %s %s response", method, path)
	}
	logger = logger.
		WithField("status", resp.StatusCode).
		WithField("elapsed", time.Since(started).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
		logger.WithField("response_body", string(data)).Error("unexpected response status")
		return nil, err
	}
	logger.Debug("request done")
	return data, nil
}
