package viewmodels

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tgienger/drt/internal/models"
)

// StartLayout is how event start times are typed in the form
const StartLayout = "2006-01-02 15:04"

var (
	ErrNoteTitleRequired   = errors.New("note title is required")
	ErrNoteContentRequired = errors.New("note content is required")
	ErrEventTitleRequired  = errors.New("event title is required")
	ErrStartRequired       = errors.New("start date and time are required")
	ErrDurationRequired    = errors.New("duration in minutes is required")
)

// NoteForm holds the fields of the add-note form
type NoteForm struct {
	ProcessType models.ProcessType
	Title       string
	Content     string
}

func NewNoteForm() NoteForm {
	return NoteForm{ProcessType: models.ProcessGeneral}
}

// Note builds the create request tagged with the parent position
func (f NoteForm) Note(positionID int64) (models.ProcessNote, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return models.ProcessNote{}, ErrNoteTitleRequired
	}
	content := strings.TrimSpace(f.Content)
	if content == "" {
		return models.ProcessNote{}, ErrNoteContentRequired
	}
	pt := f.ProcessType
	if pt == "" {
		pt = models.ProcessGeneral
	}
	return models.ProcessNote{
		PositionID:  positionID,
		ProcessType: pt,
		Title:       title,
		Content:     content,
	}, nil
}

// EventForm holds the fields of the add-event form. Start and Duration are
// kept as typed so the form can show them back unchanged.
type EventForm struct {
	EventType   models.EventType
	Title       string
	Description string
	Start       string
	Duration    string
	MeetingType models.MeetingType
	Location    string
	MeetingLink string
}

func NewEventForm() EventForm {
	return EventForm{
		EventType:   models.EventTechnicalInterview,
		MeetingType: models.MeetingOnSite,
	}
}

// ToggleMeetingType switches between on-site and remote
func (f *EventForm) ToggleMeetingType() {
	if f.MeetingType == models.MeetingRemote {
		f.MeetingType = models.MeetingOnSite
		return
	}
	f.MeetingType = models.MeetingRemote
}

// Event builds the create request. The meeting type decides whether the
// location or the meeting link is sent; the other one is cleared.
// Overlaps and end-before-start are left to the backend.
func (f EventForm) Event(positionID int64, loc *time.Location) (models.InterviewEvent, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return models.InterviewEvent{}, ErrEventTitleRequired
	}
	startRaw := strings.TrimSpace(f.Start)
	if startRaw == "" {
		return models.InterviewEvent{}, ErrStartRequired
	}
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(StartLayout, startRaw, loc)
	if err != nil {
		return models.InterviewEvent{}, errors.Wrapf(err, "start must look like %q", StartLayout)
	}
	durRaw := strings.TrimSpace(f.Duration)
	if durRaw == "" {
		return models.InterviewEvent{}, ErrDurationRequired
	}
	minutes, err := strconv.Atoi(durRaw)
	if err != nil {
		return models.InterviewEvent{}, errors.Wrap(ErrDurationRequired, "duration must be a whole number")
	}

	mt := f.MeetingType
	if mt == "" {
		mt = models.MeetingOnSite
	}
	et := f.EventType
	if et == "" {
		et = models.EventTechnicalInterview
	}

	e := models.InterviewEvent{
		PositionID:    positionID,
		EventType:     et,
		Title:         title,
		Description:   strings.TrimSpace(f.Description),
		StartDatetime: start,
		EndDatetime:   start.Add(time.Duration(minutes) * time.Minute),
		Duration:      &minutes,
		MeetingType:   mt,
	}
	if mt == models.MeetingRemote {
		e.MeetingLink = strings.TrimSpace(f.MeetingLink)
	} else {
		e.Location = strings.TrimSpace(f.Location)
	}
	return e, nil
}
