package models

import "strings"

// Status is a position's current pipeline stage
type Status string

const (
	StatusApplied            Status = "applied"
	StatusScreening          Status = "screening"
	StatusCodingTest         Status = "coding_test"
	StatusTechnicalInterview Status = "technical_interview"
	StatusCulturalFit        Status = "cultural_fit"
	StatusFinalInterview     Status = "final_interview"
	StatusOffer              Status = "offer"
	StatusRejected           Status = "rejected"
	StatusAccepted           Status = "accepted"
)

// Statuses lists the pipeline stages in order
var Statuses = []Status{
	StatusApplied,
	StatusScreening,
	StatusCodingTest,
	StatusTechnicalInterview,
	StatusCulturalFit,
	StatusFinalInterview,
	StatusOffer,
	StatusRejected,
	StatusAccepted,
}

var statusLabels = map[Status]string{
	StatusApplied:            "Applied",
	StatusScreening:          "Resume Screening",
	StatusCodingTest:         "Coding Test",
	StatusTechnicalInterview: "Technical Interview",
	StatusCulturalFit:        "Cultural Fit Interview",
	StatusFinalInterview:     "Final Interview",
	StatusOffer:              "Offer Received",
	StatusRejected:           "Rejected",
	StatusAccepted:           "Accepted",
}

// Label returns the display name of the status
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return humanize(string(s))
}

// Known reports whether s is one of the nine pipeline stages
func (s Status) Known() bool {
	_, ok := statusLabels[s]
	return ok
}

// ProcessType tags a note with the stage it belongs to
type ProcessType string

const (
	ProcessGeneral            ProcessType = "general"
	ProcessCodingTest         ProcessType = "coding_test"
	ProcessTechnicalInterview ProcessType = "technical_interview"
	ProcessCulturalFit        ProcessType = "cultural_fit"
	ProcessFinalInterview     ProcessType = "final_interview"
)

// ProcessTypes is the order offered in the note form
var ProcessTypes = []ProcessType{
	ProcessGeneral,
	ProcessCodingTest,
	ProcessTechnicalInterview,
	ProcessCulturalFit,
	ProcessFinalInterview,
}

func (p ProcessType) Label() string {
	if p == ProcessGeneral {
		return "General Notes"
	}
	return Status(p).Label()
}

// EventType tags an interview event
type EventType string

const (
	EventPhoneScreen        EventType = "phone_screen"
	EventCodingTest         EventType = "coding_test"
	EventTechnicalInterview EventType = "technical_interview"
	EventCulturalFit        EventType = "cultural_fit"
	EventFinalInterview     EventType = "final_interview"
	EventOther              EventType = "other"
)

// EventTypes is the order offered in the event form
var EventTypes = []EventType{
	EventPhoneScreen,
	EventCodingTest,
	EventTechnicalInterview,
	EventCulturalFit,
	EventFinalInterview,
	EventOther,
}

func (e EventType) Label() string {
	switch e {
	case EventPhoneScreen:
		return "Phone Screen"
	case EventOther:
		return "Other"
	}
	return Status(e).Label()
}

// MeetingType is the modality of an event
type MeetingType string

const (
	MeetingOnSite MeetingType = "on-site"
	MeetingRemote MeetingType = "remote"
)

func (m MeetingType) Label() string {
	if m == MeetingRemote {
		return "Remote"
	}
	return "On-site"
}

// humanize turns "some_value" into "Some value"
func humanize(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
