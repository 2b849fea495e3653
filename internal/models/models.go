package models

import "time"

// Position represents a tracked job application to one company/role
type Position struct {
	ID              int64     `json:"id,omitempty"`
	CompanyName     string    `json:"company_name"`
	PositionTitle   string    `json:"position_title"`
	JobDescription  string    `json:"job_description"`
	RecruitingLink  string    `json:"recruiting_link"`
	CurrentStatus   Status    `json:"current_status"`
	SalaryRange     string    `json:"salary_range"`
	Location        string    `json:"location"`
	ApplicationDate Date      `json:"application_date"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// ProcessNote is a free-text note attached to a position, tagged by stage
type ProcessNote struct {
	ID          int64       `json:"id,omitempty"`
	PositionID  int64       `json:"position"`
	ProcessType ProcessType `json:"process_type"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty"`
}

// InterviewEvent is a scheduled interview-related event attached to a position
type InterviewEvent struct {
	ID            int64       `json:"id,omitempty"`
	PositionID    int64       `json:"position"`
	EventType     EventType   `json:"event_type"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	StartDatetime time.Time   `json:"start_datetime"`
	EndDatetime   time.Time   `json:"end_datetime"`
	Duration      *int        `json:"duration,omitempty"` // minutes
	MeetingType   MeetingType `json:"meeting_type,omitempty"`
	Location      string      `json:"location"`
	MeetingLink   string      `json:"meeting_link"`
	CreatedAt     time.Time   `json:"created_at,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at,omitempty"`
}

// JobInfo is what the backend extracts from a recruiting link
type JobInfo struct {
	CompanyName    string `json:"company_name"`
	PositionTitle  string `json:"position_title"`
	JobDescription string `json:"job_description"`
	Location       string `json:"location"`
	SalaryRange    string `json:"salary_range"`
	RecruitingLink string `json:"recruiting_link"`
	// JDText is set by backends that only return the raw posting text
	JDText string `json:"jd_text"`
}

// Description returns the extracted description, falling back to the raw text
func (j JobInfo) Description() string {
	if j.JobDescription != "" {
		return j.JobDescription
	}
	return j.JDText
}
