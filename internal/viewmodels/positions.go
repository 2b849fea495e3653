package viewmodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tgienger/drt/internal/models"
)

var (
	ErrCompanyRequired = errors.New("company name is required")
	ErrTitleRequired   = errors.New("position title is required")
	ErrLinkRequired    = errors.New("recruiting link is required")
)

// Statuses counted as "in progress" on the positions page
var inProgressStatuses = map[models.Status]bool{
	models.StatusScreening:          true,
	models.StatusCodingTest:         true,
	models.StatusTechnicalInterview: true,
	models.StatusCulturalFit:        true,
	models.StatusFinalInterview:     true,
}

// Summary is the header line of the positions page.
// InProgress+Accepted+Rejected+Other always equals Total.
type Summary struct {
	Total      int
	InProgress int
	Accepted   int
	Rejected   int
	Other      int
}

// Summarize buckets positions by status
func Summarize(positions []models.Position) Summary {
	s := Summary{Total: len(positions)}
	for _, p := range positions {
		switch {
		case inProgressStatuses[p.CurrentStatus]:
			s.InProgress++
		case p.CurrentStatus == models.StatusAccepted, p.CurrentStatus == models.StatusOffer:
			s.Accepted++
		case p.CurrentStatus == models.StatusRejected:
			s.Rejected++
		default:
			s.Other++
		}
	}
	return s
}

// PositionForm holds the fields of the new-position form
type PositionForm struct {
	CompanyName    string
	PositionTitle  string
	RecruitingLink string
	Location       string
	SalaryRange    string
	Status         models.Status
	JobDescription string
}

// NewPositionForm returns an empty form with the default status
func NewPositionForm() PositionForm {
	return PositionForm{Status: models.StatusApplied}
}

func (f PositionForm) Validate() error {
	if strings.TrimSpace(f.CompanyName) == "" {
		return ErrCompanyRequired
	}
	if strings.TrimSpace(f.PositionTitle) == "" {
		return ErrTitleRequired
	}
	return nil
}

// Position builds the create request; the application date is today's date
func (f PositionForm) Position(today time.Time) (models.Position, error) {
	if err := f.Validate(); err != nil {
		return models.Position{}, err
	}
	status := f.Status
	if status == "" {
		status = models.StatusApplied
	}
	return models.Position{
		CompanyName:     strings.TrimSpace(f.CompanyName),
		PositionTitle:   strings.TrimSpace(f.PositionTitle),
		RecruitingLink:  strings.TrimSpace(f.RecruitingLink),
		Location:        strings.TrimSpace(f.Location),
		SalaryRange:     strings.TrimSpace(f.SalaryRange),
		CurrentStatus:   status,
		JobDescription:  strings.TrimSpace(f.JobDescription),
		ApplicationDate: models.NewDate(today),
	}, nil
}

// JDLink returns the link to extract a job description from
func (f PositionForm) JDLink() (string, error) {
	link := strings.TrimSpace(f.RecruitingLink)
	if link == "" {
		return "", ErrLinkRequired
	}
	return link, nil
}

// ApplyJobInfo fills the form from an extraction result. Fields the user
// already typed are kept; the description is replaced when one came back.
func (f *PositionForm) ApplyJobInfo(info models.JobInfo) {
	fillEmpty(&f.CompanyName, info.CompanyName)
	fillEmpty(&f.PositionTitle, info.PositionTitle)
	fillEmpty(&f.Location, info.Location)
	fillEmpty(&f.SalaryRange, info.SalaryRange)
	fillEmpty(&f.RecruitingLink, info.RecruitingLink)
	if d := info.Description(); d != "" {
		f.JobDescription = d
	}
}

// ApplyJobInfoToPosition is ApplyJobInfo for an existing record
func ApplyJobInfoToPosition(p models.Position, info models.JobInfo) models.Position {
	fillEmpty(&p.CompanyName, info.CompanyName)
	fillEmpty(&p.PositionTitle, info.PositionTitle)
	fillEmpty(&p.Location, info.Location)
	fillEmpty(&p.SalaryRange, info.SalaryRange)
	if d := info.Description(); d != "" {
		p.JobDescription = d
	}
	return p
}

// PositionJDLink is JDLink for an existing record
func PositionJDLink(p models.Position) (string, error) {
	return PositionForm{RecruitingLink: p.RecruitingLink}.JDLink()
}

// WithStatus returns the full record with only the status replaced.
// Any status may follow any other.
func WithStatus(p models.Position, s models.Status) models.Position {
	p.CurrentStatus = s
	return p
}

func fillEmpty(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" && v != "" {
		*dst = v
	}
}
