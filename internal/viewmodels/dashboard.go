package viewmodels

import "github.com/tgienger/drt/internal/models"

// DashboardLimit caps the recent and upcoming lists
const DashboardLimit = 5

var interviewingStatuses = map[models.Status]bool{
	models.StatusCodingTest:         true,
	models.StatusTechnicalInterview: true,
	models.StatusCulturalFit:        true,
	models.StatusFinalInterview:     true,
}

type DashboardStats struct {
	Total        int
	Applied      int
	Interviewing int
	Offer        int
}

func ComputeDashboardStats(positions []models.Position) DashboardStats {
	s := DashboardStats{Total: len(positions)}
	for _, p := range positions {
		switch {
		case p.CurrentStatus == models.StatusApplied:
			s.Applied++
		case interviewingStatuses[p.CurrentStatus]:
			s.Interviewing++
		case p.CurrentStatus == models.StatusOffer:
			s.Offer++
		}
	}
	return s
}

// Dashboard is the dashboard page's data. Recent and Upcoming keep the
// order the backend returned.
type Dashboard struct {
	Stats    DashboardStats
	Recent   []models.Position
	Upcoming []models.InterviewEvent
}

func BuildDashboard(positions []models.Position, upcoming []models.InterviewEvent) Dashboard {
	return Dashboard{
		Stats:    ComputeDashboardStats(positions),
		Recent:   firstN(positions, DashboardLimit),
		Upcoming: firstN(upcoming, DashboardLimit),
	}
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
