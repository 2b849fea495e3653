package viewmodels

import (
	"sort"
	"time"

	"github.com/tgienger/drt/internal/models"
)

// DefaultEventColor is used for "other" and unknown event types
const DefaultEventColor = "#646cff"

var eventColors = map[models.EventType]string{
	models.EventPhoneScreen:        "#0066cc",
	models.EventCodingTest:         "#7b1fa2",
	models.EventTechnicalInterview: "#2e7d32",
	models.EventCulturalFit:        "#00695c",
	models.EventFinalInterview:     "#c2185b",
}

// EventColor returns the background color of an event type
func EventColor(t models.EventType) string {
	if c, ok := eventColors[t]; ok {
		return c
	}
	return DefaultEventColor
}

type LegendEntry struct {
	Type  models.EventType
	Label string
	Color string
}

// Legend lists the five colored event types
func Legend() []LegendEntry {
	return []LegendEntry{
		{models.EventPhoneScreen, "Phone Screen", EventColor(models.EventPhoneScreen)},
		{models.EventCodingTest, "Coding Test", EventColor(models.EventCodingTest)},
		{models.EventTechnicalInterview, "Technical", EventColor(models.EventTechnicalInterview)},
		{models.EventCulturalFit, "Cultural Fit", EventColor(models.EventCulturalFit)},
		{models.EventFinalInterview, "Final", EventColor(models.EventFinalInterview)},
	}
}

// CalendarItem is an event ready to be placed on the calendar.
// Event keeps the raw record for the detail overlay.
type CalendarItem struct {
	ID    int64
	Title string
	Start time.Time
	End   time.Time
	Color string
	Event models.InterviewEvent
}

// Calendar is the calendar page's data
type Calendar struct {
	Items     []CalendarItem
	Positions map[int64]models.Position
}

// BuildCalendar maps events to calendar items and indexes positions by id
func BuildCalendar(events []models.InterviewEvent, positions []models.Position) Calendar {
	c := Calendar{
		Items:     make([]CalendarItem, 0, len(events)),
		Positions: make(map[int64]models.Position, len(positions)),
	}
	for _, p := range positions {
		c.Positions[p.ID] = p
	}
	for _, e := range events {
		c.Items = append(c.Items, CalendarItem{
			ID:    e.ID,
			Title: e.Title,
			Start: e.StartDatetime,
			End:   e.EndDatetime,
			Color: EventColor(e.EventType),
			Event: e,
		})
	}
	return c
}

// PositionOf returns the position an item belongs to, if it was loaded
func (c Calendar) PositionOf(item CalendarItem) (models.Position, bool) {
	p, ok := c.Positions[item.Event.PositionID]
	return p, ok
}

type Day struct {
	Date  time.Time
	Items []CalendarItem
}

// StartOfWeek returns midnight of the Sunday on or before t
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Week returns the seven days of the week containing anchor, each with the
// items starting that day in start order.
func (c Calendar) Week(anchor time.Time) []Day {
	start := StartOfWeek(anchor)
	days := make([]Day, 7)
	for i := range days {
		days[i].Date = start.AddDate(0, 0, i)
	}
	for _, item := range c.Items {
		// compare against calendar days, not 24h steps, so DST weeks work
		for i := range days {
			if !item.Start.Before(days[i].Date) && item.Start.Before(days[i].Date.AddDate(0, 0, 1)) {
				days[i].Items = append(days[i].Items, item)
				break
			}
		}
	}
	for i := range days {
		sort.SliceStable(days[i].Items, func(a, b int) bool {
			return days[i].Items[a].Start.Before(days[i].Items[b].Start)
		})
	}
	return days
}
