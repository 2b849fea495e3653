package export

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/drt/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	positionsSheet = "Positions"
	eventsSheet    = "Events"
	timeLayout     = "2006-01-02 15:04"
)

var positionHeaders = []string{"Company", "Title", "Status", "Location", "Salary", "Applied", "Link"}

var eventHeaders = []string{"Company", "Type", "Title", "Start", "End", "Meeting", "Location / Link"}

// Workbook renders one row per position on the first sheet and one row per
// event on the second.
func Workbook(positions []models.Position, events []models.InterviewEvent) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("close workbook")
		}
	}()

	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, positionHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "write positions header")
	}
	companies := make(map[int64]string, len(positions))
	rows := make([][]interface{}, 0, len(positions))
	for _, p := range positions {
		companies[p.ID] = p.CompanyName
		rows = append(rows, []interface{}{
			p.CompanyName,
			p.PositionTitle,
			p.CurrentStatus.Label(),
			p.Location,
			p.SalaryRange,
			p.ApplicationDate.String(),
			p.RecruitingLink,
		})
	}
	if _, err = writeRows(f, sheet, row, rows); err != nil {
		return nil, errors.Wrap(err, "write positions")
	}
	if err = f.SetSheetName(sheet, positionsSheet); err != nil {
		return nil, errors.Wrap(err, "rename positions sheet")
	}

	if _, err = f.NewSheet(eventsSheet); err != nil {
		return nil, errors.Wrap(err, "add events sheet")
	}
	row, err = writeHeader(f, eventsSheet, 0, eventHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "write events header")
	}
	rows = rows[:0]
	for _, e := range events {
		where := e.Location
		if e.MeetingType == models.MeetingRemote {
			where = e.MeetingLink
		}
		meeting := ""
		if e.MeetingType != "" {
			meeting = e.MeetingType.Label()
		}
		rows = append(rows, []interface{}{
			companies[e.PositionID],
			e.EventType.Label(),
			e.Title,
			formatTime(e.StartDatetime),
			formatTime(e.EndDatetime),
			meeting,
			where,
		})
	}
	if _, err = writeRows(f, eventsSheet, row, rows); err != nil {
		return nil, errors.Wrap(err, "write events")
	}

	return f.WriteToBuffer()
}

// WriteFile saves the workbook to path
func WriteFile(path string, positions []models.Position, events []models.InterviewEvent) error {
	buf, err := Workbook(positions, events)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}
