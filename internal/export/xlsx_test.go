package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tgienger/drt/internal/models"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook(t *testing.T) {
	positions := []models.Position{
		{ID: 1, CompanyName: "Acme", PositionTitle: "Backend Engineer", CurrentStatus: models.StatusScreening,
			Location: "Berlin", ApplicationDate: models.NewDate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))},
		{ID: 2, CompanyName: "Globex", PositionTitle: "SRE", CurrentStatus: models.StatusOffer},
	}
	start := time.Date(2024, 2, 10, 9, 30, 0, 0, time.Local)
	events := []models.InterviewEvent{
		{ID: 5, PositionID: 2, EventType: models.EventPhoneScreen, Title: "Intro", StartDatetime: start,
			EndDatetime: start.Add(30 * time.Minute), MeetingType: models.MeetingRemote, MeetingLink: "https://meet.example/x"},
	}

	path := filepath.Join(t.TempDir(), "positions.xlsx")
	require.NoError(t, WriteFile(path, positions, events))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	t.Run("positions sheet", func(t *testing.T) {
		rows, err := f.GetRows(positionsSheet)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		require.Equal(t, positionHeaders, rows[0])
		require.Equal(t, []string{"Acme", "Backend Engineer", "Resume Screening", "Berlin", "", "2024-02-01"}, rows[1])
		require.Equal(t, "Offer Received", rows[2][2])
	})

	t.Run("events sheet", func(t *testing.T) {
		rows, err := f.GetRows(eventsSheet)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, eventHeaders, rows[0])
		require.Equal(t, []string{"Globex", "Phone Screen", "Intro", "2024-02-10 09:30", "2024-02-10 10:00", "Remote", "https://meet.example/x"}, rows[1])
	})

	t.Run("empty lists still have headers", func(t *testing.T) {
		buf, err := Workbook(nil, nil)
		require.NoError(t, err)
		require.NotZero(t, buf.Len())
	})
}
