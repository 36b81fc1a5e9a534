package report

import (
	"bytes"
	"testing"

	"salondesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWeek(t *testing.T) {
	rows := []model.WorkingHourRow{
		{ID: 1, BusinessID: 7, DayOfWeek: model.Monday, OpensAt: "09:00", ClosesAt: "18:00"},
		{ID: 2, BusinessID: 7, DayOfWeek: model.Tuesday, IsClosed: true},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWeek(rows, &buf))
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Working hours"

	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Day", header)

	day, _ := f.GetCellValue(sheet, "A2")
	opens, _ := f.GetCellValue(sheet, "B2")
	assert.Equal(t, "Monday", day)
	assert.Equal(t, "09:00", opens)

	closedDay, _ := f.GetCellValue(sheet, "A3")
	closedMark, _ := f.GetCellValue(sheet, "D3")
	assert.Equal(t, "Tuesday", closedDay)
	assert.Equal(t, "closed", closedMark)
}

func TestWriteWeekEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWeek(nil, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Working hours", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Day", header)
}
