// Package report renders working-hours reporting views for staff.
package report

import (
	"fmt"
	"io"

	"salondesk/internal/model"

	"github.com/xuri/excelize/v2"
)

var weekColumns = []string{"Day", "Opens", "Closes", "Closed"}

// WriteWeek renders the seven effective rows of a business's week as an
// xlsx workbook. Rows are written in the order given; callers pass the
// reconciled Monday-first week.
func WriteWeek(rows []model.WorkingHourRow, wr io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Working hours"
	f.SetSheetName("Sheet1", sheet)

	if err := writeHeader(f, sheet); err != nil {
		return err
	}

	for i, row := range rows {
		values := []any{string(row.DayOfWeek), row.OpensAt, row.ClosesAt, ""}
		if row.IsClosed {
			values[1] = "—"
			values[2] = "—"
			values[3] = "closed"
		}
		for col, val := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("write row %s: %w", row.DayOfWeek, err)
			}
		}
	}

	return f.Write(wr)
}

func writeHeader(f *excelize.File, sheet string) error {
	for i, col := range weekColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(weekColumns), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}
	return nil
}
