package takeoff

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"
)

const (
	SheetWalls   = "Walls"
	SheetRooms   = "Rooms"
	SheetSummary = "Summary"
)

// WriteXLSX writes the takeoff as a workbook with Walls, Rooms and Summary
// sheets.
func (t *Takeoff) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetWalls); err != nil {
		return err
	}
	for _, name := range []string{SheetRooms, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	wallRows := [][]any{{"Wall", "Length (m)", "Height (m)", "Gross (m²)", "Openings (m²)", "Net (m²)", "Doors", "Windows"}}
	for _, q := range t.Walls {
		wallRows = append(wallRows, []any{q.WallID, round(q.Length), round(q.Height), round(q.GrossArea), round(q.OpeningArea), round(q.NetArea), q.Doors, q.Windows})
	}

	roomRows := [][]any{{"Label", "Room", "Area (m²)"}}
	for _, q := range t.Rooms {
		var area any = ""
		if q.Area != nil {
			area = round(*q.Area)
		}
		roomRows = append(roomRows, []any{q.LabelID, q.Name, area})
	}

	s := t.Summary
	summaryRows := [][]any{
		{"Quantity", "Value"},
		{"Units", string(t.Units)},
		{"Walls", s.Walls},
		{"Doors", s.Doors},
		{"Windows", s.Windows},
		{"Wall length (m)", round(s.WallLength)},
		{"Gross wall area (m²)", round(s.GrossArea)},
		{"Opening area (m²)", round(s.OpeningArea)},
		{"Net wall area (m²)", round(s.NetArea)},
		{"Room area (m²)", round(s.RoomArea)},
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetWalls, wallRows},
		{SheetRooms, roomRows},
		{SheetSummary, summaryRows},
	}
	for _, sh := range sheets {
		if err := writeRows(f, sh.name, sh.rows, bold); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
