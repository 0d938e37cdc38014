// Package reports renders tabular data into xlsx workbooks.
package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Column struct {
	Header string
	Key    string
	Width  float64
}

// Row maps a Column.Key to its cell text. Missing keys render empty.
type Row map[string]string

type Sheet struct {
	Name    string
	Columns []Column
	Rows    []Row
}

type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Render writes a single-sheet workbook with a bold header row.
func (e *Exporter) Render(sheet Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	header := make([]interface{}, len(sheet.Columns))
	for i, col := range sheet.Columns {
		header[i] = col.Header

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if col.Width > 0 {
			if err := f.SetColWidth(sheet.Name, name, name, col.Width); err != nil {
				return nil, fmt.Errorf("column width %s: %w", col.Key, err)
			}
		}
	}

	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if len(sheet.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(sheet.Columns), 1)
		if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
	}

	for r, row := range sheet.Rows {
		values := make([]interface{}, len(sheet.Columns))
		for i, col := range sheet.Columns {
			values[i] = row[col.Key]
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
