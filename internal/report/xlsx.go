package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet of the XLSX export.
const SheetName = "Report"

type xlsxRenderer struct{}

func (r *xlsxRenderer) Format() Format { return FormatXLSX }

func (r *xlsxRenderer) Render(doc *Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetName, "A", "B", 32)
	_ = f.SetColWidth(SheetName, "C", "D", 14)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: "2C3E50"},
	})
	if err != nil {
		return nil, err
	}
	headingStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "34495E"},
	})
	if err != nil {
		return nil, err
	}

	row := 1
	if err := setRow(f, row, []string{doc.Title}, titleStyle); err != nil {
		return nil, err
	}
	row++
	for _, line := range doc.Info {
		if err := setRow(f, row, []string{line}, 0); err != nil {
			return nil, err
		}
		row++
	}

	for _, t := range doc.Tables() {
		row++
		if err := setRow(f, row, []string{t.Title}, headingStyle); err != nil {
			return nil, err
		}
		row++

		headerStyle, err := fillStyle(f, t.HeaderColor, true, "FFFFFF")
		if err != nil {
			return nil, err
		}
		if err := setRow(f, row, t.Header, headerStyle); err != nil {
			return nil, err
		}
		row++

		bodyStyle, err := fillStyle(f, t.BodyColor, false, "")
		if err != nil {
			return nil, err
		}
		for _, cells := range t.Rows {
			if err := setRow(f, row, cells, bodyStyle); err != nil {
				return nil, err
			}
			row++
		}

		if t.Total != nil {
			totalStyle, err := fillStyle(f, t.TotalColor, true, "")
			if err != nil {
				return nil, err
			}
			if err := setRow(f, row, t.Total, totalStyle); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// setRow writes cells as text starting at column A; a zero style is left unset.
func setRow(f *excelize.File, row int, cells []string, style int) error {
	for i, value := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(SheetName, cell, value); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
		if style != 0 {
			if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func fillStyle(f *excelize.File, color string, bold bool, fontColor string) (int, error) {
	s := &excelize.Style{
		Font: &excelize.Font{Bold: bold, Color: fontColor},
		Border: []excelize.Border{
			{Type: "left", Color: "808080", Style: 1},
			{Type: "top", Color: "808080", Style: 1},
			{Type: "right", Color: "808080", Style: 1},
			{Type: "bottom", Color: "808080", Style: 1},
		},
	}
	if color != "" {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(color, "#")}}
	}
	return f.NewStyle(s)
}
