// Package report exports parsed parameter files to a spreadsheet workbook.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"brukerconv/pkg/paravision"
)

var headers = []interface{}{"Key", "Kind", "Value"}

// BuildWorkbook lays out one sheet per role present in scan, in the order of
// paravision.Roles. Each sheet lists the keys of its file in sorted order.
func BuildWorkbook(scan map[paravision.Role]paravision.Map) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	first := true
	for _, role := range paravision.Roles {
		params, ok := scan[role]
		if !ok {
			continue
		}
		sheet := string(role)
		if first {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				f.Close()
				return nil, err
			}
			first = false
		} else if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, err
		}

		if err := writeSheet(f, sheet, params, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	if first {
		f.Close()
		return nil, fmt.Errorf("no parameter files to export")
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, params paravision.Map, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	f.SetRowStyle(sheet, 1, 1, style)

	for i, key := range params.Keys() {
		value := params[key]
		var cell interface{} = value.String()
		if s, ok := value.(paravision.Scalar); ok {
			cell = float64(s)
		}
		row := []interface{}{key, value.Kind().String(), cell}
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return err
		}
	}

	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 14)
	f.SetColWidth(sheet, "C", "C", 60)
	return nil
}

// WriteWorkbook builds the workbook for scan and saves it to path
func WriteWorkbook(path string, scan map[paravision.Role]paravision.Map) error {
	f, err := BuildWorkbook(scan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook %s: %w", path, err)
	}
	return nil
}
