// README: XLSX workbook reading via excelize, decoupled from normalization.
package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// OpenWorkbook reads every sheet of an XLSX file into RawSheets. The first
// row of each sheet is treated as the header.
func OpenWorkbook(path string) ([]RawSheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var sheets []RawSheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheet := RawSheet{Name: name}
		if len(rows) > 0 {
			sheet.Header = rows[0]
			sheet.Rows = rows[1:]
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// LoadWorkbook opens and normalizes a multi-sheet workbook in one step.
func LoadWorkbook(path string) (*Table, error) {
	sheets, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	return Normalize(sheets)
}
