package report

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	sheetResults = "Results"
	sheetMetrics = "Metrics"
)

// SaveXLSX exports the normalized rows and the metric samples to a
// spreadsheet with a Results and a Metrics sheet.
func SaveXLSX(path string, headers []string, rows []Row, s *Series) error {
	sheet := excelize.NewFile()
	defer sheet.Close()

	if err := sheet.SetSheetName("Sheet1", sheetResults); err != nil {
		return err
	}
	for c, h := range headers {
		if err := setCell(sheet, sheetResults, c+1, 1, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, h := range headers {
			v, _ := row.Get(h)
			if err := setCell(sheet, sheetResults, c+1, r+2, v); err != nil {
				return err
			}
		}
	}

	if s != nil && !s.Empty() {
		if err := writeMetrics(sheet, s); err != nil {
			return err
		}
	}

	if err := sheet.SaveAs(path); err != nil {
		return errors.Wrapf(err, "unable to save %s", path)
	}
	return nil
}

func writeMetrics(sheet *excelize.File, s *Series) error {
	if _, err := sheet.NewSheet(sheetMetrics); err != nil {
		return err
	}
	if err := setCell(sheet, sheetMetrics, 1, 1, "Index"); err != nil {
		return err
	}
	col := 2
	longest := 0
	for _, name := range s.Names() {
		samples := s.Samples(name)
		if len(samples) == 0 {
			continue
		}
		if err := setCell(sheet, sheetMetrics, col, 1, name); err != nil {
			return err
		}
		for i, v := range samples {
			if err := setCell(sheet, sheetMetrics, col, i+2, v); err != nil {
				return err
			}
		}
		if len(samples) > longest {
			longest = len(samples)
		}
		col++
	}
	for i := 0; i < longest; i++ {
		if err := setCell(sheet, sheetMetrics, 1, i+2, i); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return errors.Wrapf(err, "invalid cell on sheet %s", sheet)
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return errors.Wrapf(err, "unable to write %s!%s", sheet, cell)
	}
	return nil
}
