package ledger

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// XLSX stores the log as an Excel workbook, appending to its active sheet.
// The workbook is opened, updated and saved on every Append so it can be
// opened in a spreadsheet between scans.
type XLSX struct {
	path string
}

// NewXLSX returns a workbook store at path. The file is created on the
// first Append.
func NewXLSX(path string) *XLSX {
	return &XLSX{path: path}
}

// Append implements Appender.Append.
func (x *XLSX) Append(rec Record) error {
	f, created, err := x.open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogWrite, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrLogWrite, x.path, err)
	}

	next := len(rows) + 1
	if len(rows) == 0 {
		if err := setRow(f, sheet, 1, Header); err != nil {
			return fmt.Errorf("%w: write header: %v", ErrLogWrite, err)
		}
		next = 2
	}
	if err := setRow(f, sheet, next, rec.Row()); err != nil {
		return fmt.Errorf("%w: write row %d: %v", ErrLogWrite, next, err)
	}

	if created {
		err = f.SaveAs(x.path)
	} else {
		err = f.Save()
	}
	if err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrLogWrite, x.path, err)
	}
	if err := syncPath(x.path); err != nil {
		return fmt.Errorf("%w: sync %s: %v", ErrLogWrite, x.path, err)
	}
	return nil
}

func (x *XLSX) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(x.path)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, fmt.Errorf("open %s: %w", x.path, err)
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

// Rows implements Store.Rows.
func (x *XLSX) Rows() ([][]string, error) {
	f, err := excelize.OpenFile(x.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", x.path, err)
	}
	defer f.Close()

	return f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
}

// Close implements Store.Close.
func (x *XLSX) Close() error {
	return nil
}
