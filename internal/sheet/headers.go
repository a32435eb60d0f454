package sheet

import (
	"context"

	"github.com/xuri/excelize/v2"
)

// EnsureHeaders rewrites the header row to the canonical set when the sheet
// is empty or has fewer canonical columns than expected. Existing data rows
// are preserved by positional copy; a sheet that already has the full header
// width only gets its header names rewritten.
func (a *Adapter) EnsureHeaders(ctx context.Context, fileID string) error {
	f, err := a.open(ctx, fileID)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := a.allRows(f, fileID)
	if err != nil {
		return err
	}

	if len(rows) == 0 || len(rows[0]) < len(displayHeaders) {
		rebuilt, err := rebuildWithHeaders(rows)
		if err != nil {
			return &Error{Op: "headers", FileID: fileID, Err: err}
		}
		defer func() { _ = rebuilt.Close() }()
		return a.upload(ctx, rebuilt, fileID)
	}

	// Full width already: rename headers in place.
	sheetName := f.GetSheetList()[0]
	for i, h := range displayHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return &Error{Op: "headers", FileID: fileID, Err: err}
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return &Error{Op: "headers", FileID: fileID, Err: err}
		}
	}
	return a.upload(ctx, f, fileID)
}

// rebuildWithHeaders creates a fresh workbook with the canonical header row
// and the original data rows copied positionally.
func rebuildWithHeaders(rows [][]string) (*excelize.File, error) {
	out := excelize.NewFile()
	sheetName := out.GetSheetList()[0]

	for i, h := range displayHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := out.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	if len(rows) > 1 {
		for r, raw := range rows[1:] {
			for c, value := range raw {
				if value == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+2)
				if err != nil {
					return nil, err
				}
				if err := out.SetCellValue(sheetName, cell, value); err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}
