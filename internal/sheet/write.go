package sheet

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteRow updates one data row by read-modify-write: download the workbook,
// mutate only the requested cells, re-upload. Cells not named in upd keep
// their current values. Concurrent external edits between the read and the
// write are not detected; last write wins.
func (a *Adapter) WriteRow(ctx context.Context, fileID string, rowIndex int, upd RowUpdate) error {
	f, err := a.open(ctx, fileID)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := a.allRows(f, fileID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return &Error{Op: "write", FileID: fileID, Err: fmt.Errorf("sheet has no header row")}
	}

	dataRows := len(rows) - 1
	if rowIndex < 2 || rowIndex-2 >= dataRows {
		return &RowRangeError{RowIndex: rowIndex, DataRows: dataRows}
	}

	sheetName := f.GetSheetList()[0]
	cols := headerIndex(rows[0])
	width := len(rows[0])

	// colFor appends a header cell for columns the sheet does not have yet.
	colFor := func(name string) (int, error) {
		if idx, ok := cols[name]; ok {
			return idx, nil
		}
		idx := width
		cell, err := excelize.CoordinatesToCellName(idx+1, 1)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return 0, err
		}
		cols[name] = idx
		width++
		return idx, nil
	}

	setCell := func(name, value string) error {
		idx, err := colFor(name)
		if err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(idx+1, rowIndex)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, cell, value)
	}

	var setErr error
	set := func(name string, value *string) {
		if setErr != nil || value == nil {
			return
		}
		setErr = setCell(name, *value)
	}
	setBool := func(name string, value *bool) {
		if setErr != nil || value == nil {
			return
		}
		setErr = setCell(name, FormatBool(*value))
	}

	set(ColUniqueID, upd.UniqueID)
	setBool(ColResumeGenerated, upd.ResumeGenerated)
	setBool(ColCoverLetterGenerated, upd.CoverLetterGenerated)
	set(ColRecommendations, upd.Recommendations)
	set(ColCompanyName, upd.CompanyName)
	set(ColGoogleDocURL, upd.GoogleDocURL)
	if setErr != nil {
		return &Error{Op: "write", FileID: fileID, Err: setErr}
	}

	return a.upload(ctx, f, fileID)
}
