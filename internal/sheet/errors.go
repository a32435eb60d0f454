package sheet

import "fmt"

// Error represents a spreadsheet adapter failure: the file could not be
// downloaded, parsed or uploaded.
type Error struct {
	Op     string
	FileID string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sheet %s failed for %s: %v", e.Op, e.FileID, e.Err)
	}
	return fmt.Sprintf("sheet %s failed for %s", e.Op, e.FileID)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RowRangeError reports a write-back targeting a row outside the sheet's
// current data rows, typically because the sheet shrank between read and
// write. Nothing is uploaded when this is returned.
type RowRangeError struct {
	RowIndex int
	DataRows int
}

func (e *RowRangeError) Error() string {
	return fmt.Sprintf("row index %d out of range: sheet has %d data rows", e.RowIndex, e.DataRows)
}
