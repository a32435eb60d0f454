// Package sheet reads and writes the external job spreadsheet. The file is an
// xlsx workbook round-tripped through the file store as whole-file bytes; no
// cell-level patch API is assumed.
package sheet

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FileStore abstracts download and upload of the spreadsheet bytes.
// Implemented by the drive package.
type FileStore interface {
	Export(ctx context.Context, fileID string) ([]byte, error)
	Upload(ctx context.Context, fileID string, content []byte) error
}

// Canonical column names, in sheet order.
const (
	ColUniqueID               = "unique_id"
	ColJobURL                 = "job_url"
	ColJobDescription         = "job_description"
	ColAdditionalInstructions = "additional_instructions"
	ColGenerateResume         = "generate_resume"
	ColGenerateCover          = "generate_cover"
	ColGenerateNewResume      = "generate_new_resume"
	ColResumeGenerated        = "resume_generated"
	ColCoverLetterGenerated   = "cover_letter_generated"
	ColRecommendations        = "recommendations"
	ColCompanyName            = "company_name"
	ColGoogleDocURL           = "google_doc_url"
)

// displayHeaders are the human-facing header names written by EnsureHeaders,
// positionally matching the canonical column order.
var displayHeaders = []string{
	"Unique ID",
	"Job URL",
	"Job Description",
	"Additional Instructions",
	"Generate Resume",
	"Generate Cover",
	"Generate New Resume",
	"Resume Generated",
	"Cover Letter Generated",
	"Recommendations",
	"Company Name",
	"Google Doc URL",
}

// Row is one job opportunity as read from the spreadsheet.
type Row struct {
	UniqueID               string
	JobURL                 string
	JobDescription         string
	AdditionalInstructions string
	CompanyName            string
	GenerateResume         bool
	GenerateCoverLetter    bool
	GenerateNewResume      bool
	ResumeGenerated        bool
	CoverLetterGenerated   bool

	// RowIndex is the row's 1-based position in the sheet including the
	// header row; it round-trips into WriteRow.
	RowIndex int
}

// RowUpdate carries field changes for WriteRow. Nil fields are left
// untouched in the sheet, never blanked.
type RowUpdate struct {
	UniqueID             *string
	ResumeGenerated      *bool
	CoverLetterGenerated *bool
	Recommendations      *string
	CompanyName          *string
	GoogleDocURL         *string
}

// Adapter reads and writes spreadsheets through a FileStore.
type Adapter struct {
	Files FileStore
}

// NewAdapter returns an Adapter over the given file store.
func NewAdapter(files FileStore) *Adapter {
	return &Adapter{Files: files}
}

// ReadRows downloads the spreadsheet and returns its data rows. Column names
// are normalized before matching; missing canonical columns get defaults, so
// older or partial sheets never fail ingestion. Rows whose job_url and
// job_description are both empty after trimming are excluded.
func (a *Adapter) ReadRows(ctx context.Context, fileID string) ([]Row, error) {
	f, err := a.open(ctx, fileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := a.allRows(f, fileID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &Error{Op: "read", FileID: fileID, Err: fmt.Errorf("sheet has no header row")}
	}

	cols := headerIndex(rows[0])
	if _, hasURL := cols[ColJobURL]; !hasURL {
		if _, hasDesc := cols[ColJobDescription]; !hasDesc {
			return nil, &Error{Op: "read", FileID: fileID,
				Err: fmt.Errorf("sheet must contain either a %q or %q column", ColJobURL, ColJobDescription)}
		}
	}

	var out []Row
	for i, raw := range rows[1:] {
		cell := func(name, fallback string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(raw) {
				return fallback
			}
			return raw[idx]
		}

		jobURL := strings.TrimSpace(cell(ColJobURL, ""))
		jobDesc := strings.TrimSpace(cell(ColJobDescription, ""))
		if jobURL == "" && jobDesc == "" {
			continue
		}

		out = append(out, Row{
			UniqueID:               strings.TrimSpace(cell(ColUniqueID, "")),
			JobURL:                 jobURL,
			JobDescription:         jobDesc,
			AdditionalInstructions: cell(ColAdditionalInstructions, ""),
			CompanyName:            cell(ColCompanyName, ""),
			GenerateResume:         ParseBool(cell(ColGenerateResume, "yes")),
			GenerateCoverLetter:    ParseBool(cell(ColGenerateCover, "yes")),
			GenerateNewResume:      ParseBool(cell(ColGenerateNewResume, "yes")),
			ResumeGenerated:        ParseBool(cell(ColResumeGenerated, "no")),
			CoverLetterGenerated:   ParseBool(cell(ColCoverLetterGenerated, "no")),
			RowIndex:               i + 2,
		})
	}
	return out, nil
}

// ParseBool interprets a spreadsheet cell as a boolean using an explicit
// allow-list. Anything outside {yes, true, 1, y} is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "y":
		return true
	}
	return false
}

// FormatBool renders a boolean the way the sheet expects it.
func FormatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// NormalizeHeader maps a raw header cell to its canonical column name:
// trimmed, lower-cased, spaces replaced with underscores.
func NormalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

// headerIndex maps canonical column names to their zero-based positions.
// The first occurrence wins for duplicated headers.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(h)
		if name == "" {
			continue
		}
		if _, exists := cols[name]; !exists {
			cols[name] = i
		}
	}
	return cols
}

func (a *Adapter) open(ctx context.Context, fileID string) (*excelize.File, error) {
	data, err := a.Files.Export(ctx, fileID)
	if err != nil {
		return nil, &Error{Op: "download", FileID: fileID, Err: err}
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Op: "parse", FileID: fileID, Err: err}
	}
	return f, nil
}

// allRows returns every row of the workbook's first sheet.
func (a *Adapter) allRows(f *excelize.File, fileID string) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &Error{Op: "read", FileID: fileID, Err: fmt.Errorf("workbook has no sheets")}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &Error{Op: "read", FileID: fileID, Err: err}
	}
	return rows, nil
}

func (a *Adapter) upload(ctx context.Context, f *excelize.File, fileID string) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return &Error{Op: "encode", FileID: fileID, Err: err}
	}
	if err := a.Files.Upload(ctx, fileID, buf.Bytes()); err != nil {
		return &Error{Op: "upload", FileID: fileID, Err: err}
	}
	return nil
}
