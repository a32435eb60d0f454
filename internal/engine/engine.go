// Package engine reconciles the external job spreadsheet against the local
// database and drives content generation. One ProcessSheet call is one full
// pass over one spreadsheet; rows are handled sequentially and a failing row
// never aborts the cycle.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jordan/resume-pilot/internal/company"
	"github.com/jordan/resume-pilot/internal/db"
	"github.com/jordan/resume-pilot/internal/docs"
	"github.com/jordan/resume-pilot/internal/llm"
	"github.com/jordan/resume-pilot/internal/sheet"
)

const (
	// minScrapedLength is the floor under which scraped text is considered
	// low quality and the salvage path is considered.
	minScrapedLength = 100
	// minDescriptionLength is the floor for a usable description; below it
	// the job fails fast instead of burning generation calls.
	minDescriptionLength = 50
	// minSalvageLength is how much additional_instructions text must carry
	// before it is promoted into the description.
	minSalvageLength = 100

	salvagePrefix = "Job Description (from user input):\n\n"
)

// SheetAPI is the spreadsheet surface the engine needs.
type SheetAPI interface {
	ReadRows(ctx context.Context, fileID string) ([]sheet.Row, error)
	WriteRow(ctx context.Context, fileID string, rowIndex int, upd sheet.RowUpdate) error
}

// DocAPI creates and rewrites output documents.
type DocAPI interface {
	Create(ctx context.Context, folderID, title, resumeText, coverText string) (docs.Doc, error)
	Update(ctx context.Context, docID, resumeText, coverText string) (docs.Doc, error)
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Scraper fetches job description text for a posting URL.
type Scraper interface {
	Extract(ctx context.Context, urlStr string) (string, error)
}

// Store is the persistence surface the engine needs.
type Store interface {
	ActiveResume(ctx context.Context) (*db.UserResume, error)
	FindJobByURLAndResume(ctx context.Context, jobURL string, resumeID uuid.UUID) (*db.JobApplication, error)
	CreateJob(ctx context.Context, j *db.JobApplication) error
	UpdateJob(ctx context.Context, id uuid.UUID, upd db.JobUpdate) error
	AppendGeneratedResume(ctx context.Context, r *db.GeneratedResume) error
	AppendGeneratedCoverLetter(ctx context.Context, c *db.GeneratedCoverLetter) error
	LatestGeneratedResume(ctx context.Context, jobID uuid.UUID) (*db.GeneratedResume, error)
	LatestGeneratedCoverLetter(ctx context.Context, jobID uuid.UUID) (*db.GeneratedCoverLetter, error)
	ArchiveJobsNotSeen(ctx context.Context, resumeID uuid.UUID, excelFileID string, seenUniqueIDs []string) (int64, error)
}

// Engine wires the spreadsheet, document, generation, scraping and storage
// adapters into the reconciliation pass.
type Engine struct {
	Sheets  SheetAPI
	Docs    DocAPI
	Gen     Generator
	Scraper Scraper
	Store   Store

	// Now is the clock used for unique id minting; nil means time.Now.
	Now func() time.Time
}

// CycleResult summarizes one ProcessSheet pass.
type CycleResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
	Total     int `json:"total"`
}

// ProcessSheet runs one reconciliation pass over the spreadsheet named by
// cfg. Every row is matched to a job application (creating one on first
// sight), rows needing work are processed, and jobs that have disappeared
// from the sheet are archived when the config asks for cleanup. With force
// set, completion flags are ignored and every requesting row is redone.
func (e *Engine) ProcessSheet(ctx context.Context, cfg *db.MonitorConfig, force bool) (CycleResult, error) {
	rows, err := e.Sheets.ReadRows(ctx, cfg.ExcelFileID)
	if err != nil {
		return CycleResult{}, fmt.Errorf("failed to read spreadsheet %s: %w", cfg.ExcelFileID, err)
	}

	resume, err := e.Store.ActiveResume(ctx)
	if err != nil {
		return CycleResult{}, fmt.Errorf("failed to load active resume: %w", err)
	}
	if resume == nil {
		return CycleResult{}, fmt.Errorf("no active resume on file; upload one before monitoring")
	}

	res := CycleResult{Total: len(rows)}
	seen := make([]string, 0, len(rows))

	for _, row := range rows {
		job, err := e.matchOrCreate(ctx, row, resume, cfg.ExcelFileID)
		if err != nil {
			log.Printf("[ENGINE] row %d: %v", row.RowIndex, err)
			res.Errors++
			continue
		}
		seen = append(seen, job.UniqueID)

		// Rows arriving without an id get the minted one written back right
		// away, so the sheet carries it even if the row is skipped or fails.
		if IsBlankID(row.UniqueID) {
			uid := job.UniqueID
			if werr := e.Sheets.WriteRow(ctx, cfg.ExcelFileID, row.RowIndex, sheet.RowUpdate{UniqueID: &uid}); werr != nil {
				log.Printf("[ENGINE] row %d: failed to write unique id to sheet: %v", row.RowIndex, werr)
			}
		}

		if reason := skipReason(row, job, force); reason != "" {
			log.Printf("[ENGINE] skipping %s: %s", job.UniqueID, reason)
			res.Skipped++
			continue
		}

		if err := e.processJob(ctx, cfg, job, resume, force); err != nil {
			log.Printf("[ENGINE] job %s failed: %v", job.UniqueID, err)
			e.markFailed(ctx, job)
			res.Errors++
			continue
		}
		res.Processed++
	}

	if cfg.AutoCleanupOldJobs && len(seen) > 0 {
		n, err := e.Store.ArchiveJobsNotSeen(ctx, resume.ID, cfg.ExcelFileID, seen)
		if err != nil {
			log.Printf("[ENGINE] archive pass failed: %v", err)
		} else if n > 0 {
			log.Printf("[ENGINE] archived %d jobs no longer present in the sheet", n)
		}
	}

	log.Printf("[ENGINE] cycle done: %d processed, %d skipped, %d errors of %d rows",
		res.Processed, res.Skipped, res.Errors, res.Total)
	return res, nil
}

// matchOrCreate resolves a sheet row to its job application. Identity is the
// job URL paired with the active resume, not the unique id: the sheet's id
// cell is user-editable and may be blank. On a match the mutable request
// fields are refreshed from the row; the description is only overwritten
// when the sheet actually carries one, so scraped text survives.
func (e *Engine) matchOrCreate(ctx context.Context, row sheet.Row, resume *db.UserResume, excelFileID string) (*db.JobApplication, error) {
	job, err := e.Store.FindJobByURLAndResume(ctx, row.JobURL, resume.ID)
	if err != nil {
		return nil, fmt.Errorf("job lookup failed: %w", err)
	}

	if job == nil {
		uid := row.UniqueID
		if IsBlankID(uid) {
			uid = NewUniqueID(e.now())
		}
		rowIndex := row.RowIndex
		job = &db.JobApplication{
			UniqueID:               uid,
			JobURL:                 row.JobURL,
			JobDescription:         row.JobDescription,
			CompanyName:            strings.TrimSpace(row.CompanyName),
			AdditionalInstructions: row.AdditionalInstructions,
			GenerateResume:         row.GenerateResume,
			GenerateCoverLetter:    row.GenerateCoverLetter,
			GenerateNewResume:      row.GenerateNewResume,
			ResumeGenerated:        row.ResumeGenerated,
			CoverLetterGenerated:   row.CoverLetterGenerated,
			ExcelRowIndex:          &rowIndex,
			ExcelFileID:            excelFileID,
			UserResumeID:           &resume.ID,
			Status:                 db.StatusPending,
		}
		if err := e.Store.CreateJob(ctx, job); err != nil {
			return nil, fmt.Errorf("job creation failed: %w", err)
		}
		log.Printf("[ENGINE] created job %s for row %d", job.UniqueID, rowIndex)
		return job, nil
	}

	rowIndex := row.RowIndex
	genResume := row.GenerateResume
	genCover := row.GenerateCoverLetter
	genNew := row.GenerateNewResume
	instructions := row.AdditionalInstructions
	upd := db.JobUpdate{
		GenerateResume:         &genResume,
		GenerateCoverLetter:    &genCover,
		GenerateNewResume:      &genNew,
		AdditionalInstructions: &instructions,
		ExcelRowIndex:          &rowIndex,
		ExcelFileID:            &excelFileID,
	}
	if desc := strings.TrimSpace(row.JobDescription); desc != "" {
		upd.JobDescription = &desc
		job.JobDescription = desc
	}
	if err := e.Store.UpdateJob(ctx, job.ID, upd); err != nil {
		return nil, fmt.Errorf("job refresh failed: %w", err)
	}
	job.GenerateResume = genResume
	job.GenerateCoverLetter = genCover
	job.GenerateNewResume = genNew
	job.AdditionalInstructions = instructions
	job.ExcelRowIndex = &rowIndex
	job.ExcelFileID = excelFileID
	return job, nil
}

// skipReason decides whether a row needs no work this cycle. Force bypasses
// both checks: a forced cycle re-evaluates every row, letting config-level
// policy (always_generate_cover_letter) apply even where the row itself asks
// for nothing.
func skipReason(row sheet.Row, job *db.JobApplication, force bool) string {
	if force {
		return ""
	}
	if row.ResumeGenerated && row.CoverLetterGenerated &&
		job.ResumeGenerated && job.CoverLetterGenerated {
		return "all content already generated"
	}
	if !job.GenerateResume && !job.GenerateCoverLetter {
		return "no generation requested"
	}
	return ""
}

// processJob runs the generation pipeline for a single job: obtain a usable
// description, settle the company name, generate the requested artifacts,
// upsert the output document, persist results and write status back into the
// sheet row.
func (e *Engine) processJob(ctx context.Context, cfg *db.MonitorConfig, job *db.JobApplication, resume *db.UserResume, force bool) error {
	if err := e.ensureDescription(ctx, job); err != nil {
		return err
	}
	if err := e.ensureCompanyName(ctx, job); err != nil {
		return err
	}

	plan := DecideWork(cfg, job, force)
	if plan.Empty() {
		log.Printf("[ENGINE] %s: nothing left to generate", job.UniqueID)
	}

	var (
		resumeGenerated bool
		coverGenerated  bool
		resumeText      string
		coverText       string
		recommendations string
	)

	if plan.GenerateCoverLetter {
		text, err := e.Gen.Generate(ctx,
			llm.CoverLetterPrompt(job.JobDescription, resume.Content, job.AdditionalInstructions), 0)
		if err != nil {
			log.Printf("[ENGINE] %s: cover letter generation failed: %v", job.UniqueID, err)
		} else {
			coverText = text
			coverGenerated = true
		}
	}

	switch {
	case plan.GenerateResume:
		text, err := e.Gen.Generate(ctx,
			llm.ResumePrompt(job.JobDescription, resume.Content, job.AdditionalInstructions), 0)
		if err != nil {
			log.Printf("[ENGINE] %s: resume generation failed: %v", job.UniqueID, err)
		} else {
			resumeText = text
			resumeGenerated = true
			rec, recErr := e.Gen.Generate(ctx,
				llm.RecommendationsPrompt(job.JobDescription, resume.Content), 0)
			if recErr != nil {
				log.Printf("[ENGINE] %s: recommendations generation failed: %v", job.UniqueID, recErr)
			} else {
				recommendations = rec
			}
		}
	case plan.RecommendationsOnly:
		if cfg.GenerateRecommendations {
			rec, err := e.Gen.Generate(ctx,
				llm.RecommendationsPrompt(job.JobDescription, resume.Content), 0)
			if err != nil {
				log.Printf("[ENGINE] %s: recommendations generation failed: %v", job.UniqueID, err)
			} else {
				recommendations = rec
			}
		}
		// The resume request is satisfied by keeping the uploaded resume
		// and attaching recommendations to it.
		resumeGenerated = true
	}

	docID, docURL, err := e.existingDoc(ctx, job.ID)
	if err != nil {
		return err
	}

	if resumeText != "" || coverText != "" {
		// The document always carries a resume section; fall back to the
		// uploaded resume when only a cover letter was produced this cycle.
		bodyResume := resumeText
		if bodyResume == "" {
			bodyResume = resume.Content
		}
		var d docs.Doc
		if docID != "" {
			d, err = e.Docs.Update(ctx, docID, bodyResume, coverText)
		} else {
			title := fmt.Sprintf("%s - Resume & Cover Letter", job.CompanyName)
			d, err = e.Docs.Create(ctx, cfg.OutputFolderID, title, bodyResume, coverText)
		}
		if err != nil {
			return fmt.Errorf("document upsert failed: %w", err)
		}
		docID, docURL = d.ID, d.URL
		resumeText = bodyResume
	}

	if resumeGenerated || resumeText != "" {
		content := resumeText
		if content == "" {
			content = resume.Content
		}
		gr := &db.GeneratedResume{
			JobApplicationID: job.ID,
			Content:          content,
			Recommendations:  recommendations,
			GoogleDocID:      docID,
			GoogleDocURL:     docURL,
			CompanyName:      job.CompanyName,
		}
		if err := e.Store.AppendGeneratedResume(ctx, gr); err != nil {
			return fmt.Errorf("failed to record generated resume: %w", err)
		}
	}
	if coverGenerated {
		gc := &db.GeneratedCoverLetter{
			JobApplicationID: job.ID,
			Content:          coverText,
			GoogleDocID:      docID,
			GoogleDocURL:     docURL,
		}
		if err := e.Store.AppendGeneratedCoverLetter(ctx, gc); err != nil {
			return fmt.Errorf("failed to record generated cover letter: %w", err)
		}
	}

	// Completion flags only ever move forward; a cycle that produced nothing
	// new must not clear work done earlier.
	resumeDone := job.ResumeGenerated || resumeGenerated
	coverDone := job.CoverLetterGenerated || coverGenerated
	status := StatusFor(resumeDone, coverDone, job.Status)
	upd := db.JobUpdate{
		ResumeGenerated:      &resumeDone,
		CoverLetterGenerated: &coverDone,
		Status:               &status,
	}
	if err := e.Store.UpdateJob(ctx, job.ID, upd); err != nil {
		return fmt.Errorf("failed to persist completion state: %w", err)
	}
	job.ResumeGenerated = resumeDone
	job.CoverLetterGenerated = coverDone
	job.Status = status

	if job.ExcelRowIndex != nil {
		wu := sheet.RowUpdate{
			ResumeGenerated:      &resumeDone,
			CoverLetterGenerated: &coverDone,
			CompanyName:          &job.CompanyName,
		}
		if recommendations != "" {
			wu.Recommendations = &recommendations
		}
		if docURL != "" {
			wu.GoogleDocURL = &docURL
		}
		if err := e.Sheets.WriteRow(ctx, cfg.ExcelFileID, *job.ExcelRowIndex, wu); err != nil {
			return fmt.Errorf("sheet write-back failed: %w", err)
		}
	}
	return nil
}

// ensureDescription guarantees the job has a usable description before any
// generation call, scraping the posting URL when the sheet left the cell
// empty. When scraping yields junk and the additional_instructions cell is
// long enough to plausibly hold a pasted description, that text is promoted
// into the description once and the instructions are cleared.
func (e *Engine) ensureDescription(ctx context.Context, job *db.JobApplication) error {
	if strings.TrimSpace(job.JobDescription) == "" {
		var desc string
		if job.JobURL != "" {
			text, err := e.Scraper.Extract(ctx, job.JobURL)
			if err != nil {
				log.Printf("[ENGINE] %s: scrape of %s failed: %v", job.UniqueID, job.JobURL, err)
			} else {
				desc = text
			}
		}

		var upd db.JobUpdate
		if lowQuality(desc) && len(job.AdditionalInstructions) > minSalvageLength {
			log.Printf("[ENGINE] %s: promoting additional_instructions into job description", job.UniqueID)
			desc = salvagePrefix + job.AdditionalInstructions
			cleared := ""
			job.AdditionalInstructions = ""
			upd.AdditionalInstructions = &cleared
		}
		job.JobDescription = desc
		upd.JobDescription = &desc
		if err := e.Store.UpdateJob(ctx, job.ID, upd); err != nil {
			return fmt.Errorf("failed to persist description: %w", err)
		}
	}

	if len(job.JobDescription) < minDescriptionLength || hasErrorMarker(job.JobDescription) {
		return &ContentQualityError{
			UniqueID: job.UniqueID,
			Reason:   "no usable job description; paste the posting text into the additional_instructions column",
		}
	}
	return nil
}

// ensureCompanyName fills the company name once from the description or URL.
// A name already on the job, whether user-supplied or previously extracted,
// is never overwritten.
func (e *Engine) ensureCompanyName(ctx context.Context, job *db.JobApplication) error {
	if strings.TrimSpace(job.CompanyName) != "" {
		return nil
	}
	name := company.Extract(job.JobDescription, job.JobURL)
	job.CompanyName = name
	if err := e.Store.UpdateJob(ctx, job.ID, db.JobUpdate{CompanyName: &name}); err != nil {
		return fmt.Errorf("failed to persist company name: %w", err)
	}
	return nil
}

// existingDoc finds the document already attached to a job's latest
// artifacts, checking resumes first then cover letters.
func (e *Engine) existingDoc(ctx context.Context, jobID uuid.UUID) (docID, docURL string, err error) {
	gr, err := e.Store.LatestGeneratedResume(ctx, jobID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load latest generated resume: %w", err)
	}
	if gr != nil && gr.GoogleDocID != "" {
		return gr.GoogleDocID, gr.GoogleDocURL, nil
	}
	gc, err := e.Store.LatestGeneratedCoverLetter(ctx, jobID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load latest generated cover letter: %w", err)
	}
	if gc != nil && gc.GoogleDocID != "" {
		return gc.GoogleDocID, gc.GoogleDocURL, nil
	}
	return "", "", nil
}

func (e *Engine) markFailed(ctx context.Context, job *db.JobApplication) {
	status := db.StatusFailed
	if err := e.Store.UpdateJob(ctx, job.ID, db.JobUpdate{Status: &status}); err != nil {
		log.Printf("[ENGINE] %s: failed to mark job failed: %v", job.UniqueID, err)
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// lowQuality reports whether scraped text is too short or carries one of the
// scraper's advisory markers instead of real content.
func lowQuality(desc string) bool {
	if len(desc) < minScrapedLength {
		return true
	}
	for _, marker := range []string{"Unable to extract", "blocked the request", "Error"} {
		if strings.Contains(desc, marker) {
			return true
		}
	}
	return false
}

// hasErrorMarker reports whether the leading portion of a description looks
// like an error message rather than posting text.
func hasErrorMarker(desc string) bool {
	head := desc
	if len(head) > 100 {
		head = head[:100]
	}
	return strings.Contains(head, "Error")
}
