package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, unique_id, job_url, job_description, company_name,
	additional_instructions, generate_resume, generate_cover_letter,
	generate_new_resume, resume_generated, cover_letter_generated,
	excel_row_index, excel_file_id, user_resume_id, status, created_at, updated_at`

func scanJob(row pgx.Row) (*JobApplication, error) {
	var j JobApplication
	err := row.Scan(&j.ID, &j.UniqueID, &j.JobURL, &j.JobDescription, &j.CompanyName,
		&j.AdditionalInstructions, &j.GenerateResume, &j.GenerateCoverLetter,
		&j.GenerateNewResume, &j.ResumeGenerated, &j.CoverLetterGenerated,
		&j.ExcelRowIndex, &j.ExcelFileID, &j.UserResumeID, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// FindJobByURLAndResume looks up a job application by its URL and the resume
// it was created against. This, not unique_id, is the identity key during
// reconciliation: unique ids may be freshly minted for legacy rows, but the
// URL+resume pair is stable.
func (s *Store) FindJobByURLAndResume(ctx context.Context, jobURL string, resumeID uuid.UUID) (*JobApplication, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_applications
		 WHERE job_url = $1 AND user_resume_id = $2
		 ORDER BY created_at LIMIT 1`,
		jobURL, resumeID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find job application: %w", err)
	}
	return j, nil
}

// JobByUniqueID retrieves a job application by its unique id, or nil.
func (s *Store) JobByUniqueID(ctx context.Context, uniqueID string) (*JobApplication, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_applications WHERE unique_id = $1`,
		uniqueID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job application: %w", err)
	}
	return j, nil
}

// CreateJob inserts a new job application and fills in its generated fields.
func (s *Store) CreateJob(ctx context.Context, j *JobApplication) error {
	if j.Status == "" {
		j.Status = StatusPending
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO job_applications
		   (unique_id, job_url, job_description, company_name,
		    additional_instructions, generate_resume, generate_cover_letter,
		    generate_new_resume, resume_generated, cover_letter_generated,
		    excel_row_index, excel_file_id, user_resume_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at, updated_at`,
		j.UniqueID, j.JobURL, j.JobDescription, j.CompanyName,
		j.AdditionalInstructions, j.GenerateResume, j.GenerateCoverLetter,
		j.GenerateNewResume, j.ResumeGenerated, j.CoverLetterGenerated,
		j.ExcelRowIndex, j.ExcelFileID, j.UserResumeID, j.Status,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job application: %w", err)
	}
	return nil
}

// UpdateJob applies the non-nil fields of upd to a job application.
func (s *Store) UpdateJob(ctx context.Context, id uuid.UUID, upd JobUpdate) error {
	query := `UPDATE job_applications SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	set := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, argNum)
		args = append(args, value)
		argNum++
	}

	if upd.JobDescription != nil {
		set("job_description", *upd.JobDescription)
	}
	if upd.CompanyName != nil {
		set("company_name", *upd.CompanyName)
	}
	if upd.AdditionalInstructions != nil {
		set("additional_instructions", *upd.AdditionalInstructions)
	}
	if upd.GenerateResume != nil {
		set("generate_resume", *upd.GenerateResume)
	}
	if upd.GenerateCoverLetter != nil {
		set("generate_cover_letter", *upd.GenerateCoverLetter)
	}
	if upd.GenerateNewResume != nil {
		set("generate_new_resume", *upd.GenerateNewResume)
	}
	if upd.ResumeGenerated != nil {
		set("resume_generated", *upd.ResumeGenerated)
	}
	if upd.CoverLetterGenerated != nil {
		set("cover_letter_generated", *upd.CoverLetterGenerated)
	}
	if upd.ExcelRowIndex != nil {
		set("excel_row_index", *upd.ExcelRowIndex)
	}
	if upd.ExcelFileID != nil {
		set("excel_file_id", *upd.ExcelFileID)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}

	query += fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update job application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job application not found: %s", id)
	}
	return nil
}

// ArchiveJobsNotSeen marks jobs for a resume and spreadsheet as archived when
// their unique id was not present in that spreadsheet's latest fetch. Scoping
// by excel_file_id keeps one sheet's cleanup from touching jobs that belong
// to another monitored sheet. Jobs are never deleted.
func (s *Store) ArchiveJobsNotSeen(ctx context.Context, resumeID uuid.UUID, excelFileID string, seenUniqueIDs []string) (int64, error) {
	result, err := s.pool.Exec(ctx,
		`UPDATE job_applications
		 SET status = $1, updated_at = NOW()
		 WHERE user_resume_id = $2 AND excel_file_id = $3
		   AND status <> $1 AND NOT (unique_id = ANY($4))`,
		StatusArchived, resumeID, excelFileID, seenUniqueIDs,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to archive jobs: %w", err)
	}
	return result.RowsAffected(), nil
}
