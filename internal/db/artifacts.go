package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AppendGeneratedResume stores a new generated resume. Rows are append-only;
// the latest row per job is the current artifact.
func (s *Store) AppendGeneratedResume(ctx context.Context, r *GeneratedResume) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO generated_resumes
		   (job_application_id, content, recommendations, google_doc_id, google_doc_url, company_name)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		r.JobApplicationID, r.Content, r.Recommendations, r.GoogleDocID, r.GoogleDocURL, r.CompanyName,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append generated resume: %w", err)
	}
	return nil
}

// AppendGeneratedCoverLetter stores a new generated cover letter.
func (s *Store) AppendGeneratedCoverLetter(ctx context.Context, c *GeneratedCoverLetter) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO generated_cover_letters
		   (job_application_id, content, google_doc_id, google_doc_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.JobApplicationID, c.Content, c.GoogleDocID, c.GoogleDocURL,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append generated cover letter: %w", err)
	}
	return nil
}

// LatestGeneratedResume returns the most recent generated resume for a job,
// or nil if none exists.
func (s *Store) LatestGeneratedResume(ctx context.Context, jobID uuid.UUID) (*GeneratedResume, error) {
	var r GeneratedResume
	err := s.pool.QueryRow(ctx,
		`SELECT id, job_application_id, content, recommendations,
		        google_doc_id, google_doc_url, company_name, created_at
		 FROM generated_resumes
		 WHERE job_application_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		jobID,
	).Scan(&r.ID, &r.JobApplicationID, &r.Content, &r.Recommendations,
		&r.GoogleDocID, &r.GoogleDocURL, &r.CompanyName, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest generated resume: %w", err)
	}
	return &r, nil
}

// LatestGeneratedCoverLetter returns the most recent generated cover letter
// for a job, or nil if none exists.
func (s *Store) LatestGeneratedCoverLetter(ctx context.Context, jobID uuid.UUID) (*GeneratedCoverLetter, error) {
	var c GeneratedCoverLetter
	err := s.pool.QueryRow(ctx,
		`SELECT id, job_application_id, content, google_doc_id, google_doc_url, created_at
		 FROM generated_cover_letters
		 WHERE job_application_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		jobID,
	).Scan(&c.ID, &c.JobApplicationID, &c.Content, &c.GoogleDocID, &c.GoogleDocURL, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest generated cover letter: %w", err)
	}
	return &c, nil
}

// CountGeneratedResumes returns how many generated resumes exist for a job.
func (s *Store) CountGeneratedResumes(ctx context.Context, jobID uuid.UUID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM generated_resumes WHERE job_application_id = $1`,
		jobID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count generated resumes: %w", err)
	}
	return n, nil
}
