package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ActiveResume returns the currently active resume, or nil if none exists.
func (s *Store) ActiveResume(ctx context.Context) (*UserResume, error) {
	var r UserResume
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_name, file_name, content, is_active, uploaded_at
		 FROM user_resumes WHERE is_active ORDER BY uploaded_at DESC LIMIT 1`,
	).Scan(&r.ID, &r.UserName, &r.FileName, &r.Content, &r.IsActive, &r.UploadedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active resume: %w", err)
	}
	return &r, nil
}

// CreateResume registers a new resume and makes it the active one.
// Deactivation of all prior resumes and the insert happen in one transaction,
// so readers never observe two active rows.
func (s *Store) CreateResume(ctx context.Context, userName, fileName, content string) (*UserResume, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`UPDATE user_resumes SET is_active = FALSE WHERE is_active`,
	); err != nil {
		return nil, fmt.Errorf("failed to deactivate resumes: %w", err)
	}

	r := UserResume{UserName: userName, FileName: fileName, Content: content, IsActive: true}
	err = tx.QueryRow(ctx,
		`INSERT INTO user_resumes (user_name, file_name, content, is_active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id, uploaded_at`,
		userName, fileName, content,
	).Scan(&r.ID, &r.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit resume: %w", err)
	}
	return &r, nil
}

// ResumeByID retrieves a resume by ID, or nil if not found.
func (s *Store) ResumeByID(ctx context.Context, id uuid.UUID) (*UserResume, error) {
	var r UserResume
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_name, file_name, content, is_active, uploaded_at
		 FROM user_resumes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserName, &r.FileName, &r.Content, &r.IsActive, &r.UploadedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}
