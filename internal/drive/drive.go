// Package drive provides whole-file access to spreadsheets stored in Google
// Drive: export bytes, re-upload bytes, read metadata.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// SpreadsheetMIME is the export/upload format. Google Sheets are exported as
// xlsx and converted back on upload.
const SpreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Service wraps the Drive API for file-level operations.
type Service struct {
	drive *gdrive.Service
}

// NewService creates a Drive service authenticated with a service account
// credentials file.
func NewService(ctx context.Context, credentialsFile string) (*Service, error) {
	svc, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdrive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &Service{drive: svc}, nil
}

// Export downloads a spreadsheet as xlsx bytes.
func (s *Service) Export(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := s.drive.Files.Export(fileID, SpreadsheetMIME).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to export file %s: %w", fileID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read exported file %s: %w", fileID, err)
	}
	return data, nil
}

// Upload replaces a spreadsheet's content with the given xlsx bytes. Drive
// converts the upload back to the native sheet format.
func (s *Service) Upload(ctx context.Context, fileID string, content []byte) error {
	_, err := s.drive.Files.Update(fileID, &gdrive.File{}).
		Media(bytes.NewReader(content), googleapi.ContentType(SpreadsheetMIME)).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to upload file %s: %w", fileID, err)
	}
	return nil
}

// FileMeta is the subset of file metadata the monitor needs.
type FileMeta struct {
	ID           string
	Name         string
	ModifiedTime time.Time
}

// Metadata returns a file's name and modification time.
func (s *Service) Metadata(ctx context.Context, fileID string) (FileMeta, error) {
	f, err := s.drive.Files.Get(fileID).
		Fields("id", "name", "modifiedTime").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return FileMeta{}, fmt.Errorf("failed to get metadata for %s: %w", fileID, err)
	}

	meta := FileMeta{ID: f.Id, Name: f.Name}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			meta.ModifiedTime = t
		}
	}
	return meta, nil
}
