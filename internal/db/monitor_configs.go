package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const configColumns = `id, excel_file_id, excel_file_name, output_folder_id,
	is_monitoring, last_checked, last_modified, generate_new_resume,
	generate_recommendations, always_generate_cover_letter,
	auto_cleanup_old_jobs, created_at, updated_at`

func scanConfig(row pgx.Row) (*MonitorConfig, error) {
	var c MonitorConfig
	err := row.Scan(&c.ID, &c.ExcelFileID, &c.ExcelFileName, &c.OutputFolderID,
		&c.IsMonitoring, &c.LastChecked, &c.LastModified, &c.GenerateNewResume,
		&c.GenerateRecommendations, &c.AlwaysGenerateCoverLetter,
		&c.AutoCleanupOldJobs, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertMonitorConfig creates or updates the config for a spreadsheet, keyed
// by excel_file_id, and fills in generated fields on c.
func (s *Store) UpsertMonitorConfig(ctx context.Context, c *MonitorConfig) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO monitor_configs
		   (excel_file_id, excel_file_name, output_folder_id, is_monitoring,
		    generate_new_resume, generate_recommendations,
		    always_generate_cover_letter, auto_cleanup_old_jobs, last_modified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (excel_file_id) DO UPDATE SET
		   excel_file_name = $2, output_folder_id = $3, is_monitoring = $4,
		   generate_new_resume = $5, generate_recommendations = $6,
		   always_generate_cover_letter = $7, auto_cleanup_old_jobs = $8,
		   updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		c.ExcelFileID, c.ExcelFileName, c.OutputFolderID, c.IsMonitoring,
		c.GenerateNewResume, c.GenerateRecommendations,
		c.AlwaysGenerateCoverLetter, c.AutoCleanupOldJobs,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert monitor config: %w", err)
	}
	return nil
}

// SetMonitoring flips the is_monitoring flag for a spreadsheet.
func (s *Store) SetMonitoring(ctx context.Context, excelFileID string, on bool) error {
	result, err := s.pool.Exec(ctx,
		`UPDATE monitor_configs SET is_monitoring = $1, updated_at = NOW()
		 WHERE excel_file_id = $2`,
		on, excelFileID,
	)
	if err != nil {
		return fmt.Errorf("failed to set monitoring: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("monitor config not found for file %s", excelFileID)
	}
	return nil
}

// ConfigByFileID retrieves a config by spreadsheet file id, or nil.
func (s *Store) ConfigByFileID(ctx context.Context, excelFileID string) (*MonitorConfig, error) {
	c, err := scanConfig(s.pool.QueryRow(ctx,
		`SELECT `+configColumns+` FROM monitor_configs WHERE excel_file_id = $1`,
		excelFileID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get monitor config: %w", err)
	}
	return c, nil
}

// MonitoredConfigs lists configs with monitoring enabled.
func (s *Store) MonitoredConfigs(ctx context.Context) ([]MonitorConfig, error) {
	return s.listConfigs(ctx,
		`SELECT `+configColumns+` FROM monitor_configs WHERE is_monitoring ORDER BY created_at`)
}

// AllConfigs lists every config, monitored or not.
func (s *Store) AllConfigs(ctx context.Context) ([]MonitorConfig, error) {
	return s.listConfigs(ctx,
		`SELECT `+configColumns+` FROM monitor_configs ORDER BY created_at`)
}

func (s *Store) listConfigs(ctx context.Context, query string) ([]MonitorConfig, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitor configs: %w", err)
	}
	defer rows.Close()

	var configs []MonitorConfig
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monitor config: %w", err)
		}
		configs = append(configs, *c)
	}
	return configs, rows.Err()
}

// TouchConfig stamps last_checked and last_modified after a cycle.
func (s *Store) TouchConfig(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE monitor_configs
		 SET last_checked = NOW(), last_modified = NOW(), updated_at = NOW()
		 WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch monitor config: %w", err)
	}
	return nil
}
