package db

import (
	"time"

	"github.com/google/uuid"
)

// Job application status values.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusArchived   = "archived"
)

// UserResume is a candidate's base resume. At most one row has IsActive set;
// CreateResume enforces this by deactivating all others in the same transaction.
type UserResume struct {
	ID         uuid.UUID `json:"id"`
	UserName   string    `json:"user_name"`
	FileName   string    `json:"file_name"`
	Content    string    `json:"content"`
	IsActive   bool      `json:"is_active"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// JobApplication tracks one spreadsheet row's generation progress.
type JobApplication struct {
	ID                     uuid.UUID  `json:"id"`
	UniqueID               string     `json:"unique_id"`
	JobURL                 string     `json:"job_url"`
	JobDescription         string     `json:"job_description"`
	CompanyName            string     `json:"company_name"`
	AdditionalInstructions string     `json:"additional_instructions"`
	GenerateResume         bool       `json:"generate_resume"`
	GenerateCoverLetter    bool       `json:"generate_cover_letter"`
	GenerateNewResume      bool       `json:"generate_new_resume"`
	ResumeGenerated        bool       `json:"resume_generated"`
	CoverLetterGenerated   bool       `json:"cover_letter_generated"`
	ExcelRowIndex          *int       `json:"excel_row_index,omitempty"`
	ExcelFileID            string     `json:"excel_file_id"`
	UserResumeID           *uuid.UUID `json:"user_resume_id,omitempty"`
	Status                 string     `json:"status"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// JobUpdate is a set of field changes for a job application.
// Nil fields are left untouched.
type JobUpdate struct {
	JobDescription         *string
	CompanyName            *string
	AdditionalInstructions *string
	GenerateResume         *bool
	GenerateCoverLetter    *bool
	GenerateNewResume      *bool
	ResumeGenerated        *bool
	CoverLetterGenerated   *bool
	ExcelRowIndex          *int
	ExcelFileID            *string
	Status                 *string
}

// GeneratedResume is an immutable generation result. History is retained;
// the most recent row per job is the current one.
type GeneratedResume struct {
	ID               uuid.UUID `json:"id"`
	JobApplicationID uuid.UUID `json:"job_application_id"`
	Content          string    `json:"content"`
	Recommendations  string    `json:"recommendations"`
	GoogleDocID      string    `json:"google_doc_id"`
	GoogleDocURL     string    `json:"google_doc_url"`
	CompanyName      string    `json:"company_name"`
	CreatedAt        time.Time `json:"created_at"`
}

// GeneratedCoverLetter is an immutable generation result.
type GeneratedCoverLetter struct {
	ID               uuid.UUID `json:"id"`
	JobApplicationID uuid.UUID `json:"job_application_id"`
	Content          string    `json:"content"`
	GoogleDocID      string    `json:"google_doc_id"`
	GoogleDocURL     string    `json:"google_doc_url"`
	CreatedAt        time.Time `json:"created_at"`
}

// MonitorConfig is one monitored external spreadsheet and its generation policy.
type MonitorConfig struct {
	ID                        uuid.UUID  `json:"id"`
	ExcelFileID               string     `json:"excel_file_id"`
	ExcelFileName             string     `json:"excel_file_name"`
	OutputFolderID            string     `json:"output_folder_id"`
	IsMonitoring              bool       `json:"is_monitoring"`
	LastChecked               *time.Time `json:"last_checked,omitempty"`
	LastModified              *time.Time `json:"last_modified,omitempty"`
	GenerateNewResume         bool       `json:"generate_new_resume"`
	GenerateRecommendations   bool       `json:"generate_recommendations"`
	AlwaysGenerateCoverLetter bool       `json:"always_generate_cover_letter"`
	AutoCleanupOldJobs        bool       `json:"auto_cleanup_old_jobs"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
}
