//go:build integration
// +build integration

package db

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testUID returns a fresh identifier per call so reruns against the same
// database never trip the unique constraint.
func testUID() string {
	return "JOB-20250314-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// testURL returns a URL unique to this call.
func testURL(path string) string {
	return "https://example.com/jobs/" + path + "/" + uuid.NewString()
}

func testStore(t *testing.T) *Store {
	t.Helper()
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	store, err := Connect(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestResumeLifecycle(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first, err := store.CreateResume(ctx, "Jordan", "resume-v1.txt", "FIRST RESUME")
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	second, err := store.CreateResume(ctx, "Jordan", "resume-v2.txt", "SECOND RESUME")
	require.NoError(t, err)
	assert.True(t, second.IsActive)

	// Uploading a new resume deactivates the previous one.
	active, err := store.ActiveResume(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	reloaded, err := store.ResumeByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.False(t, reloaded.IsActive)
}

func TestJobLifecycle(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	resume, err := store.CreateResume(ctx, "Jordan", "resume.txt", "RESUME")
	require.NoError(t, err)

	rowIndex := 2
	job := &JobApplication{
		UniqueID:      testUID(),
		JobURL:        testURL("it-1"),
		ExcelRowIndex: &rowIndex,
		UserResumeID:  &resume.ID,
		Status:        StatusPending,
	}
	require.NoError(t, store.CreateJob(ctx, job))
	assert.NotZero(t, job.ID)

	found, err := store.FindJobByURLAndResume(ctx, job.JobURL, resume.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, job.UniqueID, found.UniqueID)

	missing, err := store.FindJobByURLAndResume(ctx, "https://example.com/other", resume.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	done := true
	status := StatusProcessing
	desc := "A long enough description for testing updates."
	require.NoError(t, store.UpdateJob(ctx, job.ID, JobUpdate{
		ResumeGenerated: &done,
		Status:          &status,
		JobDescription:  &desc,
	}))

	reloaded, err := store.JobByUniqueID(ctx, job.UniqueID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.True(t, reloaded.ResumeGenerated)
	assert.False(t, reloaded.CoverLetterGenerated)
	assert.Equal(t, StatusProcessing, reloaded.Status)
	assert.Equal(t, desc, reloaded.JobDescription)
}

func TestGeneratedArtifactHistory(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	resume, err := store.CreateResume(ctx, "Jordan", "resume.txt", "RESUME")
	require.NoError(t, err)

	job := &JobApplication{
		UniqueID:     testUID(),
		JobURL:       testURL("it-2"),
		UserResumeID: &resume.ID,
		Status:       StatusPending,
	}
	require.NoError(t, store.CreateJob(ctx, job))

	for _, content := range []string{"v1", "v2"} {
		require.NoError(t, store.AppendGeneratedResume(ctx, &GeneratedResume{
			JobApplicationID: job.ID,
			Content:          content,
			GoogleDocID:      "doc-" + content,
		}))
	}

	latest, err := store.LatestGeneratedResume(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "v2", latest.Content)

	count, err := store.CountGeneratedResumes(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestArchiveJobsNotSeen(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	resume, err := store.CreateResume(ctx, "Jordan", "resume.txt", "RESUME")
	require.NoError(t, err)

	sheetA := "it-archive-sheet-a"
	kept := &JobApplication{
		UniqueID:     testUID(),
		JobURL:       testURL("kept"),
		UserResumeID: &resume.ID,
		ExcelFileID:  sheetA,
		Status:       StatusCompleted,
	}
	stale := &JobApplication{
		UniqueID:     testUID(),
		JobURL:       testURL("stale"),
		UserResumeID: &resume.ID,
		ExcelFileID:  sheetA,
		Status:       StatusCompleted,
	}
	// Same resume, different spreadsheet: out of scope for this cleanup.
	elsewhere := &JobApplication{
		UniqueID:     testUID(),
		JobURL:       testURL("elsewhere"),
		UserResumeID: &resume.ID,
		ExcelFileID:  "it-archive-sheet-b",
		Status:       StatusCompleted,
	}
	require.NoError(t, store.CreateJob(ctx, kept))
	require.NoError(t, store.CreateJob(ctx, stale))
	require.NoError(t, store.CreateJob(ctx, elsewhere))

	n, err := store.ArchiveJobsNotSeen(ctx, resume.ID, sheetA, []string{kept.UniqueID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	reloaded, err := store.JobByUniqueID(ctx, stale.UniqueID)
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, reloaded.Status)

	untouched, err := store.JobByUniqueID(ctx, kept.UniqueID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, untouched.Status)

	otherSheet, err := store.JobByUniqueID(ctx, elsewhere.UniqueID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, otherSheet.Status)
}

func TestMonitorConfigUpsert(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	cfg := &MonitorConfig{
		ExcelFileID:       "it-sheet-1",
		ExcelFileName:     "Job Tracker",
		IsMonitoring:      true,
		GenerateNewResume: true,
	}
	require.NoError(t, store.UpsertMonitorConfig(ctx, cfg))
	firstID := cfg.ID

	// Upserting the same file updates in place.
	cfg.ExcelFileName = "Job Tracker v2"
	require.NoError(t, store.UpsertMonitorConfig(ctx, cfg))
	assert.Equal(t, firstID, cfg.ID)

	loaded, err := store.ConfigByFileID(ctx, "it-sheet-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Job Tracker v2", loaded.ExcelFileName)

	require.NoError(t, store.SetMonitoring(ctx, "it-sheet-1", false))
	monitored, err := store.MonitoredConfigs(ctx)
	require.NoError(t, err)
	for _, c := range monitored {
		assert.NotEqual(t, "it-sheet-1", c.ExcelFileID)
	}
}
