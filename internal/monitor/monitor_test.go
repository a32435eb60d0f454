package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordan/resume-pilot/internal/db"
	"github.com/jordan/resume-pilot/internal/drive"
	"github.com/jordan/resume-pilot/internal/engine"
)

type fakeConfigStore struct {
	configs map[string]*db.MonitorConfig
	touched []uuid.UUID
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{configs: make(map[string]*db.MonitorConfig)}
}

func (f *fakeConfigStore) UpsertMonitorConfig(_ context.Context, c *db.MonitorConfig) error {
	if existing, ok := f.configs[c.ExcelFileID]; ok {
		c.ID = existing.ID
	} else {
		c.ID = uuid.New()
	}
	f.configs[c.ExcelFileID] = c
	return nil
}

func (f *fakeConfigStore) SetMonitoring(_ context.Context, excelFileID string, on bool) error {
	c, ok := f.configs[excelFileID]
	if !ok {
		return fmt.Errorf("no config for %s", excelFileID)
	}
	c.IsMonitoring = on
	return nil
}

func (f *fakeConfigStore) ConfigByFileID(_ context.Context, excelFileID string) (*db.MonitorConfig, error) {
	return f.configs[excelFileID], nil
}

func (f *fakeConfigStore) MonitoredConfigs(context.Context) ([]db.MonitorConfig, error) {
	var out []db.MonitorConfig
	for _, c := range f.configs {
		if c.IsMonitoring {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConfigStore) TouchConfig(_ context.Context, id uuid.UUID) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakeMetadata struct {
	names map[string]string
	err   error
}

func (f *fakeMetadata) Metadata(_ context.Context, fileID string) (drive.FileMeta, error) {
	if f.err != nil {
		return drive.FileMeta{}, f.err
	}
	return drive.FileMeta{ID: fileID, Name: f.names[fileID], ModifiedTime: time.Now()}, nil
}

type fakeProcessor struct {
	processed []string
	results   map[string]engine.CycleResult
	errs      map[string]error
}

func (f *fakeProcessor) ProcessSheet(_ context.Context, cfg *db.MonitorConfig, _ bool) (engine.CycleResult, error) {
	f.processed = append(f.processed, cfg.ExcelFileID)
	if err := f.errs[cfg.ExcelFileID]; err != nil {
		return engine.CycleResult{}, err
	}
	return f.results[cfg.ExcelFileID], nil
}

func newService() (*Service, *fakeConfigStore, *fakeProcessor) {
	store := newFakeConfigStore()
	proc := &fakeProcessor{
		results: make(map[string]engine.CycleResult),
		errs:    make(map[string]error),
	}
	svc := &Service{
		Store:    store,
		Metadata: &fakeMetadata{names: map[string]string{"sheet-1": "Job Tracker"}},
		Engine:   proc,
		Interval: time.Millisecond,
	}
	return svc, store, proc
}

func TestStartMonitoring_ResolvesFileName(t *testing.T) {
	svc, store, _ := newService()

	cfg, err := svc.StartMonitoring(context.Background(), "sheet-1", WatchOptions{
		OutputFolderID:    "folder-1",
		GenerateNewResume: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Job Tracker", cfg.ExcelFileName)
	assert.True(t, cfg.IsMonitoring)
	assert.True(t, cfg.GenerateNewResume)

	stored := store.configs["sheet-1"]
	require.NotNil(t, stored)
	assert.Equal(t, "folder-1", stored.OutputFolderID)
}

func TestStartMonitoring_MetadataFailureFallsBackToFileID(t *testing.T) {
	svc, _, _ := newService()
	svc.Metadata = &fakeMetadata{err: fmt.Errorf("permission denied")}

	cfg, err := svc.StartMonitoring(context.Background(), "sheet-2", WatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "sheet-2", cfg.ExcelFileName)
}

func TestStopMonitoring(t *testing.T) {
	svc, store, _ := newService()
	ctx := context.Background()

	_, err := svc.StartMonitoring(ctx, "sheet-1", WatchOptions{})
	require.NoError(t, err)

	require.NoError(t, svc.StopMonitoring(ctx, "sheet-1"))
	assert.False(t, store.configs["sheet-1"].IsMonitoring)

	configs, err := store.MonitoredConfigs(ctx)
	require.NoError(t, err)
	assert.Empty(t, configs)
}

func TestRunOnce_ProcessesEveryMonitoredSheet(t *testing.T) {
	svc, store, proc := newService()
	ctx := context.Background()

	_, err := svc.StartMonitoring(ctx, "sheet-1", WatchOptions{})
	require.NoError(t, err)
	_, err = svc.StartMonitoring(ctx, "sheet-2", WatchOptions{})
	require.NoError(t, err)
	require.NoError(t, svc.StopMonitoring(ctx, "sheet-2"))

	proc.results["sheet-1"] = engine.CycleResult{Processed: 2, Total: 3}

	require.NoError(t, svc.RunOnce(ctx))

	assert.Equal(t, []string{"sheet-1"}, proc.processed)
	assert.Len(t, store.touched, 1)
}

func TestRunOnce_FailingSheetDoesNotBlockOthers(t *testing.T) {
	svc, store, proc := newService()
	ctx := context.Background()

	_, err := svc.StartMonitoring(ctx, "sheet-1", WatchOptions{})
	require.NoError(t, err)
	_, err = svc.StartMonitoring(ctx, "sheet-2", WatchOptions{})
	require.NoError(t, err)

	proc.errs["sheet-1"] = fmt.Errorf("download failed")
	proc.errs["sheet-2"] = fmt.Errorf("download failed")

	require.NoError(t, svc.RunOnce(ctx))

	// Both sheets were attempted despite the failures, and neither got its
	// check time stamped.
	assert.Len(t, proc.processed, 2)
	assert.Empty(t, store.touched)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	svc, _, proc := newService()
	ctx, cancel := context.WithCancel(context.Background())

	_, err := svc.StartMonitoring(ctx, "sheet-1", WatchOptions{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	assert.NotEmpty(t, proc.processed)
}
