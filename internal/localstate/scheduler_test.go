package localstate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"processingd/internal/services"
	"processingd/internal/structures"
	"processingd/internal/testutil"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refreshCounter struct {
	calls atomic.Int32
}

func (r *refreshCounter) Bootstrap(context.Context) error           { return nil }
func (r *refreshCounter) FetchMissing(context.Context, []int) error { return nil }
func (r *refreshCounter) Status() services.Status                   { return services.Status{} }
func (r *refreshCounter) Refresh(context.Context) error {
	r.calls.Add(1)
	return nil
}

func testConfig(filePath string) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{
			FilePath:     filePath,
			SaveInterval: 20 * time.Millisecond,
		},
		Processing: structures.ProcessingConfig{
			RefreshInterval: 20 * time.Millisecond,
		},
	}
}

func newTestScheduler(conf *structures.Config, compressor *testutil.MockCompressor) (*Scheduler, *refreshCounter, *testutil.MockMetrics) {
	fm, _ := newTestFileManager(compressor)
	refresher := &refreshCounter{}
	metrics := testutil.NewMockMetrics()
	s := NewScheduler(conf, &testutil.MockLogger{}, refresher, fm, metrics).(*Scheduler)
	return s, refresher, metrics
}

func TestScheduler_Restore_FileNotExist(t *testing.T) {
	s, _, _ := newTestScheduler(testConfig("/nonexistent/file.dat"), &testutil.MockCompressor{})
	assert.NoError(t, s.Restore())
}

func TestScheduler_Restore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	s, _, _ := newTestScheduler(testConfig(path), &testutil.MockCompressor{})
	assert.Error(t, s.Restore())
}

func TestScheduler_Persist_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.dat")
	s, _, metrics := newTestScheduler(testConfig(path), &testutil.MockCompressor{})

	require.NoError(t, s.Persist())

	_, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, metrics.Persistence)
}

func TestScheduler_Persist_WriteError(t *testing.T) {
	s, _, _ := newTestScheduler(testConfig(filepath.Join(t.TempDir(), "x.dat")), &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress error")
		},
	})
	assert.Error(t, s.Persist())
}

func TestScheduler_StopNilCron(t *testing.T) {
	s, _, _ := newTestScheduler(testConfig(""), &testutil.MockCompressor{})
	s.Stop()
}

func TestScheduler_InitRunsJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecycle.dat")
	s, refresher, _ := newTestScheduler(testConfig(path), &testutil.MockCompressor{})

	s.Init()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil && refresher.calls.Load() > 0
	}, 2*time.Second, 10*time.Millisecond)
}
