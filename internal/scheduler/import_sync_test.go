package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-pipeline/internal/config"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

type fakeImporter struct {
	started chan struct{}
	release chan struct{}
	reports []*domain.RunReport
	err     error
	calls   int
}

func (f *fakeImporter) ImportFolder(ctx context.Context) ([]*domain.RunReport, error) {
	f.calls++
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	return f.reports, f.err
}

func (f *fakeImporter) LastReports() []*domain.RunReport { return f.reports }

func (f *fakeImporter) Folder() string { return "data/initial/sales" }

func newTestConfig() *config.Config {
	return &config.Config{
		ImportSync: config.ImportSync{CronSchedule: "0 2 * * *"},
	}
}

func TestImportSyncService_RunImport(t *testing.T) {
	tests := []struct {
		name     string
		importer *fakeImporter
		validate func(t *testing.T, s *ImportSyncService, err error)
	}{
		{
			name: "sucesso registra horários e limpa o erro",
			importer: &fakeImporter{
				reports: []*domain.RunReport{{Stage: domain.StageCompleted}},
			},
			validate: func(t *testing.T, s *ImportSyncService, err error) {
				require.NoError(t, err)
				status := s.GetStatus()
				assert.Equal(t, "", status["last_sync_error"])
				assert.False(t, status["sync_running"].(bool))
				assert.False(t, status["last_sync_completed_at"].(time.Time).IsZero())
				assert.Len(t, s.LastReports(), 1)
			},
		},
		{
			name: "falha fica registrada no status",
			importer: &fakeImporter{
				reports: []*domain.RunReport{{Stage: domain.StageFailed}},
				err:     errors.New("import of a.xlsx failed"),
			},
			validate: func(t *testing.T, s *ImportSyncService, err error) {
				assert.Error(t, err)
				assert.Equal(t, "import of a.xlsx failed", s.GetStatus()["last_sync_error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewImportSyncService(tt.importer, newTestConfig())
			err := s.RunImport(context.Background())
			tt.validate(t, s, err)
			assert.Equal(t, 1, tt.importer.calls)
		})
	}
}

func TestImportSyncService_IgnoresConcurrentRuns(t *testing.T) {
	importer := &fakeImporter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewImportSyncService(importer, newTestConfig())

	assert.True(t, s.TriggerManualSync())
	<-importer.started

	assert.True(t, s.IsRunning())
	assert.False(t, s.TriggerManualSync())
	assert.NoError(t, s.RunImport(context.Background()))

	close(importer.release)
	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, importer.calls)
}

func TestImportSyncService_ConcurrentTriggersAcceptOnlyOne(t *testing.T) {
	importer := &fakeImporter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewImportSyncService(importer, newTestConfig())

	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TriggerManualSync() {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.True(t, s.IsRunning(), "a execução é reservada antes do retorno")

	<-importer.started
	close(importer.release)
	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, importer.calls)
}

func TestImportSyncService_StartDisabled(t *testing.T) {
	s := NewImportSyncService(&fakeImporter{}, newTestConfig())
	assert.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}
