package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claimsight/internal/core/ports/driving"
)

type countingIngest struct {
	runs atomic.Int32
}

func (c *countingIngest) ProcessFolder(ctx context.Context) (*driving.IngestReport, error) {
	c.runs.Add(1)
	return &driving.IngestReport{}, nil
}

func (c *countingIngest) Running() bool { return false }

func TestWatcherTriggersIngest(t *testing.T) {
	folder := t.TempDir()
	ingest := &countingIngest{}
	w := New(folder, ingest, []string{".pdf"}, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(folder, "policy.pdf"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool { return ingest.runs.Load() >= 1 },
		2*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherIgnoresUnsupportedFiles(t *testing.T) {
	folder := t.TempDir()
	ingest := &countingIngest{}
	w := New(folder, ingest, []string{".pdf"}, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(folder, "notes.txt"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, ingest.runs.Load())

	cancel()
	<-done
}

func TestWatcherBatchesEvents(t *testing.T) {
	folder := t.TempDir()
	ingest := &countingIngest{}
	w := New(folder, ingest, []string{".pdf"}, 150*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(folder, name), []byte("x"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return ingest.runs.Load() >= 1 },
		2*time.Second, 20*time.Millisecond)
	// One quiet period, one run.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), ingest.runs.Load())

	cancel()
	<-done
}
