// Package watcher triggers ingestion runs when documents appear in the
// watched folder. Filesystem events are debounced so a batch of copied
// files results in a single run.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/claimsight/claimsight/internal/core/domain"
	"github.com/claimsight/claimsight/internal/core/ports/driving"
	"github.com/claimsight/claimsight/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last event
// before triggering a run.
const DefaultDebounce = 2 * time.Second

// Watcher watches a documents folder and runs ingestion on changes.
type Watcher struct {
	folder     string
	ingest     driving.IngestOrchestrator
	debounce   time.Duration
	extensions map[string]struct{}
}

// New builds a Watcher over folder. Only files with one of the given
// extensions (lowercase, with dot) trigger runs.
func New(folder string, ingest driving.IngestOrchestrator, extensions []string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	return &Watcher{
		folder:     folder,
		ingest:     ingest,
		debounce:   debounce,
		extensions: exts,
	}
}

// Run watches the folder until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(w.folder); err != nil {
		return err
	}
	logger.Info("watching %s for new documents", w.folder)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("fs event: %s", event)
			// Restart the quiet period on every relevant event.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", w.folder, err)

		case <-timer.C:
			if _, err := w.ingest.ProcessFolder(ctx); err != nil {
				if errors.Is(err, domain.ErrIngestInProgress) {
					// Try again once the active run finishes.
					timer.Reset(w.debounce)
					continue
				}
				logger.Error("watch-triggered ingest: %v", err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	_, ok := w.extensions[strings.ToLower(filepath.Ext(event.Name))]
	return ok
}
