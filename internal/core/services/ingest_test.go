package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claimsight/internal/core/domain"
	"github.com/claimsight/claimsight/internal/postprocessors/chunker"
)

func writeTestFile(t *testing.T, folder, name string) string {
	t.Helper()
	path := filepath.Join(folder, name)
	require.NoError(t, os.WriteFile(path, []byte("placeholder"), 0o644))
	return path
}

func TestIngestServiceProcessFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes every supported document once", func(t *testing.T) {
		folder := t.TempDir()
		policyPath := writeTestFile(t, folder, "policy.pdf")
		termsPath := writeTestFile(t, folder, "terms.pdf")
		writeTestFile(t, folder, "notes.txt")

		extractor := &stubExtractor{pages: map[string][]domain.Page{
			policyPath: {{Number: 1, Text: "Knee surgery is covered. Waiting period is 90 days."}},
			termsPath:  {{Number: 1, Text: "Premiums are payable annually."}},
		}}
		index := &stubIndex{}

		svc := NewIngestService(folder, index, &stubEmbedder{}, extractor, chunker.New())

		report, err := svc.ProcessFolder(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Processed)
		assert.Equal(t, 0, report.Skipped)
		assert.Equal(t, 0, report.Failed)
		assert.NotEmpty(t, report.RunID)

		sources, err := index.ListSources(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"policy.pdf", "terms.pdf"}, sources)

		// Second run finds everything indexed and adds nothing.
		before := len(index.added)
		report, err = svc.ProcessFolder(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Processed)
		assert.Equal(t, 2, report.Skipped)
		assert.Len(t, index.added, before)
	})

	t.Run("chunks carry source, page and stable ids", func(t *testing.T) {
		folder := t.TempDir()
		policyPath := writeTestFile(t, folder, "policy.pdf")

		extractor := &stubExtractor{pages: map[string][]domain.Page{
			policyPath: {
				{Number: 1, Text: "Coverage terms."},
				{Number: 2, Text: "Exclusions list."},
			},
		}}
		index := &stubIndex{}

		svc := NewIngestService(folder, index, &stubEmbedder{}, extractor, chunker.New())

		_, err := svc.ProcessFolder(ctx)
		require.NoError(t, err)
		require.Len(t, index.added, 2)
		assert.Equal(t, "policy-p1-c0", index.added[0].ChunkID)
		assert.Equal(t, "policy-p2-c0", index.added[1].ChunkID)
		assert.Equal(t, "policy.pdf", index.added[0].Source)
	})

	t.Run("failing document does not abort the run", func(t *testing.T) {
		folder := t.TempDir()
		writeTestFile(t, folder, "broken.pdf")
		goodPath := writeTestFile(t, folder, "policy.pdf")

		extractor := &stubExtractor{pages: map[string][]domain.Page{
			goodPath: {{Number: 1, Text: "Coverage terms."}},
		}}
		index := &stubIndex{}

		svc := NewIngestService(folder, index, &stubEmbedder{}, extractor, chunker.New())

		report, err := svc.ProcessFolder(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Processed)
		assert.Equal(t, 1, report.Failed)

		sources, err := index.ListSources(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"policy.pdf"}, sources)
	})

	t.Run("document with no text is not indexed", func(t *testing.T) {
		folder := t.TempDir()
		emptyPath := writeTestFile(t, folder, "blank.pdf")

		extractor := &stubExtractor{pages: map[string][]domain.Page{
			emptyPath: {},
		}}
		index := &stubIndex{}

		svc := NewIngestService(folder, index, &stubEmbedder{}, extractor, chunker.New())

		report, err := svc.ProcessFolder(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Processed)
		assert.Empty(t, index.added)

		// Nothing was indexed, so the next run picks it up again.
		report, err = svc.ProcessFolder(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Skipped)
	})

	t.Run("missing folder fails the run", func(t *testing.T) {
		svc := NewIngestService(filepath.Join(t.TempDir(), "absent"), &stubIndex{}, &stubEmbedder{}, &stubExtractor{}, chunker.New())

		_, err := svc.ProcessFolder(ctx)
		assert.Error(t, err)
	})

	t.Run("concurrent runs are refused", func(t *testing.T) {
		folder := t.TempDir()
		writeTestFile(t, folder, "policy.pdf")

		release := make(chan struct{})
		started := make(chan struct{})
		extractor := &stubExtractor{
			extractFn: func(ctx context.Context, path string) ([]domain.Page, error) {
				close(started)
				<-release
				return []domain.Page{{Number: 1, Text: "Coverage terms."}}, nil
			},
		}

		svc := NewIngestService(folder, &stubIndex{}, &stubEmbedder{}, extractor, chunker.New())

		done := make(chan error, 1)
		go func() {
			_, err := svc.ProcessFolder(ctx)
			done <- err
		}()

		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("ingestion never started")
		}

		assert.True(t, svc.Running())
		_, err := svc.ProcessFolder(ctx)
		assert.ErrorIs(t, err, domain.ErrIngestInProgress)

		close(release)
		require.NoError(t, <-done)
		assert.False(t, svc.Running())
	})
}
