package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claimsight/internal/core/domain"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
}

func TestSupportedExtensions(t *testing.T) {
	extractor := New()
	assert.Equal(t, []string{".pdf"}, extractor.SupportedExtensions())
}

func TestExtract_MissingFile(t *testing.T) {
	extractor := New()

	pages, err := extractor.Extract(context.Background(), "testdata/does-not-exist.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtraction))
	assert.Nil(t, pages)
}

func TestExtract_NotAPDF(t *testing.T) {
	extractor := New()

	path := t.TempDir() + "/plain.pdf"
	writeFile(t, path, "this is not a pdf")

	_, err := extractor.Extract(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtraction))
}
