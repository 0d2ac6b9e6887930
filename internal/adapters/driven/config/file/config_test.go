package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claimsight/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claimsight.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults apply when file is absent", func(t *testing.T) {
		t.Setenv("CLAIMSIGHT_API_KEY", "test-key")
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "pdfs", cfg.Documents.Folder)
		assert.Equal(t, 1000, cfg.Chunking.Size)
		assert.Equal(t, 200, cfg.Chunking.Overlap)
		assert.Equal(t, 5, cfg.Query.TopK)
		assert.Equal(t, BackendMemory, cfg.Index.Backend)
		assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	})

	t.Run("file values override defaults", func(t *testing.T) {
		t.Setenv("CLAIMSIGHT_API_KEY", "test-key")
		path := writeConfig(t, `
verbose = true

[documents]
folder = "policies"

[chunking]
size = 500
overlap = 50

[index]
backend = "sqlite"
sqlite_path = "claims.db"

[query]
top_k = 3
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, "policies", cfg.Documents.Folder)
		assert.Equal(t, 500, cfg.Chunking.Size)
		assert.Equal(t, BackendSQLite, cfg.Index.Backend)
		assert.Equal(t, "claims.db", cfg.Index.SQLitePath)
		assert.Equal(t, 3, cfg.Query.TopK)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		t.Setenv("CLAIMSIGHT_API_KEY", "test-key")

		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("openai provider requires an API key", func(t *testing.T) {
		t.Setenv("CLAIMSIGHT_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "")
		t.Chdir(t.TempDir())

		_, err := Load("")
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("OPENAI_API_KEY is honoured as fallback", func(t *testing.T) {
		t.Setenv("CLAIMSIGHT_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "fallback-key")
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "fallback-key", cfg.Embedding.APIKey)
		assert.Equal(t, "fallback-key", cfg.LLM.APIKey)
	})

	t.Run("ollama providers need no key", func(t *testing.T) {
		t.Setenv("CLAIMSIGHT_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "")
		path := writeConfig(t, `
[embedding]
provider = "ollama"

[llm]
provider = "ollama"
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ProviderOllama, cfg.Embedding.Provider)
	})

	t.Run("unknown backend is refused", func(t *testing.T) {
		t.Setenv("CLAIMSIGHT_API_KEY", "test-key")
		path := writeConfig(t, `
[index]
backend = "redis"
`)

		_, err := Load(path)
		assert.ErrorIs(t, err, domain.ErrUnsupportedBackend)
	})

	t.Run("overlap must stay below chunk size", func(t *testing.T) {
		t.Setenv("CLAIMSIGHT_API_KEY", "test-key")
		path := writeConfig(t, `
[chunking]
size = 100
overlap = 100
`)

		_, err := Load(path)
		assert.ErrorIs(t, err, domain.ErrConfig)
	})

	t.Run("environment overrides folder and port", func(t *testing.T) {
		t.Setenv("CLAIMSIGHT_API_KEY", "test-key")
		t.Setenv("CLAIMSIGHT_FOLDER", "incoming")
		t.Setenv("CLAIMSIGHT_PORT", "9001")
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "incoming", cfg.Documents.Folder)
		assert.Equal(t, 9001, cfg.Server.Port)
	})
}
