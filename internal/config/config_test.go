package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxQuestions)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogEncoding)
	assert.False(t, cfg.NoArchive)
	assert.Equal(t, llm.BackendOpenAI, cfg.LLM.Backend)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AISCRIBE_MAX_QUESTIONS", "3")
	t.Setenv("AISCRIBE_LOG_ENCODING", " JSON ")
	t.Setenv("AISCRIBE_DB_PATH", "/tmp/custom.db")
	t.Setenv("AISCRIBE_NO_ARCHIVE", "true")
	t.Setenv("AISCRIBE_LLM_BACKEND", "ollama")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxQuestions)
	assert.Equal(t, "json", cfg.LogEncoding)
	assert.True(t, cfg.NoArchive)
	assert.Equal(t, llm.BackendOllama, cfg.LLM.Backend)

	path, err := cfg.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", path)
}

func TestLoad_RejectsNonPositiveCap(t *testing.T) {
	t.Setenv("AISCRIBE_MAX_QUESTIONS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AISCRIBE_MAX_QUESTIONS")
}

func TestLoad_RejectsMalformedNumber(t *testing.T) {
	t.Setenv("AISCRIBE_MAX_QUESTIONS", "five")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_PropagatesLLMConfigError(t *testing.T) {
	t.Setenv("AISCRIBE_LLM_BACKEND", "smoke-signals")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smoke-signals")
}

func TestResolveDBPath_DefaultsToUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := &Config{}

	path, err := cfg.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, "aiscribe.db", filepath.Base(path))
}

func TestLoadCatalog_EmbeddedByDefault(t *testing.T) {
	cfg := &Config{}
	cat, err := cfg.LoadCatalog()
	require.NoError(t, err)
	assert.Len(t, cat.StandardQuestions(domain.ModuleCharacter), 5)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	cfg := &Config{CatalogPath: filepath.Join(t.TempDir(), "nope.yaml")}
	_, err := cfg.LoadCatalog()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
