package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "GEMINI_API_KEY", "DOCSPLIT_PROVIDER", "DOCSPLIT_MODEL"} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.NotEmpty(t, cfg.LLM.Model)
	assert.Equal(t, 5, cfg.Splitter.MaxParallelSplits)
	assert.Equal(t, 10, cfg.Splitter.MaxSplitRounds)
	assert.Equal(t, 3, cfg.Splitter.MaxRetries)
	assert.Equal(t, 100, cfg.Splitter.MinSectionSize)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestNormalize(t *testing.T) {
	t.Run("fills zero fields", func(t *testing.T) {
		got := SplitterConfig{}.Normalize()
		assert.Equal(t, DefaultSplitterConfig(), got)
	})

	t.Run("keeps set fields", func(t *testing.T) {
		got := SplitterConfig{MaxParallelSplits: 2, MinSectionSize: 30}.Normalize()
		assert.Equal(t, 2, got.MaxParallelSplits)
		assert.Equal(t, 30, got.MinSectionSize)
		assert.Equal(t, DefaultSplitterConfig().MaxSplitRounds, got.MaxSplitRounds)
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm: [not a map"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("save and load round-trip", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "sub", "docsplit.yaml")

		cfg := DefaultConfig()
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = "gpt-4o"
		cfg.Splitter.MaxParallelSplits = 2
		cfg.Splitter.StructuredMode = true
		require.NoError(t, cfg.Save(path))

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("openai key selects openai", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	})

	t.Run("gemini key wins over openai key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("GEMINI_API_KEY", "gm-test")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
		assert.Equal(t, "gm-test", cfg.LLM.APIKey)
	})

	t.Run("explicit provider and model override", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gm-test")
		t.Setenv("DOCSPLIT_PROVIDER", "openai")
		t.Setenv("DOCSPLIT_MODEL", "custom-model")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.Equal(t, "custom-model", cfg.LLM.Model)
	})
}

func TestTimeouts(t *testing.T) {
	t.Run("parses durations", func(t *testing.T) {
		cfg := SplitterConfig{DiscoveryTimeout: "30s", SplitTimeout: "1m"}
		assert.Equal(t, 30*time.Second, cfg.GetDiscoveryTimeout())
		assert.Equal(t, time.Minute, cfg.GetSplitTimeout())
	})

	t.Run("falls back on bad values", func(t *testing.T) {
		cfg := SplitterConfig{DiscoveryTimeout: "not a duration", SplitTimeout: "-5s"}
		assert.Equal(t, 120*time.Second, cfg.GetDiscoveryTimeout())
		assert.Equal(t, 45*time.Second, cfg.GetSplitTimeout())
	})

	t.Run("empty falls back", func(t *testing.T) {
		assert.Equal(t, 120*time.Second, LLMConfig{}.GetTimeout())
		assert.Equal(t, 90*time.Second, LLMConfig{Timeout: "90s"}.GetTimeout())
	})
}
