package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPath_RespectsXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	want := filepath.Join("/custom/config", ConfigDir, ConfigFile)
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLoad_MissingFileIsEmptyConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configCache = nil

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestSaveLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configCache = nil

	cfg := &Config{
		APIKey:          "sk-test",
		EmbeddingModel:  "custom-embed",
		CompletionModel: "custom-chat",
		ChunkSize:       800,
		TopK:            6,
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load = %+v, want %+v", loaded, cfg)
	}

	info, err := os.Stat(Path())
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}
}

func TestResolveAPIKey(t *testing.T) {
	tests := []struct {
		name      string
		flag      string
		env       map[string]string
		configKey string
		expected  string
	}{
		{
			name:     "flag wins",
			flag:     "from-flag",
			env:      map[string]string{"FINBRIEF_API_KEY": "from-env"},
			expected: "from-flag",
		},
		{
			name:     "finbrief env over openai env",
			env:      map[string]string{"FINBRIEF_API_KEY": "finbrief", "OPENAI_API_KEY": "openai"},
			expected: "finbrief",
		},
		{
			name:     "openai env fallback",
			env:      map[string]string{"OPENAI_API_KEY": "openai"},
			expected: "openai",
		},
		{
			name:      "config file last",
			configKey: "from-config",
			expected:  "from-config",
		},
		{
			name:     "nothing set",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FINBRIEF_API_KEY", "")
			t.Setenv("OPENAI_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &Config{APIKey: tt.configKey}
			if got := cfg.ResolveAPIKey(tt.flag); got != tt.expected {
				t.Errorf("ResolveAPIKey = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResolveCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")

	cfg := &Config{}
	want := filepath.Join("/custom/cache", ConfigDir)
	if got := cfg.ResolveCacheDir(); got != want {
		t.Errorf("ResolveCacheDir = %q, want %q", got, want)
	}

	override := &Config{CacheDir: "/explicit"}
	if got := override.ResolveCacheDir(); got != "/explicit" {
		t.Errorf("ResolveCacheDir with override = %q, want /explicit", got)
	}

	if got := cfg.CacheDBPath(); got != filepath.Join(want, CacheDBFile) {
		t.Errorf("CacheDBPath = %q", got)
	}
}
