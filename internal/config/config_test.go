package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
http:
  port: 8080
llm:
  model: llama3
embedding:
  model: nomic-embed-text
`

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.FingerprintDriver != "file" {
		t.Errorf("expected file driver default, got %q", cfg.Storage.FingerprintDriver)
	}
	if cfg.Storage.FingerprintPath != "processed_docs.json" {
		t.Errorf("unexpected fingerprint path: %q", cfg.Storage.FingerprintPath)
	}
	if cfg.Retrieval.TopK != 4 {
		t.Errorf("expected top_k 4, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Chunking.Size != 1000 || cfg.Chunking.Overlap != 200 {
		t.Errorf("unexpected chunking defaults: %d/%d", cfg.Chunking.Size, cfg.Chunking.Overlap)
	}
	if cfg.Relevance.Strategy != "off" {
		t.Errorf("expected relevance off, got %q", cfg.Relevance.Strategy)
	}
	if cfg.Storage.KeyPrefix != "askdoc:" {
		t.Errorf("unexpected key prefix: %q", cfg.Storage.KeyPrefix)
	}
}

func TestLoadFile_MissingPort(t *testing.T) {
	_, err := LoadFile(writeConfig(t, `
llm:
  model: llama3
embedding:
  model: nomic-embed-text
`))
	if err == nil || !strings.Contains(err.Error(), "http.port") {
		t.Errorf("expected port validation error, got %v", err)
	}
}

func TestLoadFile_MissingModels(t *testing.T) {
	_, err := LoadFile(writeConfig(t, `
http:
  port: 8080
embedding:
  model: nomic-embed-text
`))
	if err == nil || !strings.Contains(err.Error(), "llm.model") {
		t.Errorf("expected llm.model error, got %v", err)
	}
}

func TestLoadFile_BadFingerprintDriver(t *testing.T) {
	_, err := LoadFile(writeConfig(t, minimalConfig+`
storage:
  fingerprint_driver: dynamo
`))
	if err == nil || !strings.Contains(err.Error(), "fingerprint_driver") {
		t.Errorf("expected driver validation error, got %v", err)
	}
}

func TestLoadFile_RedisDriverNeedsAddrs(t *testing.T) {
	_, err := LoadFile(writeConfig(t, minimalConfig+`
storage:
  fingerprint_driver: redis
`))
	if err == nil || !strings.Contains(err.Error(), "redis.addrs") {
		t.Errorf("expected addrs validation error, got %v", err)
	}
}

func TestLoadFile_BadRelevanceStrategy(t *testing.T) {
	_, err := LoadFile(writeConfig(t, minimalConfig+`
relevance:
  strategy: hybrid
`))
	if err == nil || !strings.Contains(err.Error(), "relevance.strategy") {
		t.Errorf("expected strategy validation error, got %v", err)
	}
}

func TestLoadFile_OverlapMustBeSmallerThanSize(t *testing.T) {
	_, err := LoadFile(writeConfig(t, minimalConfig+`
chunking:
  size: 100
  overlap: 100
`))
	if err == nil || !strings.Contains(err.Error(), "overlap") {
		t.Errorf("expected overlap validation error, got %v", err)
	}
}

func TestLoadFile_EnvExpansion(t *testing.T) {
	t.Setenv("ASKDOC_TEST_MODEL", "mistral")

	cfg, err := LoadFile(writeConfig(t, `
http:
  port: 8080
llm:
  model: ${ASKDOC_TEST_MODEL}
embedding:
  model: ${ASKDOC_TEST_MISSING:-fallback-model}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.Model != "mistral" {
		t.Errorf("expected env expansion, got %q", cfg.LLM.Model)
	}
	if cfg.Embedding.Model != "fallback-model" {
		t.Errorf("expected default expansion, got %q", cfg.Embedding.Model)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
