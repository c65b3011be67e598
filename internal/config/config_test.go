package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Load()
	cfg.GeminiAPIKey = "key"
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.APIPort != "8080" {
		t.Fatalf("APIPort = %q", cfg.APIPort)
	}
	if cfg.RAGTopK != 3 {
		t.Fatalf("RAGTopK = %d", cfg.RAGTopK)
	}
	if cfg.CallTimeout != 20*time.Second {
		t.Fatalf("CallTimeout = %s", cfg.CallTimeout)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("RAG_TOP_K", "7")
	t.Setenv("GEMINI_TEMPERATURE", "0.3")
	t.Setenv("CALL_TIMEOUT", "5s")
	t.Setenv("EVENTS_ENABLED", "true")

	cfg := Load()
	if cfg.APIPort != "9999" || cfg.RAGTopK != 7 || cfg.GeminiTemperature != 0.3 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.CallTimeout != 5*time.Second || !cfg.EventsEnabled {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestValidateRequiresCredentialsAndVectorStore(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	missingKey := validConfig()
	missingKey.GeminiAPIKey = ""
	if err := missingKey.Validate(); err == nil {
		t.Fatal("expected error for missing api key")
	}

	missingQdrant := validConfig()
	missingQdrant.QdrantURL = ""
	if err := missingQdrant.Validate(); err == nil {
		t.Fatal("expected error for missing vector store url")
	}
}

func TestValidateRejectsBadTemperature(t *testing.T) {
	cfg := validConfig()
	cfg.GeminiTemperature = 2.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range temperature")
	}
}
