package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBHost:              "localhost",
		DBPort:              "5432",
		DBUser:              "test_user",
		DBPassword:          "test_password",
		DBName:              "test_db",
		NewsAPIURL:          "https://newsapi.org/v2/top-headlines",
		NewsAPIKey:          "test-key",
		NewsAPIPageSize:     20,
		PollingEnabled:      true,
		PollIntervalMs:      45000,
		MaxArticlesPerCycle: 50,
		SentimentEngine:     "lexicon",
		Port:                "8080",
		WorkerCount:         3,
		UserAgent:           "Test Agent",
		Timezone:            "UTC",
		Debug:               true,
	}

	if cfg.NewsAPIURL != "https://newsapi.org/v2/top-headlines" {
		t.Errorf("Expected provider URL 'https://newsapi.org/v2/top-headlines', got '%s'", cfg.NewsAPIURL)
	}
	if cfg.NewsAPIPageSize != 20 {
		t.Errorf("Expected page size 20, got %d", cfg.NewsAPIPageSize)
	}
	if !cfg.PollingEnabled {
		t.Error("Expected polling to be enabled")
	}
	if cfg.PollIntervalMs != 45000 {
		t.Errorf("Expected poll interval 45000, got %d", cfg.PollIntervalMs)
	}
	if cfg.MaxArticlesPerCycle != 50 {
		t.Errorf("Expected max articles per cycle 50, got %d", cfg.MaxArticlesPerCycle)
	}
	if cfg.SentimentEngine != "lexicon" {
		t.Errorf("Expected sentiment engine 'lexicon', got '%s'", cfg.SentimentEngine)
	}
	if cfg.DBHost != "localhost" {
		t.Errorf("Expected DB host 'localhost', got '%s'", cfg.DBHost)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("Expected worker count 3, got %d", cfg.WorkerCount)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
