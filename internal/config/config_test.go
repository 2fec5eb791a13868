package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{URL: "postgres://localhost/coach", MigrationsDir: "./migrations"},
		Redis:    RedisConfig{URL: "redis://localhost:6379"},
		Quota:    QuotaConfig{FreeDailyLimit: 3, PremiumDailyLimit: 50},
		Cache:    CacheConfig{ExactTTL: 168 * time.Hour, UserTTL: 24 * time.Hour, LooseTTL: 24 * time.Hour},
		Providers: ProviderConfig{
			Timeout:     30 * time.Second,
			FastTimeout: 15 * time.Second,
			MaxTokens:   4096,
		},
		Auth: AuthConfig{JWTSecret: "secret", TokenTTL: 24 * time.Hour},
	}
}

func TestValidateAcceptsMinimalConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsMissingRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Redis.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing redis url")
	}
}

func TestValidateRejectsPremiumBelowFree(t *testing.T) {
	cfg := validConfig()
	cfg.Quota.PremiumDailyLimit = 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when premium limit is below free limit")
	}
}

func TestValidateRejectsBedrockWithoutRegion(t *testing.T) {
	cfg := validConfig()
	cfg.Providers.Bedrock.Enabled = true
	cfg.Providers.Bedrock.ModelID = "anthropic.claude-3-haiku-20240307-v1:0"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled bedrock without region")
	}
}
