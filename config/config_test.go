package config

import (
	"errors"
	"os"
	"testing"

	"github.com/bidwatch/backend/internal/domain"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("BIDWATCH_SERVER_PORT")
		os.Unsetenv("BIDWATCH_SERVER_ENVIRONMENT")
		os.Unsetenv("BIDWATCH_API_SERVICE_KEY")
		os.Unsetenv("BIDWATCH_API_BASE_URL")
		os.Unsetenv("BIDWATCH_API_DAYS_BACK")
		os.Unsetenv("BIDWATCH_DATABASE_URL")
		os.Unsetenv("BIDWATCH_TELEGRAM_TOKEN")
		os.Unsetenv("BIDWATCH_TELEGRAM_CHAT_ID")
		os.Unsetenv("BIDWATCH_POLICY_NOTIFY_THRESHOLD")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Database URL is the only structurally required value
		os.Setenv("BIDWATCH_DATABASE_URL", "postgres://localhost/bidwatch_test")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.API.BaseURL != "https://apis.data.go.kr/1230000/ad/BidPublicInfoService" {
			t.Errorf("API.BaseURL = %s, want the data.go.kr default", cfg.API.BaseURL)
		}
		if cfg.API.DaysBack != 3 {
			t.Errorf("API.DaysBack = %d, want 3", cfg.API.DaysBack)
		}
		if len(cfg.API.Endpoints) != 3 {
			t.Fatalf("len(API.Endpoints) = %d, want 3", len(cfg.API.Endpoints))
		}
		if cfg.API.Endpoints[0].Name != "construction" || cfg.API.Endpoints[0].Path != "/getBidPblancListInfoCnstwk" {
			t.Errorf("Endpoints[0] = %+v, want construction endpoint", cfg.API.Endpoints[0])
		}
		if cfg.Policy.Scoring.HighIntent != 15 {
			t.Errorf("Policy.Scoring.HighIntent = %d, want 15", cfg.Policy.Scoring.HighIntent)
		}
		if cfg.Policy.Scoring.Facility != 8 {
			t.Errorf("Policy.Scoring.Facility = %d, want 8", cfg.Policy.Scoring.Facility)
		}
		if cfg.Policy.Scoring.RegionMatch != 10 {
			t.Errorf("Policy.Scoring.RegionMatch = %d, want 10", cfg.Policy.Scoring.RegionMatch)
		}
		if cfg.Policy.NotifyThreshold != 20 {
			t.Errorf("Policy.NotifyThreshold = %d, want 20", cfg.Policy.NotifyThreshold)
		}
		if len(cfg.Policy.Regions) != 3 {
			t.Errorf("len(Policy.Regions) = %d, want 3", len(cfg.Policy.Regions))
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("BIDWATCH_DATABASE_URL", "postgres://db:5432/bids")
		os.Setenv("BIDWATCH_SERVER_PORT", "9090")
		os.Setenv("BIDWATCH_SERVER_ENVIRONMENT", "production")
		os.Setenv("BIDWATCH_API_SERVICE_KEY", "custom-service-key")
		os.Setenv("BIDWATCH_API_BASE_URL", "https://custom.api.example")
		os.Setenv("BIDWATCH_TELEGRAM_TOKEN", "bot-token")
		os.Setenv("BIDWATCH_TELEGRAM_CHAT_ID", "-100123")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.API.ServiceKey != "custom-service-key" {
			t.Errorf("API.ServiceKey = %s, want custom-service-key", cfg.API.ServiceKey)
		}
		if cfg.API.BaseURL != "https://custom.api.example" {
			t.Errorf("API.BaseURL = %s, want https://custom.api.example", cfg.API.BaseURL)
		}
		if cfg.Telegram.Token != "bot-token" {
			t.Errorf("Telegram.Token = %s, want bot-token", cfg.Telegram.Token)
		}
		if cfg.Telegram.ChatID != "-100123" {
			t.Errorf("Telegram.ChatID = %s, want -100123", cfg.Telegram.ChatID)
		}
	})

	t.Run("fails validation when database URL is missing", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing database URL")
		}
	})
}

func TestValidateCollector(t *testing.T) {
	base := func() *Config {
		return &Config{
			API:      APIConfig{ServiceKey: "key"},
			Telegram: TelegramConfig{Token: "token", ChatID: "chat"},
		}
	}

	t.Run("passes with all credentials present", func(t *testing.T) {
		if err := base().ValidateCollector(); err != nil {
			t.Errorf("ValidateCollector() error = %v, want nil", err)
		}
	})

	t.Run("fails with missing service key", func(t *testing.T) {
		cfg := base()
		cfg.API.ServiceKey = ""
		err := cfg.ValidateCollector()
		if !errors.Is(err, domain.ErrMissingServiceKey) {
			t.Errorf("error = %v, want ErrMissingServiceKey", err)
		}
	})

	t.Run("fails with missing telegram token", func(t *testing.T) {
		cfg := base()
		cfg.Telegram.Token = ""
		err := cfg.ValidateCollector()
		if !errors.Is(err, domain.ErrMissingTelegramCreds) {
			t.Errorf("error = %v, want ErrMissingTelegramCreds", err)
		}
	})

	t.Run("fails with missing telegram chat id", func(t *testing.T) {
		cfg := base()
		cfg.Telegram.ChatID = ""
		err := cfg.ValidateCollector()
		if !errors.Is(err, domain.ErrMissingTelegramCreds) {
			t.Errorf("error = %v, want ErrMissingTelegramCreds", err)
		}
	})
}
