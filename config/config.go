package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bidwatch/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Policy   PolicyConfig
	Database DatabaseConfig
	Telegram TelegramConfig
}

// ServerConfig holds status API server configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// APIConfig holds nara G2B bid notice API configuration
type APIConfig struct {
	ServiceKey string           `mapstructure:"service_key"`
	BaseURL    string           `mapstructure:"base_url"`
	Endpoints  []EndpointConfig `mapstructure:"endpoints"`
	DaysBack   int              `mapstructure:"days_back"`
}

// EndpointConfig is one category endpoint of the bid notice API
type EndpointConfig struct {
	Name string `mapstructure:"name"`
	Path string `mapstructure:"path"`
}

// PolicyConfig holds the keyword/region scoring policy
type PolicyConfig struct {
	ExcludeKeywords    []string       `mapstructure:"exclude_keywords"`
	HighIntentKeywords []string       `mapstructure:"high_intent_keywords"`
	FacilityKeywords   []string       `mapstructure:"facility_keywords"`
	Regions            []string       `mapstructure:"regions"`
	Scoring            ScoringWeights `mapstructure:"scoring"`
	NotifyThreshold    int            `mapstructure:"notify_threshold"`
}

// ScoringWeights holds the per-category integer weights
type ScoringWeights struct {
	HighIntent  int `mapstructure:"keyword_high_intent"`
	Facility    int `mapstructure:"keyword_facility"`
	RegionMatch int `mapstructure:"region_match"`
}

// DatabaseConfig holds postgres connection configuration
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// TelegramConfig holds notification credentials
type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID string `mapstructure:"chat_id"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// A local .env feeds the environment before viper reads it
	_ = godotenv.Load()

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bidwatch/")

	// Environment variable settings
	v.SetEnvPrefix("BIDWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Secrets default empty so the env-only keys bind through Unmarshal
	v.SetDefault("api.service_key", "")
	v.SetDefault("database.url", "")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", "")

	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// API defaults
	v.SetDefault("api.base_url", "https://apis.data.go.kr/1230000/ad/BidPublicInfoService")
	v.SetDefault("api.days_back", 3)
	v.SetDefault("api.endpoints", []map[string]string{
		{"name": "construction", "path": "/getBidPblancListInfoCnstwk"},
		{"name": "service", "path": "/getBidPblancListInfoServc"},
		{"name": "goods", "path": "/getBidPblancListInfoThng"},
	})

	// Policy defaults
	v.SetDefault("policy.regions", []string{"서울", "인천", "경기"})
	v.SetDefault("policy.exclude_keywords", []string{"폐기물", "철거", "해체"})
	v.SetDefault("policy.high_intent_keywords", []string{"냉동", "냉장", "공조", "클린룸"})
	v.SetDefault("policy.facility_keywords", []string{"창고", "물류센터", "저온"})
	v.SetDefault("policy.scoring.keyword_high_intent", 15)
	v.SetDefault("policy.scoring.keyword_facility", 8)
	v.SetDefault("policy.scoring.region_match", 10)
	v.SetDefault("policy.notify_threshold", 20)
}

// validate validates the structural configuration. Credential presence is
// checked separately so the status server can run without telegram access.
func validate(config *Config) error {
	if config.Database.URL == "" {
		return fmt.Errorf("database URL is required (set BIDWATCH_DATABASE_URL)")
	}

	if len(config.API.Endpoints) == 0 {
		return fmt.Errorf("at least one API endpoint must be configured")
	}

	if config.API.DaysBack <= 0 {
		return fmt.Errorf("api.days_back must be positive, got: %d", config.API.DaysBack)
	}

	return nil
}

// ValidateCollector checks the credentials the collector needs before any
// network call is attempted.
func (c *Config) ValidateCollector() error {
	if c.API.ServiceKey == "" {
		return fmt.Errorf("%w (set BIDWATCH_API_SERVICE_KEY)", domain.ErrMissingServiceKey)
	}
	if c.Telegram.Token == "" || c.Telegram.ChatID == "" {
		return fmt.Errorf("%w (set BIDWATCH_TELEGRAM_TOKEN and BIDWATCH_TELEGRAM_CHAT_ID)", domain.ErrMissingTelegramCreds)
	}
	return nil
}
