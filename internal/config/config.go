package config

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults applied when a key is absent from configs/config.yml.
const (
	defaultPort          = "8080"
	defaultDBPath        = "app.db"
	defaultTokenTTL      = 30 * time.Minute
	defaultAITimeout     = 15 * time.Second
	defaultAIMaxAttempts = 3
	defaultAIModel       = "gpt-3.5-turbo"
	defaultAIURL         = "https://api.openai.com/v1/chat/completions"
	defaultReminderTick  = 60 * time.Second
)

// Auth holds token issuing settings.
type Auth struct {
	SigningKey string
	TokenTTL   time.Duration
}

// AI holds settings for the external text-generation API.
type AI struct {
	APIURL      string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
	UseMock     bool // answer from heuristics without calling the API
}

// Config is the typed view over viper's loaded configuration.
type Config struct {
	Port         string
	DBPath       string
	Auth         Auth
	AI           AI
	ReminderTick time.Duration
}

// Load reads configs/config.yml and fills in defaults for missing keys.
func Load() (*Config, error) {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	return FromViper(), nil
}

// FromViper builds a Config from whatever is currently set in viper.
// Split out from Load so tests can set keys directly.
func FromViper() *Config {
	cfg := &Config{
		Port:   viper.GetString("port"),
		DBPath: viper.GetString("db.path"),
		Auth: Auth{
			SigningKey: viper.GetString("auth.signing_key"),
			TokenTTL:   time.Duration(viper.GetInt("auth.token_ttl_minutes")) * time.Minute,
		},
		AI: AI{
			APIURL:      viper.GetString("ai.api_url"),
			APIKey:      viper.GetString("ai.api_key"),
			Model:       viper.GetString("ai.model"),
			Timeout:     time.Duration(viper.GetInt("ai.timeout_seconds")) * time.Second,
			MaxAttempts: viper.GetInt("ai.max_attempts"),
			UseMock:     viper.GetBool("ai.use_mock"),
		},
		ReminderTick: time.Duration(viper.GetInt("reminder.tick_seconds")) * time.Second,
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}
	if cfg.AI.APIURL == "" {
		cfg.AI.APIURL = defaultAIURL
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultAIModel
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = defaultAITimeout
	}
	if cfg.AI.MaxAttempts <= 0 {
		cfg.AI.MaxAttempts = defaultAIMaxAttempts
	}
	// Without credentials the external API cannot be called anyway.
	if cfg.AI.APIKey == "" {
		cfg.AI.UseMock = true
	}
	if cfg.ReminderTick <= 0 {
		cfg.ReminderTick = defaultReminderTick
	}
	return cfg
}
