package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"window_advisor/internal/decision"
)

// Config is the fully resolved, validated runtime configuration.
type Config struct {
	DB                          DBConfig        `mapstructure:"db"`
	Location                    LocationConfig  `mapstructure:"location"`
	Weather                     WeatherConfig   `mapstructure:"weather"`
	Notifier                    NotifierConfig  `mapstructure:"notifier"`
	Thresholds                  ThresholdConfig `mapstructure:"thresholds"`
	QuietHours                  QuietConfig     `mapstructure:"quiet_hours"`
	DuplicateSuppressionMinutes int             `mapstructure:"duplicate_suppression_minutes" validate:"gt=0"`
	DefaultMode                 string          `mapstructure:"default_mode" validate:"oneof=cooling heating"`
	PollInterval                time.Duration   `mapstructure:"poll_interval" validate:"gte=1m"`
	Log                         LogConfig       `mapstructure:"log"`
	API                         APIConfig       `mapstructure:"api"`
}

type DBConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LocationConfig struct {
	ZipCode string `mapstructure:"zip_code" validate:"omitempty,numeric,len=5"`
	// Timezone is an IANA name used to evaluate quiet hours; "Local" uses the host zone.
	Timezone string `mapstructure:"timezone" validate:"required"`
}

type WeatherConfig struct {
	ForecastURL string        `mapstructure:"forecast_url" validate:"required,url"`
	GeocodeURL  string        `mapstructure:"geocode_url" validate:"required,url"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type NotifierConfig struct {
	Backend  string         `mapstructure:"backend" validate:"oneof=telegram sns"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	SNS      SNSConfig      `mapstructure:"sns"`
	Timeout  time.Duration  `mapstructure:"timeout" validate:"gt=0"`
}

type TelegramConfig struct {
	Token   string `mapstructure:"token"`
	ChatID  string `mapstructure:"chat_id"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type SNSConfig struct {
	Region      string `mapstructure:"region"`
	PhoneNumber string `mapstructure:"phone_number" validate:"omitempty,e164"`
	TopicARN    string `mapstructure:"topic_arn"`
	EndpointURL string `mapstructure:"endpoint_url" validate:"omitempty,url"`
	AccessKeyID string `mapstructure:"access_key_id"`
	SecretKey   string `mapstructure:"secret_access_key"`
}

type ThresholdConfig struct {
	Cooling CoolingThresholds `mapstructure:"cooling"`
	Heating HeatingThresholds `mapstructure:"heating"`
}

// CoolingThresholds: open must not exceed close, or the advisor would flap.
type CoolingThresholds struct {
	CloseTemp             float64 `mapstructure:"close_temp"`
	OpenTemp              float64 `mapstructure:"open_temp" validate:"ltefield=CloseTemp"`
	ForecastHighThreshold float64 `mapstructure:"forecast_high_threshold"`
}

type HeatingThresholds struct {
	CloseTemp            float64 `mapstructure:"close_temp" validate:"ltfield=OpenTemp"`
	OpenTemp             float64 `mapstructure:"open_temp"`
	ForecastLowThreshold float64 `mapstructure:"forecast_low_threshold"`
}

type QuietConfig struct {
	StartHour   int `mapstructure:"start_hour" validate:"min=0,max=23"`
	StartMinute int `mapstructure:"start_minute" validate:"min=0,max=59"`
	EndHour     int `mapstructure:"end_hour" validate:"min=0,max=23"`
	EndMinute   int `mapstructure:"end_minute" validate:"min=0,max=59"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

type APIConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Port         string        `mapstructure:"port"`
	Username     string        `mapstructure:"username" validate:"required_if=Enabled true"`
	PasswordHash string        `mapstructure:"password_hash" validate:"required_if=Enabled true"`
	JWTSecret    string        `mapstructure:"jwt_secret" validate:"required_if=Enabled true"`
	TokenTTL     time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	RateLimit    float64       `mapstructure:"rate_limit" validate:"gt=0"`
	RateBurst    int           `mapstructure:"rate_burst" validate:"gt=0"`
}

// Load reads .env (if present), the optional YAML file and the environment,
// in increasing order of precedence, and validates the result.
// An empty path searches configs/config.yml.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Decision projects the threshold and quiet-hour settings for the engine.
func (c *Config) Decision() decision.Config {
	return decision.Config{
		Thresholds: decision.Thresholds{
			CloseTemp:                   c.Thresholds.Cooling.CloseTemp,
			OpenTemp:                    c.Thresholds.Cooling.OpenTemp,
			ForecastHighThreshold:       c.Thresholds.Cooling.ForecastHighThreshold,
			HeatingCloseTemp:            c.Thresholds.Heating.CloseTemp,
			HeatingOpenTemp:             c.Thresholds.Heating.OpenTemp,
			HeatingForecastLowThreshold: c.Thresholds.Heating.ForecastLowThreshold,
		},
		QuietHours: decision.QuietHours{
			StartHour:   c.QuietHours.StartHour,
			StartMinute: c.QuietHours.StartMinute,
			EndHour:     c.QuietHours.EndHour,
			EndMinute:   c.QuietHours.EndMinute,
		},
		DuplicateSuppression: time.Duration(c.DuplicateSuppressionMinutes) * time.Minute,
	}
}

// TimeLocation resolves Location.Timezone. Validate has already checked it.
func (c *Config) TimeLocation() *time.Location {
	loc, err := time.LoadLocation(c.Location.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
