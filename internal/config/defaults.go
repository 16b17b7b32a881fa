package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// envKeys maps config keys to the environment variables that override them.
// The threshold and quiet-hour names are kept compatible with existing .env files.
var envKeys = map[string]string{
	"db.path":                                    "DATABASE_PATH",
	"location.zip_code":                          "ZIP_CODE",
	"location.timezone":                          "TIMEZONE",
	"weather.forecast_url":                       "WEATHER_FORECAST_URL",
	"weather.geocode_url":                        "WEATHER_GEOCODE_URL",
	"weather.timeout":                            "WEATHER_TIMEOUT",
	"notifier.backend":                           "NOTIFIER_BACKEND",
	"notifier.timeout":                           "NOTIFIER_TIMEOUT",
	"notifier.telegram.token":                    "TELEGRAM_BOT_TOKEN",
	"notifier.telegram.chat_id":                  "TELEGRAM_CHAT_ID",
	"notifier.telegram.base_url":                 "TELEGRAM_API_URL",
	"notifier.sns.region":                        "SNS_REGION",
	"notifier.sns.phone_number":                  "SNS_PHONE_NUMBER",
	"notifier.sns.topic_arn":                     "SNS_TOPIC_ARN",
	"notifier.sns.endpoint_url":                  "AWS_ENDPOINT_URL",
	"notifier.sns.access_key_id":                 "AWS_ACCESS_KEY_ID",
	"notifier.sns.secret_access_key":             "AWS_SECRET_ACCESS_KEY",
	"thresholds.cooling.close_temp":              "CLOSE_WINDOWS_TEMP",
	"thresholds.cooling.open_temp":               "OPEN_WINDOWS_TEMP",
	"thresholds.cooling.forecast_high_threshold": "FORECAST_HIGH_THRESHOLD",
	"thresholds.heating.close_temp":              "HEATING_CLOSE_TEMP",
	"thresholds.heating.open_temp":               "HEATING_OPEN_TEMP",
	"thresholds.heating.forecast_low_threshold":  "HEATING_FORECAST_LOW_THRESHOLD",
	"quiet_hours.start_hour":                     "QUIET_START_HOUR",
	"quiet_hours.start_minute":                   "QUIET_START_MINUTE",
	"quiet_hours.end_hour":                       "QUIET_END_HOUR",
	"quiet_hours.end_minute":                     "QUIET_END_MINUTE",
	"duplicate_suppression_minutes":              "DUPLICATE_SUPPRESSION_MINUTES",
	"default_mode":                               "DEFAULT_MODE",
	"poll_interval":                              "POLL_INTERVAL",
	"log.level":                                  "LOG_LEVEL",
	"log.file":                                   "LOG_FILE",
	"api.enabled":                                "API_ENABLED",
	"api.port":                                   "PORT",
	"api.username":                               "API_USERNAME",
	"api.password_hash":                          "API_PASSWORD_HASH",
	"api.jwt_secret":                             "API_JWT_SECRET",
	"api.token_ttl":                              "API_TOKEN_TTL",
	"api.rate_limit":                             "API_RATE_LIMIT",
	"api.rate_burst":                             "API_RATE_BURST",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.path", "temperature_checker.db")
	v.SetDefault("location.zip_code", "")
	v.SetDefault("location.timezone", "Local")

	v.SetDefault("weather.forecast_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("weather.geocode_url", "https://api.zippopotam.us/us")
	v.SetDefault("weather.timeout", 10*time.Second)

	v.SetDefault("notifier.backend", "telegram")
	v.SetDefault("notifier.timeout", 10*time.Second)
	v.SetDefault("notifier.telegram.token", "")
	v.SetDefault("notifier.telegram.chat_id", "")
	v.SetDefault("notifier.telegram.base_url", "https://api.telegram.org")
	v.SetDefault("notifier.sns.region", "us-east-1")
	v.SetDefault("notifier.sns.phone_number", "")
	v.SetDefault("notifier.sns.topic_arn", "")
	v.SetDefault("notifier.sns.endpoint_url", "")
	v.SetDefault("notifier.sns.access_key_id", "")
	v.SetDefault("notifier.sns.secret_access_key", "")

	v.SetDefault("thresholds.cooling.close_temp", 78.0)
	v.SetDefault("thresholds.cooling.open_temp", 76.0)
	v.SetDefault("thresholds.cooling.forecast_high_threshold", 80.0)
	v.SetDefault("thresholds.heating.close_temp", 55.0)
	v.SetDefault("thresholds.heating.open_temp", 65.0)
	v.SetDefault("thresholds.heating.forecast_low_threshold", 70.0)

	v.SetDefault("quiet_hours.start_hour", 22)
	v.SetDefault("quiet_hours.start_minute", 30)
	v.SetDefault("quiet_hours.end_hour", 7)
	v.SetDefault("quiet_hours.end_minute", 0)

	v.SetDefault("duplicate_suppression_minutes", 30)
	v.SetDefault("default_mode", "cooling")
	v.SetDefault("poll_interval", 10*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("api.enabled", false)
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.username", "admin")
	v.SetDefault("api.password_hash", "")
	v.SetDefault("api.jwt_secret", "")
	v.SetDefault("api.token_ttl", time.Hour)
	v.SetDefault("api.rate_limit", 5.0)
	v.SetDefault("api.rate_burst", 10)
}

func bindEnv(v *viper.Viper) error {
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	return nil
}
