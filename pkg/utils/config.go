package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	OTP      OTPConfig
	Email    EmailConfig
	SMS      SMSConfig
	AWS      AWSConfig
	Storage  StorageConfig
	Events   EventsConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	Timezone string
	// TrustProxy honors X-Forwarded-For / X-Real-IP. Enable only behind a proxy that
	// overwrites those headers, otherwise clients pick their own rate-limit key.
	TrustProxy bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

// URL returns the connection URL used by the migrator.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	Secret             string
	AccessExpiryMinute int
	RefreshExpiryDays  int
}

type OTPConfig struct {
	TTLSeconds     int
	Digits         int
	Issuer         string
	RequestsPerMin int
	RequestsBurst  int
}

// TTL is the validity window of an issued secret.
func (o OTPConfig) TTL() time.Duration {
	return time.Duration(o.TTLSeconds) * time.Second
}

type EmailConfig struct {
	Provider string // log, ses or smtp
	From     string
	Host     string
	Port     int
	User     string
	Password string
}

type SMSConfig struct {
	Provider string // log or sns
	SenderID string
}

type AWSConfig struct {
	Region   string
	Endpoint string
}

type StorageConfig struct {
	Bucket string
	Prefix string
}

type EventsConfig struct {
	Driver       string // none, sqs or kafka
	SQSQueueURL  string
	KafkaBrokers []string
	KafkaTopic   string
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("APP_NAME", "HeartCoach")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_ACCESS_EXPIRY_MINUTES", 60*24*7)
	v.SetDefault("JWT_REFRESH_EXPIRY_DAYS", 30)
	v.SetDefault("OTP_TTL_SECONDS", 300)
	v.SetDefault("OTP_DIGITS", 6)
	v.SetDefault("OTP_ISSUER", "HeartCoach")
	v.SetDefault("OTP_REQUESTS_PER_MINUTE", 5)
	v.SetDefault("OTP_REQUESTS_BURST", 5)
	v.SetDefault("EMAIL_PROVIDER", "log")
	v.SetDefault("SMTP_PORT", 1025)
	v.SetDefault("SMS_PROVIDER", "log")
	v.SetDefault("AWS_REGION", "ap-south-1")
	v.SetDefault("STORAGE_PREFIX", "exports/")
	v.SetDefault("EVENTS_DRIVER", "none")
	v.SetDefault("KAFKA_TOPIC", "intake-events")

	// .env is optional, the environment always wins
	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:       v.GetString("APP_NAME"),
			Port:       v.GetString("PORT"),
			Debug:      v.GetBool("DEBUG"),
			LogPath:    v.GetString("LOG_PATH"),
			Timezone:   v.GetString("APP_TIMEZONE"),
			TrustProxy: v.GetBool("TRUST_PROXY"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		JWT: JWTConfig{
			Secret:             v.GetString("JWT_SECRET"),
			AccessExpiryMinute: v.GetInt("JWT_ACCESS_EXPIRY_MINUTES"),
			RefreshExpiryDays:  v.GetInt("JWT_REFRESH_EXPIRY_DAYS"),
		},
		OTP: OTPConfig{
			TTLSeconds:     v.GetInt("OTP_TTL_SECONDS"),
			Digits:         v.GetInt("OTP_DIGITS"),
			Issuer:         v.GetString("OTP_ISSUER"),
			RequestsPerMin: v.GetInt("OTP_REQUESTS_PER_MINUTE"),
			RequestsBurst:  v.GetInt("OTP_REQUESTS_BURST"),
		},
		Email: EmailConfig{
			Provider: v.GetString("EMAIL_PROVIDER"),
			From:     v.GetString("EMAIL_FROM"),
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
		},
		SMS: SMSConfig{
			Provider: v.GetString("SMS_PROVIDER"),
			SenderID: v.GetString("SMS_SENDER_ID"),
		},
		AWS: AWSConfig{
			Region:   v.GetString("AWS_REGION"),
			Endpoint: v.GetString("AWS_ENDPOINT"),
		},
		Storage: StorageConfig{
			Bucket: v.GetString("STORAGE_BUCKET"),
			Prefix: v.GetString("STORAGE_PREFIX"),
		},
		Events: EventsConfig{
			Driver:       v.GetString("EVENTS_DRIVER"),
			SQSQueueURL:  v.GetString("SQS_QUEUE_URL"),
			KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
			KafkaTopic:   v.GetString("KAFKA_TOPIC"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := time.LoadLocation(config.App.Timezone); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", config.App.Timezone, err)
	}

	return config, nil
}

// Location returns the timezone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
