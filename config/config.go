package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Legal      LegalConfig
	Notify     NotifyConfig
	Outbox     OutboxConfig
	Cloudinary CloudinaryConfig
	CORS       CORSConfig
	Intake     IntakeConfig
	Assistant  AssistantConfig
	Startup    StartupConfig
}

type AppConfig struct {
	Port     string
	Env      string
	SiteURL  string
	LogLevel string

	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// LegalConfig pins the terms version users must have accepted.
type LegalConfig struct {
	CurrentVersion string
	TermsPath      string
}

type NotifyConfig struct {
	Driver       string // relay, resend, smtp or noop
	RelayURL     string
	RelayToken   string
	ResendAPIKey string
	From         string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	AdminEmail   string
}

type OutboxConfig struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type IntakeConfig struct {
	RedirectDelay time.Duration
	RatePerMinute int
	Burst         int
}

// AssistantConfig drives the course study assistant. An empty APIKey turns
// the assistant into a canned "not set up yet" reply.
type AssistantConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	MaxTokens     int
	Timeout       time.Duration
	RatePerMinute int
	Burst         int
}

type StartupConfig struct {
	Timeout time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Environment-only deployments have no .env file.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !strings.Contains(err.Error(), "no such file") {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:     viper.GetString("APP_PORT"),
			Env:      viper.GetString("APP_ENV"),
			SiteURL:  strings.TrimRight(viper.GetString("SITE_URL"), "/"),
			LogLevel: viper.GetString("LOG_LEVEL"),

			TrustedProxies: splitList(viper.GetString("TRUSTED_PROXIES")),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			TimeZone: viper.GetString("DB_TIMEZONE"),

			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  durationOr("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: durationOr("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Legal: LegalConfig{
			CurrentVersion: viper.GetString("LEGAL_VERSION"),
			TermsPath:      viper.GetString("LEGAL_TERMS_PATH"),
		},
		Notify: NotifyConfig{
			Driver:       strings.ToLower(viper.GetString("NOTIFY_DRIVER")),
			RelayURL:     viper.GetString("NOTIFY_RELAY_URL"),
			RelayToken:   viper.GetString("NOTIFY_RELAY_TOKEN"),
			ResendAPIKey: viper.GetString("RESEND_API_KEY"),
			From:         viper.GetString("NOTIFY_FROM"),
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUser:     viper.GetString("SMTP_USER"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			AdminEmail:   viper.GetString("ADMIN_EMAIL"),
		},
		Outbox: OutboxConfig{
			Interval:    durationOr("OUTBOX_INTERVAL", 30*time.Second),
			BatchSize:   viper.GetInt("OUTBOX_BATCH_SIZE"),
			MaxAttempts: viper.GetInt("OUTBOX_MAX_ATTEMPTS"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: viper.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    viper.GetString("CLOUDINARY_API_KEY"),
			APISecret: viper.GetString("CLOUDINARY_API_SECRET"),
			Folder:    viper.GetString("CLOUDINARY_FOLDER"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Intake: IntakeConfig{
			RedirectDelay: durationOr("INTAKE_REDIRECT_DELAY", 2*time.Second),
			RatePerMinute: viper.GetInt("INTAKE_RATE_PER_MINUTE"),
			Burst:         viper.GetInt("INTAKE_BURST"),
		},
		Assistant: AssistantConfig{
			APIKey:        viper.GetString("ASSISTANT_API_KEY"),
			BaseURL:       strings.TrimRight(viper.GetString("ASSISTANT_BASE_URL"), "/"),
			Model:         viper.GetString("ASSISTANT_MODEL"),
			MaxTokens:     viper.GetInt("ASSISTANT_MAX_TOKENS"),
			Timeout:       durationOr("ASSISTANT_TIMEOUT", 30*time.Second),
			RatePerMinute: viper.GetInt("ASSISTANT_RATE_PER_MINUTE"),
			Burst:         viper.GetInt("ASSISTANT_BURST"),
		},
		Startup: StartupConfig{
			Timeout: durationOr("STARTUP_TIMEOUT", 5*time.Second),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Jerusalem")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("LEGAL_VERSION", "1.0")
	viper.SetDefault("LEGAL_TERMS_PATH", "docs/terms.md")
	viper.SetDefault("NOTIFY_DRIVER", "noop")
	viper.SetDefault("OUTBOX_BATCH_SIZE", 100)
	viper.SetDefault("OUTBOX_MAX_ATTEMPTS", 5)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("CLOUDINARY_FOLDER", "therapist-crm")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("INTAKE_RATE_PER_MINUTE", 10)
	viper.SetDefault("INTAKE_BURST", 5)
	viper.SetDefault("ASSISTANT_BASE_URL", "https://api.anthropic.com")
	viper.SetDefault("ASSISTANT_MODEL", "claude-sonnet-4-5-20250929")
	viper.SetDefault("ASSISTANT_MAX_TOKENS", 1024)
	viper.SetDefault("ASSISTANT_RATE_PER_MINUTE", 20)
	viper.SetDefault("ASSISTANT_BURST", 5)
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return fallback
	}
	return d
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
