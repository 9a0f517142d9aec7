package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	RedisURL     string   `mapstructure:"REDIS_URL"`
	KafkaBrokers []string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string   `mapstructure:"KAFKA_TOPIC"`

	AuthIssuer     string `mapstructure:"AUTH_ISSUER"`
	AuthAudience   string `mapstructure:"AUTH_AUDIENCE"`
	AuthSigningKey string `mapstructure:"AUTH_SIGNING_KEY"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	// Lead notification settings.
	SiteBaseURL        string   `mapstructure:"SITE_BASE_URL"`
	LeadEmailCC        []string `mapstructure:"LEAD_EMAIL_CC"`
	LeadEmailTestMode  bool     `mapstructure:"LEAD_EMAIL_TEST_MODE"`
	LeadEmailTestRcpt  string   `mapstructure:"LEAD_EMAIL_TEST_RECIPIENT"`

	EmailEnabled  bool   `mapstructure:"EMAIL_ENABLED"`
	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      int    `mapstructure:"SMTP_PORT"`
	SMTPUsername  string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	EmailFrom     string `mapstructure:"EMAIL_FROM"`
	EmailFromName string `mapstructure:"EMAIL_FROM_NAME"`

	SMSEnabled bool   `mapstructure:"SMS_ENABLED"`
	TwilioSID  string `mapstructure:"TWILIO_SID"`
	TwilioAuth string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFrom string `mapstructure:"TWILIO_FROM"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("KAFKA_TOPIC", "enquiry-events")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("SITE_BASE_URL", "http://localhost:3000")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM_NAME", "CareAtlas")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"CORS_ORIGINS", "REDIS_URL", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"AUTH_ISSUER", "AUTH_AUDIENCE", "AUTH_SIGNING_KEY",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"SITE_BASE_URL", "LEAD_EMAIL_CC", "LEAD_EMAIL_TEST_MODE",
		"LEAD_EMAIL_TEST_RECIPIENT",
		"EMAIL_ENABLED", "SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME",
		"SMTP_PASSWORD", "EMAIL_FROM", "EMAIL_FROM_NAME",
		"SMS_ENABLED", "TWILIO_SID", "TWILIO_AUTH_TOKEN", "TWILIO_FROM",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	if cfg.KafkaBrokers == nil {
		if brokers := v.GetString("KAFKA_BROKERS"); brokers != "" {
			cfg.KafkaBrokers = strings.Split(brokers, ",")
		}
	}
	if cfg.LeadEmailCC == nil {
		if cc := v.GetString("LEAD_EMAIL_CC"); cc != "" {
			cfg.LeadEmailCC = strings.Split(cc, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active and email/SMS senders log instead of sending.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// mode a JWT verification source must be configured, and enabled notification
// providers must carry their credentials.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthIssuer == "" && c.AuthSigningKey == "" {
		return fmt.Errorf("AUTH_ISSUER or AUTH_SIGNING_KEY must be set when ENV=%q", c.Env)
	}
	if c.EmailEnabled {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" || c.EmailFrom == "" {
			return fmt.Errorf("SMTP_HOST, SMTP_USERNAME, SMTP_PASSWORD and EMAIL_FROM are required when EMAIL_ENABLED is true")
		}
	}
	if c.SMSEnabled {
		if c.TwilioSID == "" || c.TwilioAuth == "" || c.TwilioFrom == "" {
			return fmt.Errorf("TWILIO_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM are required when SMS_ENABLED is true")
		}
	}
	if c.LeadEmailTestMode && c.LeadEmailTestRcpt == "" {
		return fmt.Errorf("LEAD_EMAIL_TEST_RECIPIENT is required when LEAD_EMAIL_TEST_MODE is true")
	}
	return nil
}
