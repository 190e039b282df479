package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	SiteURL           string        `mapstructure:"SITE_URL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DatabaseName      string        `mapstructure:"DATABASE_NAME"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTTTL            time.Duration `mapstructure:"JWT_TTL"`
	AdminRoles        string        `mapstructure:"ADMIN_ROLES"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB    int    `mapstructure:"REDIS_AUTH_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Media host.
	CloudinaryCloudName    string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey       string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret    string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryUploadFolder string `mapstructure:"CLOUDINARY_UPLOAD_FOLDER"`

	// Payments.
	StripeSecretKey string `mapstructure:"STRIPE_SECRET_KEY"`
	DefaultCurrency string `mapstructure:"DEFAULT_CURRENCY"`

	// Lead notifications.
	MailersendAPIKey string `mapstructure:"MAILERSEND_API_KEY"`
	MailerFromName   string `mapstructure:"MAILER_FROM_NAME"`
	MailerFromEmail  string `mapstructure:"MAILER_FROM_EMAIL"`
	LeadsNotifyEmail string `mapstructure:"LEADS_NOTIFY_EMAIL"`
}

var AppConfig Config

// Load reads config.yaml (if present) and the environment into AppConfig.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	AppConfig = cfg
	return cfg, nil
}

// LoadConfig is Load for process startup; it exits on failure.
func LoadConfig() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}

var defaults = map[string]interface{}{
	"APP_PORT":                 "8080",
	"ENV":                      "development",
	"LOG_LEVEL":                "info",
	"SITE_URL":                 "http://localhost:3000",
	"MAX_REQUESTS_PER_MIN":     100,
	"DATABASE_URL":             "mongodb://localhost:27017",
	"DATABASE_NAME":            "chalethaven",
	"JWT_SECRET":               "",
	"JWT_TTL":                  "24h",
	"ADMIN_ROLES":              "admin,super-admin",
	"REDIS_ADDR":               "localhost:6379",
	"REDIS_PASSWORD":           "",
	"REDIS_AUTH_DB":            0,
	"REDIS_SESSION_DB":         1,
	"REDIS_QUEUE_DB":           2,
	"CLOUDINARY_CLOUD_NAME":    "",
	"CLOUDINARY_API_KEY":       "",
	"CLOUDINARY_API_SECRET":    "",
	"CLOUDINARY_UPLOAD_FOLDER": "chalets",
	"STRIPE_SECRET_KEY":        "",
	"DEFAULT_CURRENCY":         "eur",
	"MAILERSEND_API_KEY":       "",
	"MAILER_FROM_NAME":         "Chalet Haven",
	"MAILER_FROM_EMAIL":        "",
	"LEADS_NOTIFY_EMAIL":       "",
}

// AllowedAdminRoles splits ADMIN_ROLES into its members.
func (c Config) AllowedAdminRoles() []string {
	var roles []string
	for _, r := range strings.Split(c.AdminRoles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func IsProduction() bool {
	return AppConfig.IsProduction()
}
