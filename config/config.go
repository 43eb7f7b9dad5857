package config

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env         string           `mapstructure:"app_env"`
	Port        string           `mapstructure:"port"`
	DatabaseURL string           `mapstructure:"database_url"`
	LogLevel    string           `mapstructure:"log_level"`
	AppDomain   string           `mapstructure:"app_domain"`
	JWT         JWTConfig        `mapstructure:",squash"`
	Redis       RedisConfig      `mapstructure:",squash"`
	Cron        CronConfig       `mapstructure:",squash"`
	SMTP        SMTPConfig       `mapstructure:",squash"`
	Cloudinary  CloudinaryConfig `mapstructure:",squash"`
}

type JWTConfig struct {
	Secret   string `mapstructure:"jwt_secret"`
	TTLHours int    `mapstructure:"jwt_ttl_hours"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type CronConfig struct {
	CompleteSpec string `mapstructure:"cron_complete_spec"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"smtp_host"`
	Port     int    `mapstructure:"smtp_port"`
	User     string `mapstructure:"email_user"`
	Password string `mapstructure:"email_pass"`
}

// CloudinaryConfig holds Cloudinary configuration
type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloudinary_cloud_name"`
	APIKey    string `mapstructure:"cloudinary_api_key"`
	APISecret string `mapstructure:"cloudinary_api_secret"`
	Folder    string `mapstructure:"cloudinary_folder"`
}

var keys = []string{
	"app_env", "port", "database_url", "log_level", "app_domain",
	"jwt_secret", "jwt_ttl_hours",
	"redis_addr", "redis_password", "redis_db",
	"cron_complete_spec",
	"smtp_host", "smtp_port", "email_user", "email_pass",
	"cloudinary_cloud_name", "cloudinary_api_key", "cloudinary_api_secret", "cloudinary_folder",
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	v := viper.New()
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "8000")
	v.SetDefault("log_level", "info")
	v.SetDefault("app_domain", "http://localhost:4200")
	v.SetDefault("jwt_ttl_hours", 24)
	v.SetDefault("redis_db", 0)
	v.SetDefault("cron_complete_spec", "*/5 * * * *")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("cloudinary_folder", "therapy-images")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every server-side command needs.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
