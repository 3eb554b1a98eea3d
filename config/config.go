package config

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Env         string `mapstructure:"env"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"` // sqlite or postgres
	DSN     string `mapstructure:"dsn"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type BootstrapConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ReminderConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
	Template string `mapstructure:"template"`
}

type TwilioConfig struct {
	AccountSID  string `mapstructure:"account_sid"`
	AuthToken   string `mapstructure:"auth_token"`
	PhoneNumber string `mapstructure:"phone_number"`
}

type Config struct {
	ServiceName string          `mapstructure:"service_name"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	JWT         JWTConfig       `mapstructure:"jwt"`
	Bootstrap   BootstrapConfig `mapstructure:"bootstrap"`
	Reminder    ReminderConfig  `mapstructure:"reminder"`
	Twilio      TwilioConfig    `mapstructure:"twilio"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// a few keys keep the short names the deployment already uses
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.env", "APP_ENV")
	_ = v.BindEnv("server.cors_origins", "CORS_ORIGINS")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultBootstrapPassword is only acceptable outside production.
const DefaultBootstrapPassword = "admin"

// Validate rejects settings that are tolerated in development but unsafe in
// production.
func (c *Config) Validate() error {
	if !c.Server.IsProduction() {
		return nil
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.Bootstrap.Password == "" || c.Bootstrap.Password == DefaultBootstrapPassword {
		return errors.New("BOOTSTRAP_PASSWORD must be set to a non-default value in production")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "sto-mana")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_origins", "http://localhost:3000")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "store.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry_hours", 24)
	v.SetDefault("bootstrap.username", "admin")
	v.SetDefault("bootstrap.password", DefaultBootstrapPassword)
	v.SetDefault("reminder.enabled", false)
	v.SetDefault("reminder.schedule", "0 9 * * *")
	v.SetDefault("reminder.template", "Hello {name}, you have {count} overdue purchase(s) with {amount} outstanding. Please visit the store to settle.")
	v.SetDefault("twilio.account_sid", "")
	v.SetDefault("twilio.auth_token", "")
	v.SetDefault("twilio.phone_number", "")
}

// Origins splits the configured CORS origins. The local frontend is allowed
// when none are configured.
func (s ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		out = []string{"http://localhost:3000"}
	}
	return out
}

func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}
