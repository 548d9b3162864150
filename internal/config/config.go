// Package config loads layered configuration: a base YAML file, an optional
// per-environment overlay, and WSP_-prefixed environment variables on top.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	DB struct {
		DSN             string        `koanf:"dsn"`
		MaxConns        int32         `koanf:"max_conns"`
		MinConns        int32         `koanf:"min_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"db"`

	Razorpay struct {
		KeyID     string `koanf:"key_id"`
		KeySecret string `koanf:"key_secret"`
	} `koanf:"razorpay"`

	SMTP struct {
		Host     string `koanf:"host"`
		Port     int    `koanf:"port"`
		Username string `koanf:"username"`
		Password string `koanf:"password"`
		From     string `koanf:"from"`
	} `koanf:"smtp"`

	Billing struct {
		CompanyName    string `koanf:"company_name"`
		CompanyAddress string `koanf:"company_address"`
		CompanyGSTIN   string `koanf:"company_gstin"`
		GSTPercent     int    `koanf:"gst_percent"`
		AdminEmail     string `koanf:"admin_email"`
	} `koanf:"billing"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		Issuer    string        `koanf:"issuer"`
		TokenTTL  time.Duration `koanf:"token_ttl"`
	} `koanf:"security"`

	Outbox struct {
		PollInterval time.Duration `koanf:"poll_interval"`
		MaxAttempts  int           `koanf:"max_attempts"`
		PendingTTL   time.Duration `koanf:"pending_ttl"`
	} `koanf:"outbox"`
}

// Load reads <dir>/base.yaml, overlays <dir>/<envName>.yaml if present, then
// applies WSP_ environment variables (nested keys joined with __, e.g.
// WSP_DB__DSN, WSP_RAZORPAY__KEY_SECRET).
func Load(dir, envName string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", dir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base config: %w", err)
	}
	// Overlay is optional so local runs work off base alone.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", dir, envName)), yaml.Parser())

	if err := k.Load(env.Provider("WSP_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "WSP_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.HTTPAddr == "" {
		c.App.HTTPAddr = ":8080"
	}
	if c.App.LogFile == "" {
		c.App.LogFile = "./logs/app.log"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 15 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.Billing.GSTPercent == 0 {
		c.Billing.GSTPercent = 18
	}
	if c.Outbox.PollInterval == 0 {
		c.Outbox.PollInterval = 15 * time.Second
	}
	if c.Outbox.MaxAttempts == 0 {
		c.Outbox.MaxAttempts = 8
	}
	if c.Outbox.PendingTTL == 0 {
		c.Outbox.PendingTTL = 24 * time.Hour
	}
	if c.Security.TokenTTL == 0 {
		c.Security.TokenTTL = 12 * time.Hour
	}
}

func (c Config) Validate() error {
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn required")
	}
	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		return fmt.Errorf("razorpay.key_id and razorpay.key_secret required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	if c.Billing.AdminEmail == "" {
		return fmt.Errorf("billing.admin_email required")
	}
	return nil
}
