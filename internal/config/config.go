package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"smartbanner/internal/options"
)

// Config holds all configuration (file + env overrides)
type Config struct {
	Server struct {
		Addr           string   `mapstructure:"addr"`
		LogLevel       string   `mapstructure:"log_level"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"server"`

	Postgres struct {
		Host         string `mapstructure:"host"`
		Port         int    `mapstructure:"port"`
		User         string `mapstructure:"user"`
		Password     string `mapstructure:"password"`
		DBName       string `mapstructure:"db_name"`
		SSLMode      string `mapstructure:"ssl_mode"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
		MaxIdleConns int    `mapstructure:"max_idle_conns"`
	} `mapstructure:"postgres"`

	Listener struct {
		Channel          string `mapstructure:"channel"`
		ReconnectSeconds int    `mapstructure:"reconnect_seconds"`
	} `mapstructure:"listener"`

	Suppression struct {
		// Backend is "cookie" or "redis".
		Backend string `mapstructure:"backend"`
		Redis   struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"suppression"`

	// Banners are the configured banner instances, keyed by their instance_id.
	Banners []options.Overrides `mapstructure:"banners"`

	// Pages seeds the page metadata catalog when Postgres is not configured.
	Pages []PageEntry `mapstructure:"pages"`
}

// PageEntry is one <meta> or <link> of a site.
type PageEntry struct {
	Site  string `mapstructure:"site"`
	Kind  string `mapstructure:"kind"`
	Name  string `mapstructure:"name"`
	Value string `mapstructure:"value"`
}

func Load() Config {
	cfg, err := LoadFrom("configs")
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadFrom reads application.yaml from dir, then APP_* env overrides.
func LoadFrom(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	_ = v.ReadInConfig() // optional; env can fully configure

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range []string{
		"server.addr", "server.log_level",
		"postgres.host", "postgres.port", "postgres.user", "postgres.password", "postgres.db_name", "postgres.ssl_mode",
		"listener.channel", "suppression.backend", "suppression.redis.addr", "suppression.redis.password", "suppression.redis.db",
	} {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	validate(&cfg)
	return cfg, nil
}

func validate(c *Config) {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = "disable"
	}
	if c.Postgres.MaxOpenConns == 0 {
		c.Postgres.MaxOpenConns = 10
	}
	if c.Postgres.MaxIdleConns == 0 {
		c.Postgres.MaxIdleConns = 2
	}
	if c.Listener.ReconnectSeconds <= 0 {
		c.Listener.ReconnectSeconds = 5
	}
	c.Suppression.Backend = strings.ToLower(c.Suppression.Backend)
	if c.Suppression.Backend != "redis" {
		c.Suppression.Backend = "cookie"
	}
}

// PostgresEnabled reports whether page metadata comes from Postgres.
func (c Config) PostgresEnabled() bool { return c.Postgres.Host != "" }

func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.DBName,
		c.Postgres.SSLMode,
	)
}

func (c Config) Backoff() time.Duration {
	return time.Duration(c.Listener.ReconnectSeconds) * time.Second
}
