package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/suar-net/relay/internal/logger"
)

type Config struct {
	Server ServerConfig  `yaml:"server"`
	DB     DBConfig      `yaml:"db"`
	JWT    JWTConfig     `yaml:"jwt"`
	Relay  RelayConfig   `yaml:"relay"`
	Log    logger.Config `yaml:"log"`
}

type ServerConfig struct {
	Port         string        `yaml:"port" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type DBConfig struct {
	Host    string `yaml:"host" validate:"required"`
	Port    int    `yaml:"port" validate:"gt=0"`
	User    string `yaml:"user" validate:"required"`
	Pass    string `yaml:"pass"`
	Name    string `yaml:"name" validate:"required"`
	SSLMode string `yaml:"sslmode"`
	DSN     string `yaml:"-"`
}

type JWTConfig struct {
	SecretKey            string        `yaml:"secret_key" validate:"required"`
	AccessTokenExpiresIn time.Duration `yaml:"access_token_expires_in"`
}

type RelayConfig struct {
	Scheme      string        `yaml:"scheme" validate:"oneof=http https"`
	UserAgent   string        `yaml:"user_agent"`
	MinInterval time.Duration `yaml:"min_interval"`
	Burst       int           `yaml:"burst" validate:"gte=1"`
}

var validate = validator.New()

// Load assembles the configuration in three layers: defaults, an optional
// YAML file named by RELAY_CONFIG_FILE, then environment variables. The
// result is validated before use.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("RELAY_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.DB.DSN = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Pass, cfg.DB.Name, cfg.DB.SSLMode,
	)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:        "8080",
			ReadTimeout: 15 * time.Second,
			// Must outlast the longest allowed relay dispatch (90s).
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		DB: DBConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "relay",
			Name:    "relay",
			SSLMode: "disable",
		},
		JWT: JWTConfig{
			AccessTokenExpiresIn: 24 * time.Hour,
		},
		Relay: RelayConfig{
			Scheme:    "https",
			UserAgent: "suar-relay/1.0",
			Burst:     1,
		},
	}
	cfg.Log.Level = "info"
	return cfg
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.DB.Host, "DB_HOST")
	setString(&cfg.DB.User, "DB_USER")
	setString(&cfg.DB.Pass, "DB_PASS")
	setString(&cfg.DB.Name, "DB_NAME")
	setString(&cfg.DB.SSLMode, "DB_SSLMODE")
	setString(&cfg.JWT.SecretKey, "JWT_SECRET_KEY")
	setString(&cfg.Relay.Scheme, "RELAY_SCHEME")
	setString(&cfg.Relay.UserAgent, "RELAY_USER_AGENT")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT: %v", err)
		}
		cfg.DB.Port = port
	}
	if v := os.Getenv("RELAY_MIN_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RELAY_MIN_INTERVAL: %v", err)
		}
		cfg.Relay.MinInterval = interval
	}
	if v := os.Getenv("RELAY_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RELAY_BURST: %v", err)
		}
		cfg.Relay.Burst = burst
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
