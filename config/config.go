package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultDBPort    = 3306
	defaultDBCharset = "utf8mb4"
	defaultDBTimeout = 10 * time.Second
	defaultHTTPPort  = "8080"
)

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
	Charset  string

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DSN renders a go-sql-driver/mysql connection string. parseTime is
// required so DATETIME columns scan into time.Time.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=true&timeout=%s&readTimeout=%s&writeTimeout=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.Charset,
		c.ConnectTimeout, c.ReadTimeout, c.WriteTimeout)
}

type Config struct {
	DB        DBConfig
	HTTPPort  string
	JWTSecret []byte
}

// Load reads configuration from the environment, after best-effort loading
// a .env file. Missing required keys are aggregated into one error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded")
	}

	cfg := &Config{
		DB: DBConfig{
			Host:           os.Getenv("DB_HOST"),
			User:           os.Getenv("DB_USER"),
			Password:       os.Getenv("DB_PASSWORD"),
			Name:           os.Getenv("DB_NAME"),
			Port:           defaultDBPort,
			Charset:        defaultDBCharset,
			ConnectTimeout: defaultDBTimeout,
			ReadTimeout:    defaultDBTimeout,
			WriteTimeout:   defaultDBTimeout,
		},
		HTTPPort:  getEnv("HTTP_PORT", defaultHTTPPort),
		JWTSecret: []byte(os.Getenv("JWT_SECRET_KEY")),
	}

	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT %q: %w", portStr, err)
		}
		cfg.DB.Port = port
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var result *multierror.Error
	if c.DB.Host == "" {
		result = multierror.Append(result, fmt.Errorf("DB_HOST is not set"))
	}
	if c.DB.User == "" {
		result = multierror.Append(result, fmt.Errorf("DB_USER is not set"))
	}
	if c.DB.Name == "" {
		result = multierror.Append(result, fmt.Errorf("DB_NAME is not set"))
	}
	if len(c.JWTSecret) == 0 {
		result = multierror.Append(result, fmt.Errorf("JWT_SECRET_KEY is not set"))
	}
	return result.ErrorOrNil()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
