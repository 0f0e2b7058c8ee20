package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageBackendFile  = "file"
	StorageBackendRedis = "redis"
)

type Config struct {
	Server    ServerConfig
	API       APIConfig
	Storage   StorageConfig
	UI        UIConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

// APIConfig points at the account/order backend.
type APIConfig struct {
	BaseURL string
}

type StorageConfig struct {
	Backend       string
	SessionFile   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// UIConfig holds notification lifetime and the pacing delays between a
// successful submit and the follow-up view.
type UIConfig struct {
	NotificationTTL     time.Duration
	LoginRedirectDelay  time.Duration
	SignupRedirectDelay time.Duration
	OTPRedirectDelay    time.Duration
	ResetRedirectDelay  time.Duration
	LogoutDelay         time.Duration
	OrderRedirectDelay  time.Duration
}

type RateLimitConfig struct {
	GeneralRPS   float64
	GeneralBurst int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// Load reads .env from the working directory (if present) and the process
// environment. Environment variables win over the file.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

func LoadFrom(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			Host:        v.GetString("SERVER_HOST"),
			Environment: v.GetString("ENVIRONMENT"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		},
		Storage: StorageConfig{
			Backend:       strings.ToLower(v.GetString("STORAGE_BACKEND")),
			SessionFile:   v.GetString("SESSION_FILE"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			RedisPrefix:   v.GetString("REDIS_PREFIX"),
		},
		UI: UIConfig{
			NotificationTTL:     v.GetDuration("NOTIFICATION_TTL"),
			LoginRedirectDelay:  v.GetDuration("LOGIN_REDIRECT_DELAY"),
			SignupRedirectDelay: v.GetDuration("SIGNUP_REDIRECT_DELAY"),
			OTPRedirectDelay:    v.GetDuration("OTP_REDIRECT_DELAY"),
			ResetRedirectDelay:  v.GetDuration("RESET_REDIRECT_DELAY"),
			LogoutDelay:         v.GetDuration("LOGOUT_DELAY"),
			OrderRedirectDelay:  v.GetDuration("ORDER_REDIRECT_DELAY"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   v.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: v.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   v.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   v.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetInt("CORS_MAX_AGE"),
		},
	}

	if config.Storage.Backend != StorageBackendFile && config.Storage.Backend != StorageBackendRedis {
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", config.Storage.Backend)
	}
	if config.API.BaseURL == "" {
		return nil, errors.New("API_BASE_URL must not be empty")
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "127.0.0.1")
	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("ENVIRONMENT", "development")

	v.SetDefault("API_BASE_URL", "http://127.0.0.1:8000")

	v.SetDefault("STORAGE_BACKEND", StorageBackendFile)
	v.SetDefault("SESSION_FILE", defaultSessionFile())
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "userhub:storage:")

	v.SetDefault("NOTIFICATION_TTL", 4*time.Second)
	v.SetDefault("LOGIN_REDIRECT_DELAY", 500*time.Millisecond)
	v.SetDefault("SIGNUP_REDIRECT_DELAY", 1500*time.Millisecond)
	v.SetDefault("OTP_REDIRECT_DELAY", time.Second)
	v.SetDefault("RESET_REDIRECT_DELAY", time.Second)
	v.SetDefault("LOGOUT_DELAY", 1500*time.Millisecond)
	v.SetDefault("ORDER_REDIRECT_DELAY", time.Second)

	v.SetDefault("RATE_LIMIT_GENERAL_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)

	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{"Content-Type", "X-Request-ID"})
	v.SetDefault("CORS_EXPOSED_HEADERS", []string{"X-Request-ID"})
	v.SetDefault("CORS_MAX_AGE", 600)
}

func defaultSessionFile() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".userhub", "storage.json")
	}
	return filepath.Join(".userhub", "storage.json")
}
