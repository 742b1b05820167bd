package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env        string
	Port       int
	APIPrefix  string
	AppVersion string

	Backend   BackendConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Snapshots SnapshotConfig
	Refresh   RefreshConfig
}

// BackendConfig points the console at the remote student/course API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig locates the Redis holding store snapshots.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SnapshotConfig controls mirroring of store collections into Redis.
type SnapshotConfig struct {
	Enabled    bool
	TTL        time.Duration
	Workers    int
	Retries    int
	RetryDelay time.Duration
	KeyPrefix  string
}

// RefreshConfig schedules background re-fetches of the store collections.
type RefreshConfig struct {
	Schedule string
	Timeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.AppVersion = v.GetString("APP_VERSION")

	cfg.Backend = BackendConfig{
		BaseURL: strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("BACKEND_TIMEOUT"), 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		Timeout:  parseDuration(v.GetString("REDIS_TIMEOUT"), 3*time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	workers := v.GetInt("SNAPSHOT_WORKERS")
	if workers <= 0 {
		workers = 1
	}
	cfg.Snapshots = SnapshotConfig{
		Enabled:    v.GetBool("ENABLE_SNAPSHOTS"),
		TTL:        parseDuration(v.GetString("SNAPSHOT_TTL"), 24*time.Hour),
		Workers:    workers,
		Retries:    v.GetInt("SNAPSHOT_RETRIES"),
		RetryDelay: parseDuration(v.GetString("SNAPSHOT_RETRY_DELAY"), time.Second),
		KeyPrefix:  v.GetString("SNAPSHOT_KEY_PREFIX"),
	}

	cfg.Refresh = RefreshConfig{
		Schedule: strings.TrimSpace(v.GetString("REFRESH_SCHEDULE")),
		Timeout:  parseDuration(v.GetString("REFRESH_TIMEOUT"), 30*time.Second),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8090)
	v.SetDefault("API_PREFIX", "/console")
	v.SetDefault("APP_VERSION", "1.0.0")

	v.SetDefault("BACKEND_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("BACKEND_TIMEOUT", "10s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 4)
	v.SetDefault("REDIS_TIMEOUT", "3s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_SNAPSHOTS", false)
	v.SetDefault("SNAPSHOT_TTL", "24h")
	v.SetDefault("SNAPSHOT_WORKERS", 1)
	v.SetDefault("SNAPSHOT_RETRIES", 3)
	v.SetDefault("SNAPSHOT_RETRY_DELAY", "1s")
	v.SetDefault("SNAPSHOT_KEY_PREFIX", "console:snapshot")

	v.SetDefault("REFRESH_SCHEDULE", "")
	v.SetDefault("REFRESH_TIMEOUT", "30s")
}

// viper surfaces a missing explicit config file as a plain fs error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory") ||
		strings.Contains(err.Error(), "cannot find the file")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
