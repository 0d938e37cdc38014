package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"

	minJWTSecretLength = 16
)

type Config struct {
	AppURL                 string
	PublicURL              string
	ClientURL              string
	StoreDriver            string
	DatabaseDSN            string
	MongoURI               string
	MongoDatabase          string
	JWTSecret              string
	TokenTTLHours          int
	AdminInviteToken       string
	BcryptCost             int
	RateLimit              int
	RedisAddr              string
	RedisKeyPrefix         string
	UploadDir              string
	UploadMaxBytes         int64
	ShutdownTimeoutSeconds int
	LogLevel               string
	LogFormat              string
}

// source resolves a key from the process environment first and then from
// the optional YAML file named by CONFIG_FILE.
type source struct {
	file map[string]string
}

// Load reads configuration from the environment, falling back to the YAML
// file in CONFIG_FILE and then to defaults.
func Load() (Config, error) {
	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	appHost := src.get("APP_HOST", "127.0.0.1")
	appPort := src.get("APP_PORT", "8080")
	appURL := fmt.Sprintf("%s:%s", appHost, appPort)

	cfg := Config{
		AppURL:           appURL,
		PublicURL:        strings.TrimRight(src.get("PUBLIC_URL", "http://"+appURL), "/"),
		ClientURL:        src.get("CLIENT_URL", "*"),
		StoreDriver:      strings.ToLower(src.get("STORE_DRIVER", DriverSQLite)),
		DatabaseDSN:      src.get("DATABASE_DSN", "taskmind.db"),
		MongoURI:         src.get("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:    src.get("MONGO_DATABASE", "taskmind"),
		JWTSecret:        src.get("JWT_SECRET", ""),
		AdminInviteToken: src.get("ADMIN_INVITE_TOKEN", ""),
		RedisAddr:        src.get("REDIS_ADDR", ""),
		RedisKeyPrefix:   src.get("REDIS_KEY_PREFIX", "taskmind:ratelimit"),
		UploadDir:        src.get("UPLOAD_DIR", "uploads"),
		LogLevel:         strings.ToLower(src.get("LOG_LEVEL", "info")),
		LogFormat:        strings.ToLower(src.get("LOG_FORMAT", "text")),
	}

	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"TOKEN_TTL_HOURS", 7 * 24, &cfg.TokenTTLHours},
		{"BCRYPT_COST", 10, &cfg.BcryptCost},
		{"RATE_LIMIT_PER_MINUTE", 120, &cfg.RateLimit},
		{"SHUTDOWN_TIMEOUT_SECONDS", 20, &cfg.ShutdownTimeoutSeconds},
	}
	for _, it := range ints {
		v, err := src.getInt(it.key, it.def)
		if err != nil {
			return Config{}, err
		}
		*it.dest = v
	}

	maxBytes, err := src.getInt("UPLOAD_MAX_BYTES", 5<<20)
	if err != nil {
		return Config{}, err
	}
	cfg.UploadMaxBytes = int64(maxBytes)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.AppURL == "" {
		return fmt.Errorf("APP_HOST/APP_PORT must not be empty (e.g. 127.0.0.1:8080)")
	}
	switch cfg.StoreDriver {
	case DriverSQLite:
		if cfg.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN must not be empty")
		}
	case DriverMongo:
		if cfg.MongoURI == "" || cfg.MongoDatabase == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DATABASE must not be empty")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverMongo, cfg.StoreDriver)
	}
	if len(cfg.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if cfg.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json")
	}
	return nil
}

func newSource(path string) (source, error) {
	if path == "" {
		return source{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return source{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	file := make(map[string]string, len(raw))
	for k, v := range raw {
		file[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return source{file: file}, nil
}

func (s source) get(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v, ok := s.file[key]; ok && v != "" {
		return v
	}
	return defaultVal
}

func (s source) getInt(key string, defaultVal int) (int, error) {
	v := s.get(key, "")
	if v == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s", key)
	}
	return i, nil
}
