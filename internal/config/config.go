// Package config reads server configuration from environment variables.
//
// Every key has a default, so `food-gallery serve` with an empty
// environment starts against Firebase with Application Default
// Credentials. A malformed value (PORT=abc) is an error, not a silent
// fallback to the default.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendFirebase = "firebase"
	BackendSQLite   = "sqlite"

	VerifierFirebase = "firebase"
	VerifierGoogle   = "google"
	VerifierLocal    = "local"

	MediaInline = "inline"
	MediaBucket = "bucket"
)

type Config struct {
	Port      int
	LogLevel  slog.Level
	LogFormat string // "text" or "json"

	StoreBackend string
	SQLitePath   string
	Firebase     FirebaseConfig

	AuthVerifier     string
	GoogleClientID   string
	LocalTokenSecret string
	TokenCacheTTL    time.Duration // 0 disables the verification cache

	MediaStorage     string
	MaxUploadBytes   int64
	PostWriteTimeout time.Duration

	CORSOrigin string
}

type FirebaseConfig struct {
	CredentialsFile string
	ProjectID       string
	DatabaseURL     string
	StorageBucket   string
}

// Load reads the environment. It does not call Validate.
func Load() (Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := Config{
		LogFormat:    strings.ToLower(envString("LOG_FORMAT", "text")),
		StoreBackend: strings.ToLower(envString("STORE_BACKEND", BackendFirebase)),
		SQLitePath:   envString("SQLITE_PATH", "data/foodgallery.db"),
		Firebase: FirebaseConfig{
			CredentialsFile: envString("FIREBASE_CREDENTIALS_FILE", ""),
			ProjectID:       envString("FIREBASE_PROJECT_ID", ""),
			DatabaseURL:     envString("FIREBASE_DATABASE_URL", ""),
			StorageBucket:   envString("FIREBASE_STORAGE_BUCKET", ""),
		},
		AuthVerifier:     strings.ToLower(envString("AUTH_VERIFIER", VerifierFirebase)),
		GoogleClientID:   envString("GOOGLE_CLIENT_ID", ""),
		LocalTokenSecret: envString("LOCAL_TOKEN_SECRET", ""),
		MediaStorage:     strings.ToLower(envString("MEDIA_STORAGE", MediaInline)),
		CORSOrigin:       envString("CORS_ORIGIN", "http://localhost:3000"),
	}

	var err error
	cfg.Port, err = envInt("PORT", 8080)
	collect(err)
	cfg.MaxUploadBytes, err = envInt64("MAX_UPLOAD_BYTES", 32<<20)
	collect(err)
	cfg.TokenCacheTTL, err = envDuration("TOKEN_CACHE_TTL", 5*time.Minute)
	collect(err)
	cfg.PostWriteTimeout, err = envDuration("POST_WRITE_TIMEOUT", 5*time.Second)
	collect(err)

	if err := cfg.LogLevel.UnmarshalText([]byte(envString("LOG_LEVEL", "info"))); err != nil {
		collect(fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// Validate checks enum values and the combinations that need extra keys.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be 1-65535, got %d", c.Port))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	switch c.StoreBackend {
	case BackendFirebase:
		if c.Firebase.DatabaseURL == "" {
			errs = append(errs, errors.New("FIREBASE_DATABASE_URL is required for the firebase backend"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be firebase or sqlite, got %q", c.StoreBackend))
	}

	switch c.AuthVerifier {
	case VerifierFirebase:
		if c.StoreBackend != BackendFirebase {
			errs = append(errs, errors.New("AUTH_VERIFIER=firebase requires STORE_BACKEND=firebase"))
		}
	case VerifierGoogle:
		if c.GoogleClientID == "" {
			errs = append(errs, errors.New("GOOGLE_CLIENT_ID is required for the google verifier"))
		}
	case VerifierLocal:
		if len(c.LocalTokenSecret) < 16 {
			errs = append(errs, errors.New("LOCAL_TOKEN_SECRET must be at least 16 characters for the local verifier"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_VERIFIER must be firebase, google or local, got %q", c.AuthVerifier))
	}

	switch c.MediaStorage {
	case MediaInline:
	case MediaBucket:
		if c.StoreBackend != BackendFirebase || c.Firebase.StorageBucket == "" {
			errs = append(errs, errors.New("MEDIA_STORAGE=bucket requires the firebase backend and FIREBASE_STORAGE_BUCKET"))
		}
	default:
		errs = append(errs, fmt.Errorf("MEDIA_STORAGE must be inline or bucket, got %q", c.MediaStorage))
	}

	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.PostWriteTimeout <= 0 {
		errs = append(errs, errors.New("POST_WRITE_TIMEOUT must be positive"))
	}
	if c.TokenCacheTTL < 0 {
		errs = append(errs, errors.New("TOKEN_CACHE_TTL must not be negative"))
	}
	if c.CORSOrigin == "" {
		errs = append(errs, errors.New("CORS_ORIGIN must not be empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func envString(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func envInt(key string, def int) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def, fmt.Errorf("%s: invalid integer %q", key, val)
	}
	return n, nil
}

func envInt64(key string, def int64) (int64, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return def, fmt.Errorf("%s: invalid integer %q", key, val)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def, fmt.Errorf("%s: invalid duration %q", key, val)
	}
	return d, nil
}
