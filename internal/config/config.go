package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode      Mode   `validate:"oneof=offline online"`
	HTTPAddr  string `validate:"required"`
	PublicURL string `validate:"omitempty,url"`

	DBDriver string `validate:"oneof=sqlite postgres"`
	DBDSN    string

	BlobDriver   string `validate:"oneof=fs minio"`
	BlobBasePath string `validate:"required_if=BlobDriver fs"`

	MinioEndpoint  string `validate:"required_if=BlobDriver minio"`
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string `validate:"required_if=BlobDriver minio"`
	MinioSecure    bool

	UploadMaxAge    time.Duration `validate:"gt=0"`
	UploadSweepSpec string        // cron spec; empty disables the sweeper
	MaxUploadBytes  int64         `validate:"gt=0"`

	AuthHMACSecret string `validate:"required,min=8"`
	AdminUser      string `validate:"required"`
	AdminPassHash  string `validate:"required"` // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	LogLevel string `validate:"oneof=debug info warn error"`
	LogFile  string

	TracingEnabled           bool
	TracingCollectorEndpoint string `validate:"required_if=TracingEnabled true"`

	RateLimitPerMinute int `validate:"gte=0"` // 0 disables the upload limiter

	DefaultLanguage string `validate:"required"`
	SeedLibraries   bool
}

// Load reads optional .env files (default ".env"), then the environment,
// then validates the result. Variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:      mode,
		HTTPAddr:  envOr("HTTP_ADDR", ":8080"),
		PublicURL: os.Getenv("PUBLIC_URL"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BlobDriver:     envOr("BLOB_DRIVER", "fs"),
		BlobBasePath:   envOr("BLOB_BASE_PATH", "./data"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    envOr("MINIO_BUCKET", "h5pimporter"),
		MinioSecure:    envBool("MINIO_SECURE", mode == ModeOnline),

		UploadMaxAge:    time.Duration(envInt("UPLOAD_MAX_AGE_MINUTES", 60)) * time.Minute,
		UploadSweepSpec: envOr("UPLOAD_SWEEP_SPEC", "*/15 * * * *"),
		MaxUploadBytes:  int64(envInt("MAX_UPLOAD_BYTES", 10<<20)),

		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://h5p.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:8080"),

		LogLevel: strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFile:  os.Getenv("LOG_FILE"),

		TracingEnabled:           envBool("TRACING_ENABLED", false),
		TracingCollectorEndpoint: os.Getenv("TRACING_COLLECTOR_ENDPOINT"),

		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 30),

		DefaultLanguage: envOr("DEFAULT_LANGUAGE", "en"),
		SeedLibraries:   envBool("SEED_LIBRARIES", mode == ModeOffline),
	}
}

// CORSOrigins picks the allow-list for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

var validate = validator.New()

func (c Config) Validate() error { return validate.Struct(c) }

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return n
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
