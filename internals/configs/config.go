package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig is the typed view over the process environment.
type AppConfig struct {
	Port string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	// DBStatementTimeout is sent as the statement_timeout runtime parameter.
	DBStatementTimeout time.Duration

	RedisAddr        string
	RedisPassword    string
	CapacityCacheTTL time.Duration

	JWTSecret         string
	JWTTTL            time.Duration
	AdminEmail        string
	AdminPasswordHash string
	AdminEmails       []string
	GoogleClientID    string

	CompletionCron string
	SeedFile       string
	CorsOrigins    []string
	// TrustedProxies lists proxy IPs/CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string

	LogLevel  string
	LogPretty bool
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		log.Info().Msg("running on platform, using system environment")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env not found, using system environment")
		return
	}
	log.Info().Msg(".env loaded")
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// Load reads AppConfig from the environment. Call LoadEnv first.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port: GetEnv("PORT", "3000"),

		DatabaseURL: GetEnv("DATABASE_URL"),
		DBHost:      GetEnv("DB_HOST", "127.0.0.1"),
		DBPort:      GetEnv("DB_PORT", "5432"),
		DBUser:      GetEnv("DB_USER", "postgres"),
		DBPassword:  GetEnv("DB_PASSWORD"),
		DBName:      GetEnv("DB_NAME", "eventhub"),
		DBSSLMode:   GetEnv("DB_SSLMODE", "disable"),

		RedisAddr:     GetEnv("REDIS_ADDR"),
		RedisPassword: GetEnv("REDIS_PASSWORD"),

		JWTSecret:         GetEnv("JWT_SECRET"),
		AdminEmail:        strings.ToLower(strings.TrimSpace(GetEnv("ADMIN_EMAIL"))),
		AdminPasswordHash: GetEnv("ADMIN_PASSWORD_HASH"),
		AdminEmails:       splitList(GetEnv("ADMIN_EMAILS")),
		GoogleClientID:    GetEnv("GOOGLE_CLIENT_ID"),

		CompletionCron: GetEnv("COMPLETION_CRON", "@every 1h"),
		SeedFile:       GetEnv("SEED_FILE"),
		CorsOrigins:    splitList(GetEnv("CORS_ORIGINS")),
		TrustedProxies: splitList(GetEnv("TRUSTED_PROXIES")),

		LogLevel: GetEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.CapacityCacheTTL, err = durationEnv("CAPACITY_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = durationEnv("JWT_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.DBStatementTimeout, err = durationEnv("DB_STATEMENT_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if v := GetEnv("LOG_PRETTY"); v != "" {
		if cfg.LogPretty, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("LOG_PRETTY: %w", err)
		}
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, admin routes will reject every token")
	}
	return cfg, nil
}

// DSN builds the Postgres connection string. DATABASE_URL wins when present and is
// used as given.
func (c *AppConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=eventhub",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
	if c.DBStatementTimeout > 0 {
		dsn += "&statement_timeout=" + strconv.FormatInt(c.DBStatementTimeout.Milliseconds(), 10)
	}
	return dsn
}

// ApplyProxy makes c.IP() honor X-Forwarded-For only for requests coming from
// TrustedProxies. With no trusted proxies the header is ignored.
func (c *AppConfig) ApplyProxy(fc *fiber.Config) {
	if len(c.TrustedProxies) == 0 {
		fc.ProxyHeader = ""
		fc.EnableTrustedProxyCheck = false
		fc.TrustedProxies = nil
		return
	}
	fc.ProxyHeader = fiber.HeaderXForwardedFor
	fc.EnableTrustedProxyCheck = true
	fc.TrustedProxies = append([]string(nil), c.TrustedProxies...)
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(GetEnv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
