package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	DBMaxConns  int32
	AutoMigrate bool

	JWTSecret     string
	JWTIssuer     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration

	CookieDomain string
	CookieSecure bool
	// LoginFailureStatus is 401 by default; legacy clients expect 404.
	LoginFailureStatus int

	PublicURL   string
	FrontendURL string

	MinAge int
	MaxAge int

	Mail     MailConfig
	Telegram TelegramConfig
	Redis    RedisConfig
	Storage  StorageConfig

	ChoicesFile string

	RateLimitRPS   float64
	RateLimitBurst int

	LogJSON  bool
	LogDebug bool
}

type MailConfig struct {
	Backend  string // file | smtp
	Dir      string
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type TelegramConfig struct {
	Token  string
	ChatID string
	APIURL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Backend   string // local | s3
	MediaRoot string
	MediaURL  string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBMaxConns:  int32(getEnvInt("DB_MAX_CONNS", 10)),
		AutoMigrate: getEnvBool("AUTO_MIGRATE", true),

		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:     getEnv("JWT_ISSUER", "hr-crm"),
		JWTAccessTTL:  getEnvDuration("JWT_ACCESS_TTL", 5*24*time.Hour),
		JWTRefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 10*24*time.Hour),

		CookieDomain:       os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:       getEnvBool("COOKIE_SECURE", true),
		LoginFailureStatus: getEnvInt("LOGIN_FAILURE_STATUS", 401),

		PublicURL:   strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:8080"), "/"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		MinAge: getEnvInt("MIN_AGE", 14),
		MaxAge: getEnvInt("MAX_AGE", 100),

		Mail: MailConfig{
			Backend:  getEnv("MAIL_BACKEND", "file"),
			Dir:      getEnv("MAIL_DIR", "sent_emails"),
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("MAIL_FROM", "noreply@localhost"),
		},
		Telegram: TelegramConfig{
			Token:  os.Getenv("TG_TOKEN"),
			ChatID: os.Getenv("TG_CHAT_ID"),
			APIURL: getEnv("TG_API_URL", "https://api.telegram.org"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Backend:     getEnv("STORAGE_BACKEND", "local"),
			MediaRoot:   getEnv("MEDIA_ROOT", "media"),
			MediaURL:    getEnv("MEDIA_URL", "/media/"),
			S3Bucket:    os.Getenv("S3_BUCKET"),
			S3Region:    getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:  os.Getenv("S3_ENDPOINT"),
			S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
			S3SecretKey: os.Getenv("S3_SECRET_KEY"),
			S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},

		ChoicesFile: os.Getenv("CHOICES_FILE"),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),

		LogJSON:  getEnvBool("LOG_JSON", false),
		LogDebug: getEnvBool("LOG_DEBUG", false),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// getEnvDuration accepts Go durations ("120h") or plain minutes ("90").
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Minute
	}
	return def
}
