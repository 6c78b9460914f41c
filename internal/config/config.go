package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv                 string
	LogLevel               slog.Level
	ApiServicePort         string
	RequestTimeout         time.Duration
	AllowedOrigins         []string
	PostgreSQLHost         string
	PostgreSQLPort         int64
	PostgreSQLUser         string
	PostgreSQLPassword     string
	PostgreSQLDatabase     string
	AccessTokenSecret      string
	RefreshTokenSecret     string
	AccessTokenExpiration  int64
	RefreshTokenExpiration int64
	ResetTokenExpiration   int64
	BcryptCost             int
	RedisHost              string
	RedisPort              int64
	RedisPassword          string
	RedisDB                int64
	RateLimitRequests      int64
	RateLimitWindow        time.Duration
	ActivityLogBackend     string // postgres | mongo
	MongoURL               string
	MongoDatabase          string
	EmailProvider          string // log | smtp | postmark
	SMTPHost               string
	SMTPPort               int
	SMTPUser               string
	SMTPPassword           string
	PostmarkServerToken    string
	PostmarkAccountToken   string
	SenderEmail            string
	SenderName             string
	FrontendURL            string
	RecaptchaSecret        string
	RecaptchaVerifyURL     string
}

var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:4000",
	"https://blogify-press.netlify.app",
}

func LoadConfig() *Config {
	loadEnvFiles()

	return &Config{
		AppEnv:                 getEnv("APP_ENV", "development"),                                                  // Default development
		LogLevel:               getLogLevel(),                                                                     // Default INFO
		ApiServicePort:         getEnv("API_SERVICE_PORT", "5500"),                                                // Default 5500
		RequestTimeout:         getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),                               // Default 10 seconds
		AllowedOrigins:         getEnvAsSlice("ALLOWED_ORIGINS", defaultAllowedOrigins),                           // Default dev + netlify
		PostgreSQLHost:         getEnv("POSTGRESQL_HOST", "db"),                                                   // Default db
		PostgreSQLPort:         getEnvAsInt64("POSTGRESQL_PORT", 5432),                                            // Default 5432
		PostgreSQLUser:         getEnv("POSTGRESQL_USER", "blogify_user"),                                         // Default user
		PostgreSQLPassword:     getEnv("POSTGRESQL_PASSWORD", "blogify_password"),                                 // Default password
		PostgreSQLDatabase:     getEnv("POSTGRESQL_DATABASE", "blogify_db"),                                       // Default database name
		AccessTokenSecret:      getEnv("ACCESS_SECRET", "blogify_access_secret"),                                  // Default access secret
		RefreshTokenSecret:     getEnv("REFRESH_SECRET", "blogify_refresh_secret"),                                // Default refresh secret
		AccessTokenExpiration:  getEnvAsInt64("ACCESS_TOKEN_EXPIRATION", 900),                                     // Default 15 minutes
		RefreshTokenExpiration: getEnvAsInt64("REFRESH_TOKEN_EXPIRATION", 604800),                                 // Default 7 days
		ResetTokenExpiration:   getEnvAsInt64("RESET_TOKEN_EXPIRATION", 900),                                      // Default 15 minutes
		BcryptCost:             int(getEnvAsInt64("BCRYPT_COST", 10)),                                             // Default 10
		RedisHost:              getEnv("REDIS_HOST", "redis"),                                                     // Default redis
		RedisPort:              getEnvAsInt64("REDIS_PORT", 6379),                                                 // Default 6379
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),                                                      // Default empty
		RedisDB:                getEnvAsInt64("REDIS_DATABASE", 0),                                                // Default 0
		RateLimitRequests:      getEnvAsInt64("RATE_LIMIT_REQUESTS", 20),                                          // Default 20 per window
		RateLimitWindow:        getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),                             // Default 15 minutes
		ActivityLogBackend:     strings.ToLower(getEnv("ACTIVITY_LOG_BACKEND", "postgres")),                       // Default postgres
		MongoURL:               getEnv("MONGODB_URL", "mongodb://mongo:27017"),                                    // Default mongo
		MongoDatabase:          getEnv("MONGODB_DATABASE", "blogify"),                                             // Default blogify
		EmailProvider:          strings.ToLower(getEnv("EMAIL_PROVIDER", "log")),                                  // Default log only
		SMTPHost:               getEnv("SMTP_HOST", "localhost"),                                                  // Default localhost
		SMTPPort:               int(getEnvAsInt64("SMTP_PORT", 587)),                                              // Default 587
		SMTPUser:               getEnv("SMTP_USER", ""),                                                           // Default empty
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),                                                       // Default empty
		PostmarkServerToken:    getEnv("POSTMARK_SERVER_TOKEN", ""),                                               // Default empty
		PostmarkAccountToken:   getEnv("POSTMARK_ACCOUNT_TOKEN", ""),                                              // Default empty
		SenderEmail:            getEnv("SENDER_EMAIL", "no-reply@blogify-press.local"),                            // Default sender
		SenderName:             getEnv("SENDER_NAME", "Blogify Press"),                                            // Default sender name
		FrontendURL:            strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),           // Default vite dev server
		RecaptchaSecret:        getEnv("RECAPTCHA_SECRET", ""),                                                    // Empty disables verification
		RecaptchaVerifyURL:     getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"), // Google endpoint
	}
}

// IsProduction reports whether cookies must be marked Secure and logs emitted as JSON.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// PostgresDSN builds the connection string shared by the server and the migrate command.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		c.PostgreSQLHost,
		c.PostgreSQLUser,
		c.PostgreSQLPassword,
		c.PostgreSQLDatabase,
		c.PostgreSQLPort,
	)
}

// loadEnvFiles reads .env.<APP_ENV> then .env; values already present in the
// environment are never overridden.
func loadEnvFiles() {
	env := getEnv("APP_ENV", "development")
	_ = godotenv.Load(".env." + env)
	_ = godotenv.Load()
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return fallback
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}

func getLogLevel() slog.Level {
	levelStr := getEnv("LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
