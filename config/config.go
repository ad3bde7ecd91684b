package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSSLMode          string
	DBPath             string
	JWTSecret          string
	JWTTTL             time.Duration
	Port               string
	LogLevel           string
	CORSAllowedOrigins []string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	DefaultFromEmail   string
	FrontendURL        string
	PageSize           int
}

func Load() *Config {
	return &Config{
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "blog"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		DBPath:             getEnv("DB_PATH", "blog.db"),
		JWTSecret:          getEnv("JWT_SECRET", "default-secret"),
		JWTTTL:             time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		DefaultFromEmail:   getEnv("DEFAULT_FROM_EMAIL", "noreply@localhost"),
		FrontendURL:        strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		PageSize:           getEnvInt("PAGE_SIZE", 10),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MailEnabled reports whether an SMTP relay is configured. Without one,
// outgoing mail is written to the log instead.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
