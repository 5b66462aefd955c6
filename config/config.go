package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	PlaceholderOwnerID = "507f1f77bcf86cd799439011"
	defaultBodyLimit   = 50 << 20
)

type Config struct {
	Port            string
	StoreDriver     string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	RedisPassword   string
	CacheTTL        time.Duration
	JWTSecret       string
	DefaultOwnerID  string
	AllowOrigins    []string
	FrontendBaseURL string
	LogLevel        string
	LogFile         string
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxBodyBytes    int64
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	ttl, err := time.ParseDuration(getenv("CACHE_TTL", "5m"))
	if err != nil || ttl <= 0 {
		ttl = 5 * time.Minute
	}

	rps := 5.0
	if v, err := strconv.ParseFloat(getenv("RATE_LIMIT_RPS", "5"), 64); err == nil && v > 0 {
		rps = v
	}

	burst := 10
	if v, err := strconv.Atoi(getenv("RATE_LIMIT_BURST", "10")); err == nil && v > 0 {
		burst = v
	}

	bodyLimit := int64(defaultBodyLimit)
	if v, err := strconv.ParseInt(getenv("MAX_BODY_BYTES", strconv.Itoa(defaultBodyLimit)), 10, 64); err == nil && v > 0 {
		bodyLimit = v
	}

	return Config{
		Port:            getenv("PORT", "5000"),
		StoreDriver:     strings.ToLower(getenv("STORE_DRIVER", "mongo")),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "travelbuddy"),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		CacheTTL:        ttl,
		JWTSecret:       must("JWT_SECRET"),
		DefaultOwnerID:  getenv("DEFAULT_OWNER_ID", PlaceholderOwnerID),
		AllowOrigins:    splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		FrontendBaseURL: strings.TrimRight(getenv("FRONTEND_BASE_URL", "http://localhost:5173"), "/"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFile:         getenv("LOG_FILE", ""),
		RateLimitRPS:    rps,
		RateLimitBurst:  burst,
		MaxBodyBytes:    bodyLimit,
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
