package config

import (
	"os"
	"strconv"
	"strings"

	"comic_platform/internal/logger"
	"comic_platform/internal/progression"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string
	ServiceKey  string // shared key for internal token issuance

	// Redis (rate limiting); empty addr disables the limiter
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit     int
	APIRateWindowSec int
	EconomyRateLimit int
	EconomyWindowSec int

	// Economy tuning
	SignupBonus  int64
	Rates        progression.Rates
	DailyRewards progression.RewardTable
}

// Load reads configuration from the environment (.env honoured in dev).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	serviceKey := os.Getenv("SERVICE_KEY")
	if serviceKey == "" {
		logger.Fatal("SERVICE_KEY is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	cfg := &Config{
		AppPort:          port,
		DatabaseURL:      dbURL,
		JWTSecret:        jwtSecret,
		ServiceKey:       serviceKey,
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          envInt("REDIS_DB", 0),
		APIRateLimit:     envInt("API_RATE_LIMIT", 60),
		APIRateWindowSec: envInt("API_RATE_WINDOW_SECONDS", 60),
		EconomyRateLimit: envInt("ECONOMY_RATE_LIMIT", 30),
		EconomyWindowSec: envInt("ECONOMY_RATE_WINDOW_SECONDS", 60),
		SignupBonus:      envInt64("SIGNUP_BONUS", 300),
		Rates: progression.Rates{
			BaseExpPerCoin:  envFloat("BASE_EXP_PER_COIN", 0.2),
			BaseExpPerPage:  envFloat("BASE_EXP_PER_PAGE", 2.0),
			ReductionFactor: envFloat("LEVEL_REDUCTION_FACTOR", 0.5),
			MinExpRate:      envFloat("MIN_EXP_RATE", 0.01),
		},
		DailyRewards: parseRewards(os.Getenv("DAILY_REWARDS")),
	}

	if cfg.Rates.ReductionFactor <= 0 || cfg.Rates.ReductionFactor >= 1 {
		logger.Fatal("LEVEL_REDUCTION_FACTOR must be in (0,1)", "value", cfg.Rates.ReductionFactor)
	}
	if err := cfg.DailyRewards.Validate(); err != nil {
		logger.Fatal("invalid DAILY_REWARDS", "error", err)
	}

	return cfg
}

// parseRewards parses a comma-separated coin list ("15,20,25,...") into the
// cyclic daily reward table. Falls back to the stock seven-day schedule.
func parseRewards(s string) progression.RewardTable {
	if s == "" {
		return progression.DefaultDailyRewards
	}
	var table progression.RewardTable
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			logger.Fatal("invalid DAILY_REWARDS entry", "entry", part)
		}
		table = append(table, n)
	}
	return table
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}
