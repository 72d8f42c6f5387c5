package config

import "time"

// Config holds runtime configuration for the inkwell service.
type Config struct {
	Environment     string
	Addr            string
	DatabaseURL     string
	MigrationsDir   string
	JWTSecret       string
	SessionTTL      time.Duration
	BcryptCost      int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RateLimitSignup int
	RateLimitLogin  int
	RateLimitWindow time.Duration
}

// Load constructs a Config from environment variables.
func Load() Config {
	return Config{
		Environment:     GetString("APP_ENV", "development"),
		Addr:            GetString("INKWELL_ADDR", ":8080"),
		DatabaseURL:     GetString("DATABASE_URL", "postgres://inkwell:inkwell@db:5432/inkwell?sslmode=disable"),
		MigrationsDir:   GetString("DB_MIGRATIONS_DIR", "./db/migrations"),
		JWTSecret:       GetString("JWT_SECRET", "supersecretkey"),
		SessionTTL:      time.Duration(GetInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		BcryptCost:      GetInt("BCRYPT_COST", 0),
		RedisAddr:       GetString("REDIS_ADDR", "redis:6379"),
		RedisPassword:   GetString("REDIS_PASSWORD", ""),
		RedisDB:         GetInt("REDIS_DB", 0),
		RateLimitSignup: GetInt("RATE_LIMIT_SIGNUP", 5),
		RateLimitLogin:  GetInt("RATE_LIMIT_LOGIN", 12),
		RateLimitWindow: time.Duration(GetInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
	}
}
