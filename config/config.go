package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret      string
	JWTIssuer      string
	AccessTTLHours int

	UploadDir  string
	PublicPath string

	// CheckoutAllowEmpty keeps the source behavior of creating a
	// zero-item order from an empty cart. Set to false to reject it.
	CheckoutAllowEmpty bool
}

func Load() Config {
	return Config{
		Port:        get("PORT", "8080"),
		DatabaseURL: get("DATABASE_URL", ""),

		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: get("DB_PASSWORD", ""),
		DBName:     get("DB_NAME", "warung"),

		JWTSecret:      get("JWT_SECRET", ""),
		JWTIssuer:      get("JWT_ISSUER", "warung"),
		AccessTTLHours: getInt("ACCESS_TOKEN_TTL_HOURS", 24),

		UploadDir:  get("UPLOAD_DIR", "./uploads"),
		PublicPath: get("PUBLIC_UPLOAD_PATH", "/uploads"),

		CheckoutAllowEmpty: getBool("CHECKOUT_ALLOW_EMPTY", true),
	}
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
