package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Port          string
	GinMode       string
	StoreDriver   string
	DatabaseURL   string
	RedisURL      string
	SessionSecret string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
	CacheSize     int
	CacheTTL      time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	vp := viper.New()
	vp.AutomaticEnv()

	vp.SetDefault("PORT", "8080")
	vp.SetDefault("GIN_MODE", "debug")
	vp.SetDefault("STORE_DRIVER", DriverPostgres)
	vp.SetDefault("DATABASE_URL", "")
	vp.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	vp.SetDefault("SESSION_SECRET", "secret_key_change_me")
	vp.SetDefault("JWT_SECRET", "jwt_secret_change_me")
	vp.SetDefault("JWT_EXPIRE_HOURS", 24*30)
	vp.SetDefault("CORS_ORIGINS", "*")
	vp.SetDefault("CACHE_SIZE", 500)
	vp.SetDefault("CACHE_TTL_SECONDS", 300)
	return vp
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(vp *viper.Viper) Config {
	cfg := Config{
		Port:          vp.GetString("PORT"),
		GinMode:       vp.GetString("GIN_MODE"),
		StoreDriver:   strings.ToLower(vp.GetString("STORE_DRIVER")),
		DatabaseURL:   vp.GetString("DATABASE_URL"),
		RedisURL:      vp.GetString("REDIS_URL"),
		SessionSecret: vp.GetString("SESSION_SECRET"),
		JWTSecret:     vp.GetString("JWT_SECRET"),
		TokenTTL:      time.Duration(vp.GetInt("JWT_EXPIRE_HOURS")) * time.Hour,
		CacheSize:     vp.GetInt("CACHE_SIZE"),
		CacheTTL:      time.Duration(vp.GetInt("CACHE_TTL_SECONDS")) * time.Second,
	}
	for _, origin := range strings.Split(vp.GetString("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}
	if cfg.StoreDriver != DriverRedis {
		cfg.StoreDriver = DriverPostgres
	}
	return cfg
}
