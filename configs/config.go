package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	SecretKey   string
	Debug       bool
	DatabaseURL string
	SQLitePath  string
	RedisAddr   string
	BrandURL    string
	SupportURL  string
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		// Hanya log jika tidak dalam mode test
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	cfg := Config{
		Port:        os.Getenv("PORT"),
		SecretKey:   os.Getenv("SECRET_KEY"),
		Debug:       os.Getenv("DEBUG") == "true",
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("SQLITE_PATH"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		BrandURL:    os.Getenv("BRAND_URL"),
		SupportURL:  os.Getenv("SUPPORT_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "3004"
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = "secret"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "roadmapper.db"
	}

	// DATABASE_URL wajib diisi di mode production
	if !cfg.Debug && cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required in production mode")
	}

	return cfg
}
