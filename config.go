package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all environment variables for the orders service.
// Redis and NATS are optional integrations; leaving their URLs empty
// disables them.
type Config struct {
	Port     string
	MongoURI string
	MongoDB  string
	RedisURL string
	NatsURL  string
	Env      string
}

// LoadConfig reads configuration from the environment, loading a .env
// file first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "3000"),
		MongoURI: getEnv("MONGO_URI", "mongodb://mongo:27017/campgo_orders"),
		MongoDB:  getEnv("MONGO_DB", "campgo_orders"),
		RedisURL: os.Getenv("REDIS_URL"),
		NatsURL:  os.Getenv("NATS_URL"),
		Env:      getEnv("ENV", "development"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
