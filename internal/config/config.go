package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoDBURL               string
	MongoDBDatabase          string
	SecretKey                string
	FrontendURL              string
	AccessTokenExpireMinutes int
	Port                     string
	UseTLS                   bool
	TLSCert                  string
	TLSKey                   string

	ParticleCount  int
	ParticleRadius float64
	OverlapRule    string
	RandomSeed     int64
}

var AppConfig *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		MongoDBURL:               getEnvOrDefault("MONGODB_URL", ""),
		MongoDBDatabase:          getEnvOrDefault("MONGODB_DATABASE", "collision_demo"),
		SecretKey:                getEnvOrDefault("SECRET_KEY", ""),
		FrontendURL:              getEnvOrDefault("FRONTEND_URL", "http://localhost:8080"),
		AccessTokenExpireMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 720),
		Port:                     getEnvOrDefault("PORT", "8080"),
		UseTLS:                   os.Getenv("USE_TLS") == "true",
		TLSCert:                  getEnvOrDefault("TLS_CERT", ""),
		TLSKey:                   getEnvOrDefault("TLS_KEY", ""),
		ParticleCount:            getEnvInt("PARTICLE_COUNT", DefaultParticleCount),
		ParticleRadius:           getEnvFloat("PARTICLE_RADIUS", DefaultParticleRadius),
		OverlapRule:              strings.ToLower(getEnvOrDefault("OVERLAP_RULE", OverlapRuleDiameter)),
		RandomSeed:               int64(getEnvInt("RANDOM_SEED", 0)),
	}

	if config.SecretKey == "" {
		log.Println("SECRET_KEY not set, generating a per-process key; join tokens will not survive restarts")
		config.SecretKey = randomKey()
	}
	if config.ParticleCount <= 0 {
		log.Printf("Invalid PARTICLE_COUNT %d, using %d", config.ParticleCount, DefaultParticleCount)
		config.ParticleCount = DefaultParticleCount
	}
	if config.ParticleRadius <= 0 {
		log.Printf("Invalid PARTICLE_RADIUS %v, using %v", config.ParticleRadius, DefaultParticleRadius)
		config.ParticleRadius = DefaultParticleRadius
	}
	if config.OverlapRule != OverlapRuleDiameter && config.OverlapRule != OverlapRuleSum {
		log.Printf("Unknown OVERLAP_RULE %q, using %q", config.OverlapRule, OverlapRuleDiameter)
		config.OverlapRule = OverlapRuleDiameter
	}

	AppConfig = config
	return config
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if val, err := strconv.Atoi(value); err == nil {
			return val
		}
		log.Printf("Ignoring non-integer %s=%q", key, value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if val, err := strconv.ParseFloat(value, 64); err == nil {
			return val
		}
		log.Printf("Ignoring non-numeric %s=%q", key, value)
	}
	return defaultValue
}

func randomKey() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
