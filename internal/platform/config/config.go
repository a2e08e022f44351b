package config

import (
	"os"
	"strings"
	"time"
)

// MetadataCacheTTL bounds how long collaborator-facing metadata reads may be
// served from cache.
var MetadataCacheTTL = 5 * time.Minute

// Server captures process-level configuration.
type Server struct {
	Addr          string
	LogLevel      string
	PostgresURL   string
	RedisURL      string
	KafkaBrokers  []string
	EventTopic    string
	JWTSigningKey string
	Administrator string
}

// FromEnv builds a Server config from environment variables so main stays
// lean. Empty PostgresURL selects the in-memory store; empty RedisURL and
// KafkaBrokers disable the cache and the kafka event sink.
func FromEnv() Server {
	addr := os.Getenv("STEWARD_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	logLevel := os.Getenv("STEWARD_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	topic := os.Getenv("STEWARD_EVENT_TOPIC")
	if topic == "" {
		topic = "steward_registry_events"
	}

	var brokers []string
	if raw := os.Getenv("STEWARD_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	jwtSigningKey := os.Getenv("STEWARD_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	admin := os.Getenv("STEWARD_ADMINISTRATOR")
	if admin == "" {
		admin = "deployer"
	}

	return Server{
		Addr:          addr,
		LogLevel:      logLevel,
		PostgresURL:   os.Getenv("STEWARD_POSTGRES_URL"),
		RedisURL:      os.Getenv("STEWARD_REDIS_URL"),
		KafkaBrokers:  brokers,
		EventTopic:    topic,
		JWTSigningKey: jwtSigningKey,
		Administrator: admin,
	}
}
