package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	SQLitePath     string
	PostgresDSN    string
	MongoURI       string
	ClickHouseAddr string
	RedisAddr      string
	KafkaBrokers   []string
	CacheTTL       time.Duration
	OutboxPeriod   time.Duration
	OutboxLimit    int
	HTTPPort       string

	// UseKafka selecciona Kafka como bus de eventos; si es false se usa el bus en memoria.
	UseKafka bool
	// LocalDeployment usa SQLite para todo; en producción rentals van a Postgres.
	LocalDeployment bool
	// RentalBackend fuerza el almacén de reservas: sqlite, postgres o mongo.
	// Vacío delega en LocalDeployment.
	RentalBackend string
	// AllowPastStart permite reservas cuya fecha de inicio ya pasó.
	AllowPastStart bool
}

func LoadConfig() *Config {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")

	return &Config{
		SQLitePath:      getEnv("SQLITE_PATH", "./rentacarritos.db"),
		PostgresDSN:     getEnv("POSTGRES_DSN", "postgres://localhost:5432/rentacarritos"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		ClickHouseAddr:  getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    kafkaBrokers,
		CacheTTL:        5 * time.Minute,
		OutboxPeriod:    1 * time.Second,
		OutboxLimit:     10,
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		UseKafka:        getEnv("USE_KAFKA", "") == "true",
		LocalDeployment: getEnv("LOCAL_DEPLOYMENT", "true") == "true",
		RentalBackend:   getEnv("RENTAL_BACKEND", ""),
		AllowPastStart:  getEnv("ALLOW_PAST_START", "") == "true",
	}
}
