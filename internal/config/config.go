package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DataBackend     string // sqlite | postgres | mongodb | redis
	PostgresDSN     string
	SQLitePath      string
	RedisAddr       string
	MongoURI        string
	ClickHouseAddr  string
	ClickHouseDB    string
	KafkaBrokers    []string
	KafkaTopic      string
	UseKafka        bool
	PollInterval    time.Duration
	PollPageLimit   int
	HTTPPort        string
	AnalyticsEnable bool
}

func LoadConfig() *Config {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")

	pollInterval := 30 * time.Second
	if v, err := time.ParseDuration(getEnv("POLL_INTERVAL", "")); err == nil && v > 0 {
		pollInterval = v
	}

	pollPageLimit := 20
	if v, err := strconv.Atoi(getEnv("POLL_PAGE_LIMIT", "")); err == nil && v > 0 {
		pollPageLimit = v
	}

	return &Config{
		DataBackend:     getEnv("DATA_BACKEND", "sqlite"),
		PostgresDSN:     getEnv("POSTGRES_DSN", ""),
		SQLitePath:      getEnv("SQLITE_PATH", "./newslab_headlines.db"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:        getEnv("MONGO_URI", ""),
		ClickHouseAddr:  getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDB:    getEnv("CLICKHOUSE_DB", "newslab"),
		KafkaBrokers:    kafkaBrokers,
		KafkaTopic:      getEnv("KAFKA_TOPIC", ""),
		UseKafka:        getEnv("USE_KAFKA", "") == "true",
		PollInterval:    pollInterval,
		PollPageLimit:   pollPageLimit,
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		AnalyticsEnable: getEnv("CLICKHOUSE_ADDR", "") != "",
	}
}
