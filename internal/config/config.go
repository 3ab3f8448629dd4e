package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port            string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPass          string
	DBName          string
	RedisAddr       string
	JWTSecret       string
	CheckoutAPIURL  string
	CheckoutSecret  string
	SiteDomain      string
	KafkaBrokers    []string
	OrderEventTopic string
}

func Load() Config {
	return Config{
		Port:            getEnv("PORT", "3000"),
		DBHost:          getEnv("DB_HOST", "127.0.0.1"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBUser:          getEnv("DB_USER", "root"),
		DBPass:          getEnv("DB_PASS", ""),
		DBName:          getEnv("DB_NAME", "storefront"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		CheckoutAPIURL:  getEnv("CHECKOUT_API_URL", "https://api.stripe.com"),
		CheckoutSecret:  getEnv("CHECKOUT_SECRET_KEY", ""),
		SiteDomain:      getEnv("SITE_DOMAIN", "http://localhost:5173"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		OrderEventTopic: getEnv("ORDER_EVENT_TOPIC", "order-topic"),
	}
}

// DSN builds the MySQL connection string. clientFoundRows makes UPDATE report
// matched rows instead of changed rows, so a no-op update is distinguishable
// from a missing row.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&clientFoundRows=true", c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
