package config

import (
	"strings"
	"testing"
)

func TestDSNDriverFlags(t *testing.T) {
	cfg := Config{DBUser: "root", DBHost: "127.0.0.1", DBPort: "3306", DBName: "storefront"}
	dsn := cfg.DSN()

	if !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("dsn missing parseTime: %s", dsn)
	}
	// Without clientFoundRows, updates that match a row but change nothing
	// report zero affected rows and no-op patches get mistaken for missing
	// resources.
	if !strings.Contains(dsn, "clientFoundRows=true") {
		t.Fatalf("dsn missing clientFoundRows: %s", dsn)
	}
}

func TestLoadKafkaBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg := Load()
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "broker-1:9092" || cfg.KafkaBrokers[1] != "broker-2:9092" {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port == "" || cfg.OrderEventTopic == "" {
		t.Fatalf("defaults missing: %+v", cfg)
	}
	if len(cfg.KafkaBrokers) == 0 {
		t.Fatalf("no default broker")
	}
}
