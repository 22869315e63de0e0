package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.Server.Port != 8080 {
		t.Fatalf("port: got %d", c.Server.Port)
	}
	if c.Engine.LookbackMonths != 36 || c.Engine.HorizonMonths != 12 || c.Engine.TopN != 10 {
		t.Fatalf("engine defaults: %+v", c.Engine)
	}
	if c.Engine.IncompatibilitySeverity != 0.05 {
		t.Fatalf("severity: got %v", c.Engine.IncompatibilitySeverity)
	}
	if c.Cache.TTL != 15*time.Minute {
		t.Fatalf("cache ttl: got %v", c.Cache.TTL)
	}
	if c.Kafka.RequiredAcks != -1 || c.Kafka.Producer.MaxAttempts != 3 {
		t.Fatalf("kafka defaults: %+v", c.Kafka)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestParseKeepsDefaultsForMissingFields(t *testing.T) {
	c, err := Parse([]byte("environment: test\nengine:\n  top_n: 5\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Engine.TopN != 5 {
		t.Fatalf("top_n: got %d", c.Engine.TopN)
	}
	if c.Engine.HorizonMonths != 12 {
		t.Fatalf("horizon default lost: %d", c.Engine.HorizonMonths)
	}
	if !c.RateLimit.Enabled {
		t.Fatalf("rate limit should default on")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"severity":      "engine:\n  incompatibility_severity: 2\n",
		"source type":   "lookup:\n  sources:\n    - name: a\n      type: ftp\n",
		"static file":   "lookup:\n  sources:\n    - name: a\n      type: static\n",
		"duplicate":     "lookup:\n  sources:\n    - {name: a, type: static, file: x.json}\n    - {name: a, type: static, file: y.json}\n",
		"kafka brokers": "kafka:\n  enabled: true\n",
		"log level":     "log:\n  level: loud\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	env := map[string]string{
		"LAUNCHCAST_PORT":            "9090",
		"LAUNCHCAST_KAFKA_BROKERS":   "a:9092, b:9092",
		"LAUNCHCAST_KAFKA_ENABLED":   "true",
		"LAUNCHCAST_FUTURE_PRODUCTS": "Galaxy Fit5,Galaxy Watch8",
		"LAUNCHCAST_SEED":            "42",
		"LAUNCHCAST_LOG_LEVEL":       "DEBUG",
	}
	c.ApplyEnv(func(k string) string { return env[k] })

	if c.Server.Port != 9090 {
		t.Fatalf("port: got %d", c.Server.Port)
	}
	if strings.Join(c.Kafka.Brokers, "|") != "a:9092|b:9092" || !c.Kafka.Enabled {
		t.Fatalf("kafka: %+v", c.Kafka)
	}
	if len(c.Engine.FutureProducts) != 2 || c.Engine.Seed != 42 {
		t.Fatalf("engine: %+v", c.Engine)
	}
	if c.Log.Level != "debug" {
		t.Fatalf("log level: got %s", c.Log.Level)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "environment: staging\nserver:\n  port: 7000\ncache:\n  enabled: true\n  backend: redis\n  redis:\n    addr: cache:6379\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Environment != "staging" || c.Server.Port != 7000 || c.Cache.Redis.Addr != "cache:6379" {
		t.Fatalf("unexpected config: %+v", c)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
