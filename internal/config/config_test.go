package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `# test configuration
database:
  host: localhost
  port: 5432
  user: restaurant
  password: secret
  database: orders

rabbitmq:
  host: localhost
  port: 5672
  user: guest
  password: guest

fulfillment:
  delay_ms: 5000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.RabbitMQ.Port != 5672 {
		t.Errorf("unexpected rabbitmq config: %+v", cfg.RabbitMQ)
	}
	if cfg.Fulfillment.DelayMs != 5000 {
		t.Errorf("unexpected fulfillment config: %+v", cfg.Fulfillment)
	}
	if got := cfg.Fulfillment.Delay(); got != 5*time.Second {
		t.Errorf("Delay() = %v, want 5s", got)
	}
}

func TestLoad_URLs(t *testing.T) {
	path := writeConfig(t, `database:
  host: db
  port: 5432
  user: app
  password: pw
  database: orders

rabbitmq:
  host: mq
  port: 5672
  user: app
  password: pw
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got, want := cfg.DatabaseURL(), "postgres://app:pw@db:5432/orders?sslmode=disable"; got != want {
		t.Errorf("DatabaseURL() = %q, want %q", got, want)
	}
	if got, want := cfg.RabbitMQURL(), "amqp://app:pw@mq:5672/"; got != want {
		t.Errorf("RabbitMQURL() = %q, want %q", got, want)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown section", "unknown:\n  key: value\n"},
		{"bad database port", "database:\n  port: abc\n"},
		{"negative delay", "fulfillment:\n  delay_ms: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
