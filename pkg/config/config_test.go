package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "PORT", "SNAPSHOT_PATH", "STATIC_DIR", "LOG_LEVEL", "KAFKA_BROKERS", "REDIS_HOST"} {
		t.Setenv(k, "")
	}
}

func TestLoadWithEnvMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != 5000 {
		t.Fatalf("port default: %d", c.Server.Port)
	}
	if c.Snapshot.Path != "data.json" || c.Snapshot.LivewireCapacity != 10 {
		t.Fatalf("snapshot defaults: %+v", c.Snapshot)
	}
	if c.Snapshot.StaleAfter != time.Hour || c.Scheduler.PollInterval != 30*time.Second || c.Scheduler.Cooldown != 61*time.Second {
		t.Fatalf("timing defaults: %+v %+v", c.Snapshot, c.Scheduler)
	}
	if !c.Gemini.UseSearch {
		t.Fatalf("use_search should default to true")
	}
	if c.Gemini.APIVersion != "v1beta" {
		t.Fatalf("api_version default %q", c.Gemini.APIVersion)
	}
	if c.KafkaEnabled() || c.Redis.Enabled {
		t.Fatalf("kafka/redis should be off by default")
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
environment: production
server:
  port: 8088
gemini:
  use_search: false
  model: gemini-2.5-flash
snapshot:
  timezone: UTC
kafka:
  brokers: ["localhost:9092"]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Environment != "production" || c.Server.Port != 8088 {
		t.Fatalf("unexpected %+v", c)
	}
	if c.Gemini.UseSearch {
		t.Fatalf("explicit false must survive defaults")
	}
	if c.Gemini.Model != "gemini-2.5-flash" {
		t.Fatalf("model %q", c.Gemini.Model)
	}
	if !c.KafkaEnabled() {
		t.Fatalf("expected kafka enabled")
	}
	if c.Scheduler.PollInterval != 30*time.Second {
		t.Fatalf("untouched section lost its default")
	}
}

func TestAPIKeyPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google")
	c, err := LoadWithEnv("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Gemini.APIKey != "google" {
		t.Fatalf("fallback key: %q", c.Gemini.APIKey)
	}

	t.Setenv("GEMINI_API_KEY", "gemini")
	c, err = LoadWithEnv("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Gemini.APIKey != "gemini" {
		t.Fatalf("first variable should win: %q", c.Gemini.APIKey)
	}
}

func TestEnvPortOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")
	c, err := LoadWithEnv("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != 7070 {
		t.Fatalf("port %d", c.Server.Port)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  format: xml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWithEnv(path); err == nil {
		t.Fatalf("expected validation error for log.format")
	}

	if err := os.WriteFile(path, []byte("snapshot:\n  timezone: Mars/Olympus\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWithEnv(path); err == nil {
		t.Fatalf("expected validation error for timezone")
	}
}

func TestMissingAPIKeyIsNotAConfigError(t *testing.T) {
	clearEnv(t)
	c, err := LoadWithEnv("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Gemini.APIKey != "" {
		t.Fatalf("expected empty key")
	}
}
