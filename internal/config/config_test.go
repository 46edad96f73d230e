package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/cardex/internal/domain/contact"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port 0")
	}
	cfg.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port 70000")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing addrs")
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "memcached"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	expected := `database.driver must be "redis" or "valkey", got "memcached"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_KeyPrefix(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.KeyPrefix = "cardex"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for prefix without ':'")
	}
}

func TestValidate_LockTTLMustExceedWait(t *testing.T) {
	cfg := validConfig()
	cfg.Locking.TTLMs = 1000
	cfg.Locking.WaitTimeoutMs = 1000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when ttl <= wait timeout")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("http defaults = %+v", cfg.HTTP)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("expected default driver redis, got %q", cfg.Database.Driver)
	}
	if cfg.Storage.KeyPrefix != "cardex:" {
		t.Errorf("expected default prefix cardex:, got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Extraction.ProximityMaxLen != 40 {
		t.Errorf("expected proximity 40, got %d", cfg.Extraction.ProximityMaxLen)
	}
	if cfg.Locking.TTL() != 5*time.Second || cfg.Locking.WaitTimeout() != 2*time.Second ||
		cfg.Locking.RetryInterval() != 25*time.Millisecond {
		t.Errorf("locking defaults = %+v", cfg.Locking)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{Driver: "valkey"},
		Storage:  StorageConfig{KeyPrefix: "test:"},
		Locking:  LockingConfig{TTLMs: 9000},
	}
	cfg.ApplyDefaults()

	if cfg.Database.Driver != "valkey" || cfg.Storage.KeyPrefix != "test:" || cfg.Locking.TTLMs != 9000 {
		t.Errorf("explicit values overridden: %+v", cfg)
	}
}

func TestLoadFile_ExpandsEnv(t *testing.T) {
	t.Setenv("CARDEX_TEST_ADDR", "redis.internal:6380")

	path := filepath.Join(t.TempDir(), "test.yaml")
	data := `
http:
  port: ${CARDEX_TEST_PORT:-9090}
database:
  addrs:
    - ${CARDEX_TEST_ADDR}
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want default 9090", cfg.HTTP.Port)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "redis.internal:6380" {
		t.Errorf("addrs = %v", cfg.Database.Addrs)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected invalid config error, got %v", err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.KeyPrefix != "cardex:" {
		t.Errorf("prefix = %q", cfg.Storage.KeyPrefix)
	}
}

func TestLoadVocabulary_Default(t *testing.T) {
	vocab, err := LoadVocabulary("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vocab["ceo"] != contact.FieldPosition {
		t.Errorf("ceo = %q", vocab["ceo"])
	}
}

func TestLoadVocabulary_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	data := `
position: [captain, admiral]
company: [fleet, admiral]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vocab) != 3 {
		t.Errorf("expected 3 keywords, got %v", vocab)
	}
	if vocab["admiral"] != contact.FieldPosition {
		t.Errorf("admiral = %q, position must win", vocab["admiral"])
	}
	if _, ok := vocab["ceo"]; ok {
		t.Error("defaults must not be included without extend_defaults")
	}
}

func TestLoadVocabulary_NormalizesKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	data := `
extend_defaults: true
position: ["  Captain "]
company: ["Partner", "CAPTAIN", " Fleet"]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vocab["partner"] != contact.FieldPosition {
		t.Errorf("partner = %q, the default position keyword must win", vocab["partner"])
	}
	if vocab["captain"] != contact.FieldPosition {
		t.Errorf("captain = %q, position must win", vocab["captain"])
	}
	if vocab["fleet"] != contact.FieldCompany {
		t.Errorf("fleet = %q", vocab["fleet"])
	}
	for _, k := range []string{"Partner", "CAPTAIN", "  Captain ", " Fleet"} {
		if _, ok := vocab[k]; ok {
			t.Errorf("raw keyword %q kept as a key", k)
		}
	}
}

func TestLoadVocabulary_ShippedFile(t *testing.T) {
	vocab, err := LoadVocabulary(filepath.Join("..", "..", "config", "vocabulary.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vocab["founder"] != contact.FieldPosition || vocab["ceo"] != contact.FieldPosition {
		t.Errorf("shipped vocabulary must extend defaults: founder=%q ceo=%q", vocab["founder"], vocab["ceo"])
	}
}

func TestLoadVocabulary_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	blank := filepath.Join(dir, "blank.yaml")
	if err := os.WriteFile(empty, []byte("position: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(blank, []byte("company: [\"  \"]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{empty, blank, filepath.Join(dir, "missing.yaml")} {
		if _, err := LoadVocabulary(path); err == nil {
			t.Errorf("%s: expected error", filepath.Base(path))
		}
	}
}
