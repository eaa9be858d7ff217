package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	data := `{"udp_listen_port": 10110, "fragment_ttl_ms": 500, "failed_decode_log": "failed.log", "influx_host": "influx"}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UDPListenPort != 10110 || cfg.FragmentTTL() != 500*time.Millisecond {
		t.Errorf("cfg %+v", cfg)
	}
	if cfg.FailedDecodeLog != filepath.Join(dir, "failed.log") {
		t.Errorf("failed log %q", cfg.FailedDecodeLog)
	}
	// untouched defaults survive
	if cfg.SerialBaud != 38400 || cfg.Port != 8086 || cfg.Host != "influx" {
		t.Errorf("defaults %+v", cfg)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if _, err := loadConfig(path, false); err != nil {
		t.Errorf("optional config: %v", err)
	}
	if _, err := loadConfig(path, true); err == nil {
		t.Error("explicit missing config accepted")
	}
}

func TestFlagOverrides(t *testing.T) {
	cfg := defaultConfig()
	cfg.UDPListenPort = 10110
	cfg.MQTTTopic = "from/file"

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var over flagOverrides
	over.register(fs)
	if err := fs.Parse([]string{"-input", "", "-debug", "-fragment-ttl", "100"}); err != nil {
		t.Fatal(err)
	}
	over.apply(fs, &cfg)
	if cfg.Input != "" || !cfg.Debug || cfg.FragmentTTLMs != 100 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.UDPListenPort != 10110 || cfg.MQTTTopic != "from/file" {
		t.Errorf("unset flags replaced file values: %+v", cfg)
	}
}
