package config

import (
	"os"
	"testing"
)

func TestInitialize(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	first := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:1111\"\n")
	second := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:2222\"\n")

	if err := Initialize(first); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := Initialize(second); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}

	if got := MustGetConfig().Server.ListenAddress; got != "127.0.0.1:1111" {
		t.Errorf("ListenAddress = %q, want value from the first Initialize", got)
	}
}

func TestReloadConfig(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	path := writeConfig(t, "telemetry:\n  logging:\n    level: info\n")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("telemetry:\n  logging:\n    level: debug\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	cfg, err := ReloadConfig(path)
	if err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if cfg.Telemetry.Logging.Level != "debug" || GetConfig() != cfg {
		t.Errorf("reloaded config not installed: level = %q", GetConfig().Telemetry.Logging.Level)
	}

	// A broken file leaves the current configuration in place
	if err := os.WriteFile(path, []byte("telemetry: [\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	if _, err := ReloadConfig(path); err == nil {
		t.Fatal("ReloadConfig() succeeded on invalid file")
	}
	if GetConfig() != cfg {
		t.Error("failed reload replaced the configuration")
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	defer func() {
		if recover() == nil {
			t.Error("MustGetConfig() did not panic before Initialize")
		}
	}()
	MustGetConfig()
}

func TestSetConfig(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	cfg := Default()
	SetConfig(cfg)
	if GetConfig() != cfg {
		t.Error("GetConfig() did not return the config passed to SetConfig")
	}
}
