package bot

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ConfigDir != "Config" {
		t.Errorf("expected config dir %q, got %q", "Config", cfg.ConfigDir)
	}
	if cfg.TokenFile != "DiscordTokens.json" {
		t.Errorf("expected token file %q, got %q", "DiscordTokens.json", cfg.TokenFile)
	}
	if cfg.ReloadDebounce != 500*time.Millisecond {
		t.Errorf("expected debounce 500ms, got %v", cfg.ReloadDebounce)
	}
	if cfg.PrepareTimeout != 2500*time.Millisecond {
		t.Errorf("expected prepare timeout 2.5s, got %v", cfg.PrepareTimeout)
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MULTIBOT_CONFIG_DIR", "/etc/multibot")
	t.Setenv("MULTIBOT_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("MULTIBOT_USER_RATE", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ConfigDir != "/etc/multibot" {
		t.Errorf("expected config dir %q, got %q", "/etc/multibot", cfg.ConfigDir)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("expected shutdown timeout 3s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.UserRate != 0 {
		t.Errorf("expected user rate 0, got %v", cfg.UserRate)
	}
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MULTIBOT_RELOAD_DEBOUNCE", "soon")

	_, err := LoadConfig()
	if err == nil {
		t.Error("expected error for invalid duration, got nil")
	}
}
