package credentials

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLookup_CreatesFileWithPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DiscordTokens.json")

	_, err := Lookup(path, "TCHJR")
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected token file to be created: %v", err)
	}
	var tokens map[string]string
	if err := json.Unmarshal(data, &tokens); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens["TCHJR"] != Placeholder {
		t.Errorf("expected placeholder, got %q", tokens["TCHJR"])
	}
}

func TestLookup_PlaceholderIsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DiscordTokens.json")
	if err := os.WriteFile(path, []byte(`{"TCHJR": "YOUR_TOKEN_HERE"}`), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := Lookup(path, "TCHJR")
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
}

func TestLookup_BlankIsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DiscordTokens.json")
	if err := os.WriteFile(path, []byte(`{"TCHJR": "   "}`), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := Lookup(path, "TCHJR")
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
}

func TestLookup_ReturnsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DiscordTokens.json")
	if err := os.WriteFile(path, []byte(`{"TCHJR": "abc.def", "Other": "xyz"}`), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := Lookup(path, "TCHJR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "abc.def" {
		t.Errorf("expected token %q, got %q", "abc.def", token)
	}
}

func TestLookup_AddsMissingBotKeepingOthers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DiscordTokens.json")
	if err := os.WriteFile(path, []byte(`{"Other": "xyz"}`), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Lookup(path, "TCHJR"); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}

	token, err := Lookup(path, "Other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "xyz" {
		t.Errorf("expected existing token to be preserved, got %q", token)
	}
}

func TestLookup_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DiscordTokens.json")
	if err := os.WriteFile(path, []byte(`not json`), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := Lookup(path, "TCHJR")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrMissingCredential) {
		t.Error("expected parse error, not ErrMissingCredential")
	}
}
