// Package credentials reads platform tokens from a JSON file mapping bot names to tokens.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Placeholder is written for bots that have no token configured yet.
const Placeholder = "YOUR_TOKEN_HERE"

// ErrMissingCredential is returned when a bot's token is absent, blank or still the placeholder.
var ErrMissingCredential = errors.New("missing bot token")

// Lookup returns the token for bot from the file at path. A missing file, or a
// file without an entry for bot, is created or extended with the placeholder so
// the operator knows where to put the token.
func Lookup(path, bot string) (string, error) {
	tokens, err := read(path)
	if err != nil {
		return "", err
	}

	token, ok := tokens[bot]
	if !ok {
		tokens[bot] = Placeholder
		if err := write(path, tokens); err != nil {
			return "", err
		}
	}

	if err := Validate(token); err != nil {
		return "", fmt.Errorf("%w for %s in %s", err, bot, path)
	}
	return token, nil
}

// Validate rejects blank and placeholder tokens.
func Validate(token string) error {
	token = strings.TrimSpace(token)
	if token == "" || token == Placeholder {
		return ErrMissingCredential
	}
	return nil
}

func read(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	tokens := make(map[string]string)
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}
	return tokens, nil
}

func write(path string, tokens map[string]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token file: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
