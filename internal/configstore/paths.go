package configstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultRoot is the config root used when none is configured.
const DefaultRoot = "Config"

// Path returns the config file path for a bot's command: <root>/<bot>/<command>.json.
func Path(root, bot, command string) string {
	return filepath.Join(BotDir(root, bot), command+".json")
}

// BotDir returns the directory holding a bot's command configs.
func BotDir(root, bot string) string {
	if root == "" {
		root = DefaultRoot
	}
	return filepath.Join(root, bot)
}

// EnsureDir creates the config root and the bot's directory if they do not exist.
func EnsureDir(root, bot string) error {
	if err := os.MkdirAll(BotDir(root, bot), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}
