package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// BridgeLogs routes discordgo's internal log output into logger. discordgo keeps
// its logger in a package variable, so this is called once during process startup.
func BridgeLogs(logger *slog.Logger) {
	logger = logger.With("component", "discordgo")
	discordgo.Logger = func(msgL, caller int, format string, a ...any) {
		logger.Log(context.Background(), bridgeLevel(msgL), fmt.Sprintf(format, a...))
	}
}

func bridgeLevel(msgL int) slog.Level {
	switch msgL {
	case discordgo.LogError:
		return slog.LevelError
	case discordgo.LogWarning:
		return slog.LevelWarn
	case discordgo.LogInformational:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
