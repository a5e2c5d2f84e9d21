package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/multibot/internal/command"
	"github.com/sglre6355/multibot/internal/commandsync"
)

// Compile-time check that remote implements commandsync.Remote.
var _ commandsync.Remote = (*remote)(nil)

// remote registers global application commands for one application.
type remote struct {
	session Session
	appID   string
}

func (r *remote) List(ctx context.Context) ([]commandsync.Definition, error) {
	registered, err := r.session.ApplicationCommands(r.appID, "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	defs := make([]commandsync.Definition, 0, len(registered))
	for _, cmd := range registered {
		defs = append(defs, commandsync.Definition{
			Name:        cmd.Name,
			Description: cmd.Description,
		})
	}
	return defs, nil
}

func (r *remote) Overwrite(ctx context.Context, defs []commandsync.Definition) error {
	commands := make([]*discordgo.ApplicationCommand, 0, len(defs))
	for _, def := range defs {
		commands = append(commands, &discordgo.ApplicationCommand{
			Name:        def.Name,
			Description: def.Description,
			Type:        discordgo.ChatApplicationCommand,
		})
	}

	_, err := r.session.ApplicationCommandBulkOverwrite(r.appID, "", commands, discordgo.WithContext(ctx))
	return err
}

// definitions returns the slash commands to register. Discord requires
// lowercase names.
func definitions(registry *command.Registry) []commandsync.Definition {
	cmds := registry.Filter(command.PlatformDiscord, command.SlashCommand)
	defs := make([]commandsync.Definition, 0, len(cmds))
	for _, cmd := range cmds {
		defs = append(defs, commandsync.Definition{
			Name:        strings.ToLower(cmd.Name()),
			Description: cmd.Description(),
		})
	}
	return defs
}
