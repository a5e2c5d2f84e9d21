package discord

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/multibot/internal/command"
)

// Embed colors for generic replies.
const (
	colorYellow = 0xFFFF00
	colorRed    = 0xFF0000
)

var errEmptyPayload = errors.New("response has no content")

// render converts a prepared payload into a Discord message. The returned
// release func closes any opened attachment and must be called after sending.
func render(p command.Payload) (*discordgo.MessageSend, func(), error) {
	noop := func() {}

	switch p := p.(type) {
	case command.Text:
		return &discordgo.MessageSend{Content: p.Message}, noop, nil

	case command.Embed:
		return &discordgo.MessageSend{
			Content: p.Message,
			Embeds:  []*discordgo.MessageEmbed{embedFor(p)},
		}, noop, nil

	case command.EmbedWithAttachment:
		file, err := os.Open(p.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open attachment: %w", err)
		}

		embed := embedFor(p.Embed)
		embed.Image = &discordgo.MessageEmbedImage{URL: p.AttachmentURL()}

		return &discordgo.MessageSend{
				Content: p.Message,
				Embeds:  []*discordgo.MessageEmbed{embed},
				Files: []*discordgo.File{
					{
						Name:        p.FileName,
						ContentType: mime.TypeByExtension(filepath.Ext(p.FileName)),
						Reader:      file,
					},
				},
			}, func() {
				_ = file.Close()
			}, nil

	case nil:
		return nil, nil, errEmptyPayload

	default:
		return nil, nil, fmt.Errorf("unsupported payload type %T", p)
	}
}

func embedFor(e command.Embed) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
}

// notice builds a generic single-embed reply.
func notice(title, description string, color int) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       title,
				Description: description,
				Color:       color,
			},
		},
	}
}

func unknownCommandNotice() *discordgo.MessageSend {
	return notice("Unknown Command", "This command is not recognized.", colorYellow)
}

func noResponseNotice() *discordgo.MessageSend {
	return notice("No Response", "This command has nothing to share right now.", colorYellow)
}

func throttledNotice() *discordgo.MessageSend {
	return notice("Slow Down", "You are sending commands too quickly. Try again in a moment.", colorYellow)
}

func errorNotice() *discordgo.MessageSend {
	return notice("Error", "An error occurred while processing your command.", colorRed)
}
