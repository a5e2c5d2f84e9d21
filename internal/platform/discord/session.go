package discord

import "github.com/bwmarrin/discordgo"

// Session is the subset of *discordgo.Session the adapter calls. It lets
// handlers run against a fake in tests.
type Session interface {
	InteractionRespond(
		interaction *discordgo.Interaction,
		resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption,
	) error
	ChannelMessageSendComplex(
		channelID string,
		data *discordgo.MessageSend,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	ApplicationCommands(
		appID, guildID string,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandBulkOverwrite(
		appID string,
		guildID string,
		commands []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)
}

// Compile-time check that the real session satisfies Session.
var _ Session = (*discordgo.Session)(nil)
