package discord

import "github.com/bwmarrin/discordgo"

// Replier sends the reply for one invocation.
// This interface enables testing handlers without a live Discord connection.
type Replier interface {
	// Reply sends msg. Ephemeral replies are only visible to the invoking user
	// where the invocation kind supports it.
	Reply(msg *discordgo.MessageSend, ephemeral bool) error
}

// InteractionReplier answers a slash command interaction.
type InteractionReplier struct {
	session     Session
	interaction *discordgo.Interaction
}

// NewInteractionReplier creates a new InteractionReplier.
func NewInteractionReplier(s Session, i *discordgo.Interaction) *InteractionReplier {
	return &InteractionReplier{
		session:     s,
		interaction: i,
	}
}

// Reply responds to the interaction via Discord API.
func (r *InteractionReplier) Reply(msg *discordgo.MessageSend, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Content: msg.Content,
		Embeds:  msg.Embeds,
		Files:   msg.Files,
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// MessageReplier answers a text command by replying to the invoking message.
// Text replies cannot be ephemeral.
type MessageReplier struct {
	session   Session
	channelID string
	reference *discordgo.MessageReference
}

// NewMessageReplier creates a new MessageReplier.
func NewMessageReplier(s Session, m *discordgo.Message) *MessageReplier {
	return &MessageReplier{
		session:   s,
		channelID: m.ChannelID,
		reference: m.Reference(),
	}
}

// Reply sends msg to the channel as a reply to the invoking message.
func (r *MessageReplier) Reply(msg *discordgo.MessageSend, ephemeral bool) error {
	msg.Reference = r.reference
	_, err := r.session.ChannelMessageSendComplex(r.channelID, msg)
	return err
}

// MockReplier is a test double for Replier.
type MockReplier struct {
	Replies   []*discordgo.MessageSend
	Ephemeral []bool
	Err       error
}

// Reply records the reply for testing.
func (m *MockReplier) Reply(msg *discordgo.MessageSend, ephemeral bool) error {
	m.Replies = append(m.Replies, msg)
	m.Ephemeral = append(m.Ephemeral, ephemeral)
	return m.Err
}

// LastReply returns the most recent reply, or nil.
func (m *MockReplier) LastReply() *discordgo.MessageSend {
	if len(m.Replies) == 0 {
		return nil
	}
	return m.Replies[len(m.Replies)-1]
}
