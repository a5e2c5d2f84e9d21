// Package discord serves a bot's commands on Discord: slash command
// interactions and prefixed text messages in, rendered responses out.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"

	"github.com/sglre6355/multibot/internal/bot"
	"github.com/sglre6355/multibot/internal/command"
	"github.com/sglre6355/multibot/internal/commandsync"
	"github.com/sglre6355/multibot/internal/credentials"
)

// DefaultPrepareTimeout keeps preparation inside Discord's three second interaction window.
const DefaultPrepareTimeout = 2500 * time.Millisecond

// Compile-time check that Adapter implements bot.Adapter.
var _ bot.Adapter = (*Adapter)(nil)

// Options configures an Adapter.
type Options struct {
	Bot      string
	Registry *command.Registry
	Token    string
	Logger   *slog.Logger

	// TextPrefixes returns the prefixes marking a message as a text command.
	// It is called per message so prefix changes apply without a restart.
	TextPrefixes func() []string

	PrepareTimeout time.Duration

	// UserRate is the sustained invocations per second per user; zero disables throttling.
	UserRate  float64
	UserBurst int
}

// Adapter connects one bot to Discord.
type Adapter struct {
	bot            string
	registry       *command.Registry
	logger         *slog.Logger
	prefixes       func() []string
	prepareTimeout time.Duration
	throttle       *throttle

	session Session
	conn    *discordgo.Session

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool

	stopOnce sync.Once
	stopErr  error
}

// New validates the token and creates a Discord session for the bot. A blank
// or placeholder token fails with credentials.ErrMissingCredential before any
// session is created.
func New(opts Options) (*Adapter, error) {
	if err := credentials.Validate(opts.Token); err != nil {
		return nil, fmt.Errorf("discord adapter for %s: %w", opts.Bot, err)
	}

	conn, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	conn.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	a := newAdapter(opts, conn)
	a.conn = conn

	conn.AddHandler(a.onInteractionCreate)
	conn.AddHandler(a.onMessageCreate)
	conn.AddHandler(a.onReady)

	return a, nil
}

func newAdapter(opts Options, session Session) *Adapter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	prefixes := opts.TextPrefixes
	if prefixes == nil {
		prefixes = func() []string { return []string{"!"} }
	}

	timeout := opts.PrepareTimeout
	if timeout <= 0 {
		timeout = DefaultPrepareTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Adapter{
		bot:            opts.Bot,
		registry:       opts.Registry,
		logger:         logger.With("bot", opts.Bot, "platform", command.PlatformDiscord.String()),
		prefixes:       prefixes,
		prepareTimeout: timeout,
		throttle:       newThrottle(opts.UserRate, opts.UserBurst),
		session:        session,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Platform returns command.PlatformDiscord.
func (a *Adapter) Platform() command.Platform {
	return command.PlatformDiscord
}

// Start opens the gateway connection. Commands are synced once Discord reports ready.
func (a *Adapter) Start(ctx context.Context) error {
	if a.conn == nil {
		return nil
	}
	if err := a.conn.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	a.logger.Info("opened Discord connection")
	return nil
}

// Stop stops accepting events, cancels in-flight invocations, waits for them
// until ctx expires and closes the connection. Later calls are no-ops.
func (a *Adapter) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.logger.Info("stopping Discord adapter")

		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()

		a.cancel()

		drained := make(chan struct{})
		go func() {
			a.wg.Wait()
			close(drained)
		}()

		select {
		case <-drained:
		case <-ctx.Done():
			a.logger.Warn("timed out waiting for in-flight invocations", "error", ctx.Err())
		}

		if a.conn != nil {
			a.stopErr = a.conn.Close()
		}
		a.logger.Info("stopped Discord adapter")
	})
	return a.stopErr
}

// track registers one unit of in-flight work. It reports false once the
// adapter is stopping.
func (a *Adapter) track() (func(), bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return nil, false
	}
	a.wg.Add(1)
	return a.wg.Done, true
}

func (a *Adapter) onReady(s *discordgo.Session, r *discordgo.Ready) {
	appID := r.User.ID
	if r.Application != nil && r.Application.ID != "" {
		appID = r.Application.ID
	}

	a.logger.Info("connected to Discord",
		"user_id", r.User.ID,
		"username", r.User.Username,
	)

	done, ok := a.track()
	if !ok {
		return
	}
	go func() {
		defer done()
		a.syncCommands(a.ctx, appID)
	}()
}

// syncCommands registers the bot's slash commands when the remote set differs.
// Failures are logged; previously registered commands stay in place.
func (a *Adapter) syncCommands(ctx context.Context, appID string) bool {
	if _, err := snowflake.Parse(appID); err != nil {
		a.logger.Error("invalid application id, skipping command sync", "app_id", appID, "error", err)
		return false
	}

	syncer := commandsync.NewSyncer(&remote{session: a.session, appID: appID}, a.logger)
	synced, err := syncer.Sync(ctx, definitions(a.registry))
	if err != nil {
		a.logger.Error("failed to sync commands", "error", err)
		return false
	}
	return synced
}

func (a *Adapter) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	a.handleInteraction(i.Interaction)
}

func (a *Adapter) handleInteraction(i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	inv := command.Invocation{
		Platform: command.PlatformDiscord,
		Type:     command.SlashCommand,
		Name:     i.ApplicationCommandData().Name,
	}
	a.dispatch(inv, NewInteractionReplier(a.session, i), interactionUserID(i), i.ID)
}

func (a *Adapter) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	a.handleMessage(m.Message)
}

func (a *Adapter) handleMessage(m *discordgo.Message) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	name, args, ok := command.ParseText(a.prefixes(), m.Content)
	if !ok {
		return
	}

	inv := command.Invocation{
		Platform: command.PlatformDiscord,
		Type:     command.TextCommand,
		Name:     name,
		Args:     args,
	}
	a.dispatch(inv, NewMessageReplier(a.session, m), m.Author.ID, m.ID)
}

// dispatch resolves, prepares and renders one invocation. Nothing that goes
// wrong here escapes: failures become a generic reply and a log line.
func (a *Adapter) dispatch(inv command.Invocation, r Replier, userID, eventID string) {
	done, ok := a.track()
	if !ok {
		return
	}
	defer done()

	inv.ID = uuid.NewString()
	logger := a.logger.With(
		"invocation", inv.ID,
		"command", inv.Name,
		"type", inv.Type.String(),
		"user_id", userID,
	)
	if id, err := snowflake.Parse(eventID); err == nil {
		logger.Debug("received invocation", "age", time.Since(id.Time()).String())
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("panic while handling invocation",
				"panic", p,
				"stack", string(debug.Stack()),
			)
			a.reply(logger, r, errorNotice(), true)
		}
	}()

	if !a.throttle.Allow(userID) {
		logger.Debug("throttled invocation")
		a.reply(logger, r, throttledNotice(), true)
		return
	}

	cmd, ok := a.registry.Resolve(inv.Platform, inv.Type, inv.Name)
	if !ok {
		logger.Debug("unknown command")
		a.reply(logger, r, unknownCommandNotice(), true)
		return
	}

	ctx, cancel := context.WithTimeout(a.ctx, a.prepareTimeout)
	defer cancel()

	resp := cmd.NewResponse(inv)
	if !resp.PrepareResponse(ctx) {
		logger.Debug("command produced no response", "active", cmd.Active())
		a.reply(logger, r, noResponseNotice(), true)
		return
	}

	msg, release, err := render(resp.Payload())
	if err != nil {
		logger.Error("failed to render response", "error", err)
		a.reply(logger, r, errorNotice(), true)
		return
	}
	defer release()

	if err := r.Reply(msg, false); err != nil {
		logger.Error("failed to send response", "error", err)
		a.reply(logger, r, errorNotice(), true)
		return
	}

	logger.Info("handled invocation")
}

// reply sends a generic notice; a failure is only logged.
func (a *Adapter) reply(logger *slog.Logger, r Replier, msg *discordgo.MessageSend, ephemeral bool) {
	if err := r.Reply(msg, ephemeral); err != nil {
		logger.Error("failed to send reply", "error", err)
	}
}

func interactionUserID(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}
