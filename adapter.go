package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"

	"github.com/snorlax2lazy/alliancebot/alliance"
)

const (
	// DISCORD is a designated sarah.BotType for Discord integration.
	DISCORD sarah.BotType = "discord"
)

// session is an internal interface that abstracts the discordgo.Session methods
// used by the Adapter. This allows mocking the session in tests.
// *discordgo.Session satisfies this interface.
type session interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildMemberNickname(guildID, userID, nickname string, options ...discordgo.RequestOption) error
	GuildMembers(guildID string, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
}

// ChannelID represents a Discord channel as sarah.OutputDestination.
type ChannelID string

var _ sarah.OutputDestination = ChannelID("")

// AdapterOption defines a function signature for Adapter's functional options.
type AdapterOption func(adapter *Adapter)

// WithSession creates an AdapterOption with the given *discordgo.Session.
// Use this to inject a pre-configured session.
// If this option is not given, NewAdapter creates a new session from Config.Token.
func WithSession(session *discordgo.Session) AdapterOption {
	return func(adapter *Adapter) {
		adapter.session = session
	}
}

// WithLogger sets the logger handed to the reconciler and the responder NewAdapter builds.
// Defaults to the logger installed with go-kasumi's logger.SetLogger.
func WithLogger(log alliance.Logger) AdapterOption {
	return func(adapter *Adapter) {
		adapter.log = log
	}
}

// WithReconciler replaces the reconciler built from Config.Alliance.
func WithReconciler(reconciler *alliance.Reconciler) AdapterOption {
	return func(adapter *Adapter) {
		adapter.reconciler = reconciler
	}
}

// WithResponder replaces the responder built from Config.Alliance.
func WithResponder(responder *alliance.Responder) AdapterOption {
	return func(adapter *Adapter) {
		adapter.responder = responder
	}
}

// Adapter is a sarah.Adapter implementation for Discord that also keeps alliance tags up to date.
type Adapter struct {
	config     *Config
	session    session
	log        alliance.Logger
	reconciler *alliance.Reconciler
	responder  *alliance.Responder

	// guildMutex guards guildID, the one guild the bot works on.
	guildMutex sync.Mutex
	guildID    string
}

var _ sarah.Adapter = (*Adapter)(nil)

// NewAdapter creates a new Adapter with the given Config and options.
// The Adapter itself serves as the nickname editor and embed sender of the reconciler and responder it builds.
func NewAdapter(config *Config, options ...AdapterOption) (*Adapter, error) {
	adapter := &Adapter{
		config:  config,
		guildID: config.GuildID,
	}

	for _, opt := range options {
		opt(adapter)
	}

	if adapter.session == nil {
		if config.Token == "" {
			return nil, ErrEmptyToken
		}

		s, err := discordgo.New("Bot " + config.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to create Discord session: %w", err)
		}
		s.Identify.Intents = config.Intents
		s.ShouldRetryOnRateLimit = true
		adapter.session = s
	}

	if adapter.log == nil {
		adapter.log = kasumiLogger{}
	}

	settings := config.Alliance
	if settings == nil {
		settings = alliance.NewConfig()
	}

	if adapter.reconciler == nil {
		tags, err := alliance.NewTagTable(settings.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to build alliance tag table: %w", err)
		}
		adapter.reconciler = alliance.NewReconciler(tags, adapter, adapter.log)
	}

	if adapter.responder == nil {
		responder, err := alliance.NewResponder(settings.Keywords, settings.Reply, adapter, adapter.log)
		if err != nil {
			return nil, fmt.Errorf("failed to build trigger responder: %w", err)
		}
		adapter.responder = responder
	}

	return adapter, nil
}

// BotType returns a designated BotType for Discord integration.
func (a *Adapter) BotType() sarah.BotType {
	return DISCORD
}

// Tags returns the alliance tag table in use.
func (a *Adapter) Tags() *alliance.TagTable {
	return a.reconciler.Tags()
}

// Run establishes a connection with Discord and blocks until the context is canceled.
func (a *Adapter) Run(ctx context.Context, enqueueInput func(sarah.Input) error, notifyErr func(error)) {
	a.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.handleReady(ctx, s, r)
	})
	a.session.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		a.handleGuildCreate(ctx, s, g)
	})
	a.session.AddHandler(func(s *discordgo.Session, u *discordgo.GuildMemberUpdate) {
		a.handleMemberUpdate(ctx, s, u)
	})
	a.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		a.handleMessage(ctx, s, m, enqueueInput)
	})

	err := a.session.Open()
	if err != nil {
		notifyErr(sarah.NewBotNonContinuableError(fmt.Sprintf("failed to open Discord session: %s", err.Error())))
		return
	}

	// Block until the context is canceled.
	<-ctx.Done()

	if closeErr := a.session.Close(); closeErr != nil {
		logger.Errorf("Failed to close Discord session: %+v", closeErr)
	}
}

// claimGuild makes guildID the working guild unless one is already chosen, and returns the working guild.
func (a *Adapter) claimGuild(guildID string) string {
	a.guildMutex.Lock()
	defer a.guildMutex.Unlock()

	if a.guildID == "" {
		a.guildID = guildID
	}
	return a.guildID
}

func (a *Adapter) workingGuild() string {
	a.guildMutex.Lock()
	defer a.guildMutex.Unlock()

	return a.guildID
}

// handleReady picks the working guild when none is configured.
// The roster check waits for that guild's GuildCreate.
func (a *Adapter) handleReady(_ context.Context, _ *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		logger.Infof("Bot is ready. Logged in as %s", r.User.Username)
	}

	if len(r.Guilds) == 0 {
		if a.workingGuild() == "" {
			logger.Warnf("Bot is not a member of any guild.")
		}
		return
	}

	guildID := a.claimGuild(r.Guilds[0].ID)
	logger.Infof("Working on guild %s.", guildID)
}

// handleGuildCreate checks the whole roster of the working guild.
// It runs once per connection, after discordgo has rebuilt its member cache from the event,
// so the members seeded here stay cached and later updates carry BeforeUpdate.
func (a *Adapter) handleGuildCreate(ctx context.Context, s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || g.Unavailable {
		return
	}

	// GuildCreate may be handled before Ready.
	guildID := a.claimGuild(g.ID)
	if g.ID != guildID {
		logger.Debugf("Ignoring guild %s. Working on guild %s.", g.ID, guildID)
		return
	}

	raw, err := a.fetchRoster(ctx, guildID)
	if err != nil {
		logger.Errorf("Failed to fetch roster: %+v", err)
		return
	}

	state := stateOf(s)
	members := make([]alliance.Member, 0, len(raw))
	for _, m := range raw {
		// The list endpoint omits guild_id.
		m.GuildID = guildID
		member, err := MemberFromDiscord(m, a.roleNames(ctx, state, guildID, m.Roles))
		if err != nil {
			logger.Debugf("Skipping member: %+v", err)
			continue
		}
		if state != nil {
			_ = state.MemberAdd(m)
		}
		members = append(members, member)
	}

	a.reconciler.ReconcileRoster(ctx, members)
}

// handleMemberUpdate applies alliance roles added or removed by a member update.
func (a *Adapter) handleMemberUpdate(ctx context.Context, s *discordgo.Session, u *discordgo.GuildMemberUpdate) {
	if u.Member == nil {
		return
	}

	if guildID := a.workingGuild(); guildID == "" || u.GuildID != guildID {
		return
	}

	state := stateOf(s)
	member, err := MemberFromDiscord(u.Member, a.roleNames(ctx, state, u.GuildID, u.Roles))
	if err != nil {
		logger.Debugf("Skipping member update: %+v", err)
		return
	}

	var before []string
	if u.BeforeUpdate != nil {
		before = a.roleNames(ctx, state, u.GuildID, u.BeforeUpdate.Roles)
	} else {
		// Without a cached copy every current role counts as added.
		logger.Debugf("No cached roles for %s. Treating all roles as added.", member.Username)
	}

	a.reconciler.ReconcileRoleChange(ctx, alliance.RoleChangeEvent{
		Member: member,
		Before: before,
	})
}

// handleMessage answers trigger keywords, then routes the message to enqueueInput.
func (a *Adapter) handleMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, enqueueInput func(sarah.Input) error) {
	input, err := MessageToInput(m)
	if err != nil {
		// MessageToInput returns ErrNoAuthor for system messages with no author.
		logger.Debugf("Skipping message: %+v", err)
		return
	}

	// Ignore messages from the bot itself.
	selfID := ""
	if s != nil && s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}
	if selfID != "" && m.Author.ID == selfID {
		return
	}

	msg, err := MessageFromDiscord(m)
	if err != nil {
		logger.Debugf("Skipping message: %+v", err)
		return
	}
	if _, err := a.responder.Respond(ctx, msg, selfID); err != nil {
		logger.Errorf("Failed to answer trigger keyword: %+v", err)
	}

	var enqueueErr error
	trimmed := strings.TrimSpace(input.Message())
	if a.config.HelpCommand != "" && trimmed == a.config.HelpCommand {
		enqueueErr = enqueueInput(sarah.NewHelpInput(input))
	} else if a.config.AbortCommand != "" && trimmed == a.config.AbortCommand {
		enqueueErr = enqueueInput(sarah.NewAbortInput(input))
	} else {
		enqueueErr = enqueueInput(input)
	}
	if enqueueErr != nil {
		logger.Errorf("Failed to enqueue input: %+v", enqueueErr)
	}
}

func stateOf(s *discordgo.Session) *discordgo.State {
	if s == nil {
		return nil
	}
	return s.State
}

// SendMessage sends the given message to Discord.
func (a *Adapter) SendMessage(_ context.Context, output sarah.Output) {
	destination, ok := output.Destination().(ChannelID)
	if !ok {
		logger.Errorf("Destination is not instance of ChannelID. %#v.", output.Destination())
		return
	}

	channelID := string(destination)

	switch content := output.Content().(type) {
	case string:
		_, err := a.session.ChannelMessageSend(channelID, content)
		if err != nil {
			logger.Errorf("Failed to send message to %s: %+v", channelID, err)
		}

	case *discordgo.MessageSend:
		_, err := a.session.ChannelMessageSendComplex(channelID, content)
		if err != nil {
			logger.Errorf("Failed to send complex message to %s: %+v", channelID, err)
		}

	case alliance.Reply:
		_, err := a.session.ChannelMessageSendComplex(channelID, ReplyToMessageSend(content))
		if err != nil {
			logger.Errorf("Failed to send reply embed to %s: %+v", channelID, err)
		}

	case *sarah.CommandHelps:
		lines := make([]string, 0, len(*content))
		for _, h := range *content {
			lines = append(lines, fmt.Sprintf("**%s**: %s", h.Identifier, h.Instruction))
		}
		text := strings.Join(lines, "\n")
		_, err := a.session.ChannelMessageSend(channelID, text)
		if err != nil {
			logger.Errorf("Failed to send help message to %s: %+v", channelID, err)
		}

	default:
		logger.Warnf("Unexpected output %#v", output)
	}
}

// Input is a sarah.Input implementation that represents a received Discord message.
type Input struct {
	Event     *discordgo.MessageCreate
	senderKey string
	text      string
	sentAt    time.Time
	channelID ChannelID
}

var _ sarah.Input = (*Input)(nil)

// SenderKey returns a unique key representing the sender in the channel.
func (i *Input) SenderKey() string {
	return i.senderKey
}

// Message returns the received text.
func (i *Input) Message() string {
	return i.text
}

// SentAt returns when the message was sent.
func (i *Input) SentAt() time.Time {
	return i.sentAt
}

// ReplyTo returns the Discord channel where the message was received.
func (i *Input) ReplyTo() sarah.OutputDestination {
	return i.channelID
}

// MessageToInput converts a *discordgo.MessageCreate event to *Input.
func MessageToInput(m *discordgo.MessageCreate) (*Input, error) {
	if m.Author == nil {
		return nil, ErrNoAuthor
	}

	return &Input{
		Event:     m,
		senderKey: fmt.Sprintf("%s_%s", m.ChannelID, m.Author.ID),
		text:      m.Content,
		sentAt:    m.Timestamp,
		channelID: ChannelID(m.ChannelID),
	}, nil
}

// NewResponse creates a *sarah.CommandResponse with the given content.
// Content may be a string, a *discordgo.MessageSend or an alliance.Reply.
func NewResponse(input sarah.Input, content interface{}) (*sarah.CommandResponse, error) {
	if _, ok := input.(*Input); !ok {
		return nil, fmt.Errorf("%T is not a *discord.Input", input)
	}

	return &sarah.CommandResponse{
		Content: content,
	}, nil
}
