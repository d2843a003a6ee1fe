package spark

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	log "github.com/inconshreveable/log15"
	"github.com/sylvrs/spark/command"
	"github.com/sylvrs/spark/utils"
)

// Client is the overarching structure that turns inbound Discord messages
// into command invocations. It owns the command table, the cooldown registry,
// per-command usage counters and, when enabled, the linked-response cache.
// Everything but the command table and the listener is fixed at construction
type Client struct {
	logger    log.Logger
	config    Config
	session   *discordgo.Session
	commands  *command.Table
	cooldowns *command.CooldownRegistry
	helper    func(*command.Event)
	linked    *linkedCache

	listenerMu sync.RWMutex
	listener   command.Listener

	usesMu sync.Mutex
	uses   map[string]int

	// sendFunc performs the actual channel send; swapped out in tests
	sendFunc func(channelID, content string) (*discordgo.Message, error)
}

func NewClient(logger log.Logger, config Config) (*Client, error) {
	session, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAllWithoutPrivileged | discordgo.IntentMessageContent)

	if config.Prefix == "" {
		config.Prefix = MentionPrefix
	}
	if config.HelpWord == "" {
		config.HelpWord = "help"
	}
	if config.OwnerID == "" {
		logger.Warn("No owner ID configured; owner-only commands will reject everyone")
	}

	client := &Client{
		logger:    logger,
		config:    config,
		session:   session,
		commands:  command.NewTable(),
		cooldowns: command.NewCooldownRegistry(),
		uses:      make(map[string]int),
	}
	client.helper = config.Helper
	if client.helper == nil {
		client.helper = client.defaultHelp
	}
	if config.LinkedCacheSize > 0 {
		client.linked = newLinkedCache(config.LinkedCacheSize)
	}
	client.sendFunc = func(channelID, content string) (*discordgo.Message, error) {
		return session.ChannelMessageSend(channelID, content)
	}
	client.setupHandlers()
	return client, nil
}

func (c *Client) setupHandlers() {
	c.session.AddHandler(func(s *discordgo.Session, event *discordgo.MessageCreate) {
		c.handleMessageCreate(s, event)
	})
	c.session.AddHandler(func(s *discordgo.Session, event *discordgo.MessageDelete) {
		c.handleMessageDelete(s, event)
	})
}

// Start opens the gateway connection
func (c *Client) Start() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	c.logger.Info(fmt.Sprintf("Logged in as %s#%s", c.session.State.User.Username, c.session.State.User.Discriminator))
	c.logger.Info(fmt.Sprintf("Serving %d %s", c.commands.Len(), utils.Pluralize(c.commands.Len(), "command", "commands")))
	return nil
}

// Stop closes the gateway connection
func (c *Client) Stop() {
	c.session.Close()
}

// AddCommand registers a command at the end of the table
func (c *Client) AddCommand(cmd *command.Command) error {
	return c.commands.Add(cmd)
}

// AddCommandAt registers a command at the given table position
func (c *Client) AddCommandAt(cmd *command.Command, position int) error {
	return c.commands.AddAt(cmd, position)
}

// RemoveCommand unregisters the command known by the given name or alias
func (c *Client) RemoveCommand(nameOrAlias string) error {
	return c.commands.Remove(nameOrAlias)
}

// Commands returns the registered commands in table order
func (c *Client) Commands() []*command.Command {
	return c.commands.Commands()
}

// SetListener installs the dispatch listener; pass nil to remove it
func (c *Client) SetListener(listener command.Listener) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	c.listener = listener
}

// Listener returns the installed dispatch listener, or nil
func (c *Client) Listener() command.Listener {
	c.listenerMu.RLock()
	defer c.listenerMu.RUnlock()
	return c.listener
}

// Prefix returns the primary command prefix
func (c *Client) Prefix() string {
	return c.config.Prefix
}

// AltPrefix returns the secondary command prefix, or an empty string
func (c *Client) AltPrefix() string {
	return c.config.AltPrefix
}

// OwnerID returns the configured owner's user ID
func (c *Client) OwnerID() string {
	return c.config.OwnerID
}

// CoOwnerIDs returns the configured co-owners' user IDs
func (c *Client) CoOwnerIDs() []string {
	return c.config.CoOwnerIDs
}

func (c *Client) SuccessEmoji() string {
	return c.config.Success
}

func (c *Client) WarningEmoji() string {
	return c.config.Warning
}

func (c *Client) ErrorEmoji() string {
	return c.config.Error
}

// Uses returns how many times the named command's body has run
func (c *Client) Uses(name string) int {
	c.usesMu.Lock()
	defer c.usesMu.Unlock()
	return c.uses[name]
}

// CountUse records one run of the named command's body
func (c *Client) CountUse(name string) {
	c.usesMu.Lock()
	defer c.usesMu.Unlock()
	c.uses[name]++
}

// RemainingCooldown returns the seconds left on a cooldown key, or 0
func (c *Client) RemainingCooldown(key string) int {
	return c.cooldowns.Remaining(key)
}

// ApplyCooldown starts a cooldown under key
func (c *Client) ApplyCooldown(key string, seconds int) {
	c.cooldowns.Apply(key, seconds)
}

// Cooldowns returns the client's cooldown registry, e.g. to run a periodic
// cleaner against it
func (c *Client) Cooldowns() *command.CooldownRegistry {
	return c.cooldowns
}

// Send delivers content to a channel, splitting it into several messages
// when it exceeds the platform limit
func (c *Client) Send(channelID, content string) ([]*discordgo.Message, error) {
	chunks := utils.SplitMessage(content, utils.SplitOptions{MaxMessages: c.config.MaxMessages})
	sent := make([]*discordgo.Message, 0, len(chunks))
	for _, chunk := range chunks {
		message, err := c.sendFunc(channelID, chunk)
		if err != nil {
			c.logger.Debug("Failed to send message", "channel", channelID, "error", err)
			return sent, err
		}
		sent = append(sent, message)
	}
	return sent, nil
}

// SendEmbed delivers a single embed to a channel
func (c *Client) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return c.session.ChannelMessageSendEmbed(channelID, embed)
}

// LinkResponses associates sent messages with the message that triggered
// them; a no-op unless a linked cache is configured
func (c *Client) LinkResponses(triggerID string, responses ...*discordgo.Message) {
	if c.linked == nil {
		return
	}
	refs := make([]messageRef, 0, len(responses))
	for _, response := range responses {
		if response == nil {
			continue
		}
		refs = append(refs, messageRef{ChannelID: response.ChannelID, MessageID: response.ID})
	}
	c.linked.add(triggerID, refs...)
}

// Logger returns the client's logger
func (c *Client) Logger() log.Logger {
	return c.logger
}

// Session returns the wrapped Discord session
func (c *Client) Session() *discordgo.Session {
	return c.session
}

// BotUser returns the bot's own user, or nil before login
func (c *Client) BotUser() *discordgo.User {
	return c.session.State.User
}
