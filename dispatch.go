package spark

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sylvrs/spark/command"
	"github.com/sylvrs/spark/utils"
)

// handleMessageCreate turns one inbound message into at most one command
// invocation, a help invocation, or a call to the non-command hook
func (c *Client) handleMessageCreate(s *discordgo.Session, event *discordgo.MessageCreate) {
	if event.Author == nil || event.Author.Bot {
		return
	}

	prefixLength, ok := c.matchPrefix(s, event)
	if !ok {
		c.notifyNonCommand(s, event)
		return
	}

	name, args := utils.FirstToken(strings.TrimSpace(event.Content[prefixLength:]))

	// help is answered before the send-permission check so that a user can
	// always find out why nothing else works
	if !c.config.DisableHelp && strings.EqualFold(name, c.config.HelpWord) {
		ev := command.NewEvent(c, s, event, args, nil)
		if listener := c.Listener(); listener != nil {
			listener.OnCommand(ev, nil)
		}
		c.helper(ev)
		if listener := c.Listener(); listener != nil {
			listener.OnCompletedCommand(ev, nil)
		}
		return
	}

	if event.GuildID == "" || c.canSendIn(s, event.ChannelID) {
		if cmd, ok := c.commands.Lookup(name); ok {
			ev := command.NewEvent(c, s, event, args, cmd)
			if listener := c.Listener(); listener != nil {
				listener.OnCommand(ev, cmd)
			}
			c.runCommand(ev, cmd)
			return
		}
	}

	c.notifyNonCommand(s, event)
}

// runCommand invokes the check chain, routing any panic escaping the body to
// the exception listener. Without one, the panic continues up to discordgo's
// event loop
func (c *Client) runCommand(ev *command.Event, cmd *command.Command) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		if listener, ok := c.Listener().(command.ExceptionListener); ok {
			c.logger.Error("Command panicked", "command", cmd.Name, "error", recovered)
			listener.OnCommandException(ev, cmd, recovered)
			return
		}
		panic(recovered)
	}()
	cmd.Run(ev)
}

// matchPrefix finds the prefix the message was addressed with, returning its
// length in the raw content. Match order: bot mention (when configured),
// primary prefix, alternate prefix, then any guild-specific prefixes
func (c *Client) matchPrefix(s *discordgo.Session, event *discordgo.MessageCreate) (int, bool) {
	raw := event.Content
	if c.config.Prefix == MentionPrefix || c.config.AltPrefix == MentionPrefix {
		if user := s.State.User; user != nil {
			for _, mention := range []string{"<@" + user.ID + ">", "<@!" + user.ID + ">"} {
				if strings.HasPrefix(raw, mention) {
					return len(mention), true
				}
			}
		}
	}
	if prefix := c.config.Prefix; prefix != MentionPrefix && utils.HasPrefixFold(raw, prefix) {
		return len(prefix), true
	}
	if prefix := c.config.AltPrefix; prefix != "" && prefix != MentionPrefix && utils.HasPrefixFold(raw, prefix) {
		return len(prefix), true
	}
	if c.config.Settings != nil && event.GuildID != "" {
		for _, prefix := range c.config.Settings.Prefixes(event.GuildID) {
			if prefix != "" && utils.HasPrefixFold(raw, prefix) {
				return len(prefix), true
			}
		}
	}
	return 0, false
}

// canSendIn reports whether the bot may speak in the channel. State gaps
// count as permission granted so a cold cache cannot mute the bot
func (c *Client) canSendIn(s *discordgo.Session, channelID string) bool {
	if s.State.User == nil {
		return true
	}
	permissions, err := s.State.UserChannelPermissions(s.State.User.ID, channelID)
	if err != nil {
		return true
	}
	return permissions&discordgo.PermissionSendMessages != 0
}

func (c *Client) notifyNonCommand(s *discordgo.Session, event *discordgo.MessageCreate) {
	if listener := c.Listener(); listener != nil {
		listener.OnNonCommandMessage(command.NewEvent(c, s, event, "", nil))
	}
}

// handleMessageDelete cascade-deletes any replies linked to the deleted
// message. Deletion is best-effort
func (c *Client) handleMessageDelete(s *discordgo.Session, event *discordgo.MessageDelete) {
	if c.linked == nil {
		return
	}
	for _, response := range c.linked.take(event.ID) {
		if err := s.ChannelMessageDelete(response.ChannelID, response.MessageID); err != nil {
			c.logger.Debug("Failed to delete linked response", "channel", response.ChannelID, "message", response.MessageID, "error", err)
		}
	}
}
