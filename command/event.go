package command

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sylvrs/spark/utils"
	"golang.org/x/exp/slices"
)

// Event is the context for a single command invocation. It wraps the
// triggering message and carries the argument remainder, which is rewritten
// as child commands are descended into. An Event only lives for the duration
// of one dispatch
type Event struct {
	// Message is the message that triggered the invocation
	Message *discordgo.MessageCreate
	// Args is the argument remainder after the command token
	Args string
	// Session is the Discord session the message arrived on
	Session *discordgo.Session
	// Client is the framework client that dispatched the event
	Client Client

	// root is the table-resolved command, regardless of how deep child
	// delegation descends; usage is counted against it
	root *Command
}

// NewEvent builds the context for one dispatched message. root is the
// command the dispatcher resolved, or nil for the help responder
func NewEvent(client Client, session *discordgo.Session, message *discordgo.MessageCreate, args string, root *Command) *Event {
	return &Event{
		Message: message,
		Args:    args,
		Session: session,
		Client:  client,
		root:    root,
	}
}

// Author returns the user that sent the triggering message
func (ev *Event) Author() *discordgo.User {
	return ev.Message.Author
}

// Member returns the guild member that sent the triggering message, or nil
// outside of guilds
func (ev *Event) Member() *discordgo.Member {
	return ev.Message.Member
}

// IsFromGuild reports whether the triggering message was sent in a guild
func (ev *Event) IsFromGuild() bool {
	return ev.Message.GuildID != ""
}

// Guild returns the guild the message was sent in from the state cache, or
// nil outside of guilds
func (ev *Event) Guild() *discordgo.Guild {
	if !ev.IsFromGuild() {
		return nil
	}
	guild, err := ev.Session.State.Guild(ev.Message.GuildID)
	if err != nil {
		return nil
	}
	return guild
}

// IsOwner reports whether the invoking user is the configured owner or one
// of the co-owners
func (ev *Event) IsOwner() bool {
	if ev.Message.Author == nil {
		return false
	}
	id := ev.Message.Author.ID
	return id == ev.Client.OwnerID() || slices.Contains(ev.Client.CoOwnerIDs(), id)
}

// HasRole reports whether the invoking member holds a role with the given
// name, compared case-insensitively
func (ev *Event) HasRole(name string) bool {
	guild := ev.Guild()
	if guild == nil || ev.Message.Member == nil {
		return false
	}
	for _, role := range guild.Roles {
		if strings.EqualFold(role.Name, name) && slices.Contains(ev.Message.Member.Roles, role.ID) {
			return true
		}
	}
	return false
}

// VoiceChannelID returns the ID of the voice channel the invoking user is
// connected to, or an empty string
func (ev *Event) VoiceChannelID() string {
	guild := ev.Guild()
	if guild == nil {
		return ""
	}
	for _, state := range guild.VoiceStates {
		if state.UserID == ev.Message.Author.ID {
			return state.ChannelID
		}
	}
	return ""
}

// hasChannelPermission reports whether the user holds the permission in the
// channel, accounting for role permissions and channel overwrites
func (ev *Event) hasChannelPermission(userID, channelID string, permission int64) bool {
	permissions, err := ev.Session.State.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false
	}
	return permissions&permission == permission
}

// hasGuildPermission reports whether the user holds the permission at the
// guild level
func (ev *Event) hasGuildPermission(userID string, permission int64) bool {
	guild := ev.Guild()
	if guild == nil {
		return false
	}
	member, err := ev.Session.State.Member(guild.ID, userID)
	if err != nil {
		return false
	}
	return utils.GuildPermissions(guild, member)&permission == permission
}

// Reply sends content to the channel the command was invoked in. Delivery is
// best-effort; whatever was delivered before a failure is still linked so it
// stays eligible for cascade-deletion
func (ev *Event) Reply(content string) {
	messages, _ := ev.Client.Send(ev.Message.ChannelID, content)
	ev.Client.LinkResponses(ev.Message.ID, messages...)
}

// ReplySuccess replies with the client's success emoji prefixed
func (ev *Event) ReplySuccess(content string) {
	ev.Reply(prefixed(ev.Client.SuccessEmoji(), content))
}

// ReplyWarning replies with the client's warning emoji prefixed
func (ev *Event) ReplyWarning(content string) {
	ev.Reply(prefixed(ev.Client.WarningEmoji(), content))
}

// ReplyError replies with the client's error emoji prefixed
func (ev *Event) ReplyError(content string) {
	ev.Reply(prefixed(ev.Client.ErrorEmoji(), content))
}

// ReplyEmbed sends an embed to the channel the command was invoked in
func (ev *Event) ReplyEmbed(embed *discordgo.MessageEmbed) {
	message, err := ev.Client.SendEmbed(ev.Message.ChannelID, embed)
	if err != nil || message == nil {
		return
	}
	ev.Client.LinkResponses(ev.Message.ID, message)
}

// ReplyInDM sends content to the invoking user's direct message channel
func (ev *Event) ReplyInDM(content string) error {
	channel, err := ev.Session.UserChannelCreate(ev.Message.Author.ID)
	if err != nil {
		return err
	}
	_, err = ev.Client.Send(channel.ID, content)
	return err
}

func prefixed(emoji, content string) string {
	if emoji == "" {
		return content
	}
	return emoji + " " + content
}
