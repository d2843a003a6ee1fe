package command

import (
	"fmt"
	"strings"

	"github.com/sylvrs/spark/utils"
)

// Command describes a single chat command: its names, the checks an
// invocation must pass, its children, and its body. The descriptor is built
// once, registered on a table, and never mutated afterwards
type Command struct {
	// Name is the command's primary, case-insensitive name
	Name string
	// Aliases are alternative names the command can be invoked by
	Aliases []string
	// Help is the short description shown by the help responder
	Help string
	// Arguments describes the expected arguments for help listings, e.g. "<user>"
	Arguments string
	// Hidden commands are skipped by the help responder
	Hidden bool

	// Children are matched against the first argument token before any of
	// this command's own checks run
	Children []*Command
	// Category is an optional shared precondition
	Category *Category
	// RequiredRole names a role the invoking member must hold
	RequiredRole string
	// OwnerOnly commands silently reject anyone but the owner and co-owners
	OwnerOnly bool
	// AllowDM permits invocation outside of guilds; commands are guild-only
	// by default
	AllowDM bool
	// Cooldown is the number of seconds between uses, keyed by CooldownScope
	Cooldown int
	// CooldownScope partitions the cooldown; per-user when left zero
	CooldownScope CooldownScope
	// BotPermissions must all be held by the bot for the command to run
	BotPermissions []int64
	// UserPermissions must all be held by the invoking member
	UserPermissions []int64

	// Execute is the command body
	Execute func(*Event)
}

// Run takes an invocation through the command's check chain and, if every
// check passes, the body. Checks never return errors to the caller: each
// either replies and stops the invocation, or stops it silently
func (c *Command) Run(ev *Event) {
	// child delegation happens before any of this command's own checks;
	// the child applies its own
	if ev.Args != "" {
		token, rest := utils.FirstToken(ev.Args)
		for _, child := range c.Children {
			if child.matches(token) {
				ev.Args = rest
				child.Run(ev)
				return
			}
		}
	}

	// hidden commands stay hidden: no reply on the owner check
	if c.OwnerOnly && !ev.IsOwner() {
		c.terminate(ev, "")
		return
	}

	if c.Category != nil && !c.Category.Test(ev) {
		c.terminate(ev, c.Category.FailureMessage)
		return
	}

	if c.RequiredRole != "" && !ev.HasRole(c.RequiredRole) {
		c.terminate(ev, fmt.Sprintf("You must have a role called `%s` to use that!", c.RequiredRole))
		return
	}

	if ev.IsFromGuild() {
		if !c.checkPermissions(ev) {
			return
		}
	} else if !c.AllowDM {
		c.terminate(ev, "This command cannot be used in Direct messages")
		return
	}

	if c.Cooldown > 0 {
		key := c.CooldownScope.Key(c.Name, ev)
		if remaining := ev.Client.RemainingCooldown(key); remaining > 0 {
			// a running cooldown is not a termination, just a brush-off
			ev.ReplyWarning(fmt.Sprintf("That command is on cooldown for %d more seconds!", remaining))
			return
		}
		ev.Client.ApplyCooldown(key, c.Cooldown)
	}

	if ev.root != nil {
		ev.Client.CountUse(ev.root.Name)
	}
	if c.Execute != nil {
		c.Execute(ev)
	}
	if listener := ev.Client.Listener(); listener != nil {
		listener.OnCompletedCommand(ev, c)
	}
}

// matches reports whether token is the command's name or one of its aliases
func (c *Command) matches(token string) bool {
	if strings.EqualFold(c.Name, token) {
		return true
	}
	for _, alias := range c.Aliases {
		if strings.EqualFold(alias, token) {
			return true
		}
	}
	return false
}

// checkPermissions verifies the bot's and then the invoking member's required
// permissions inside a guild, terminating with a message naming the first
// missing one. Voice-scoped bot permissions are checked against the voice
// channel the invoking member is connected to
func (c *Command) checkPermissions(ev *Event) bool {
	botID := ""
	if ev.Session.State != nil && ev.Session.State.User != nil {
		botID = ev.Session.State.User.ID
	}
	for _, permission := range c.BotPermissions {
		switch {
		case utils.IsVoicePermission(permission):
			voiceChannelID := ev.VoiceChannelID()
			if voiceChannelID == "" {
				c.terminate(ev, "You must be in a voice channel to use that!")
				return false
			}
			if !ev.hasChannelPermission(botID, voiceChannelID, permission) {
				c.terminate(ev, fmt.Sprintf("I need the `%s` permission in this Voice Channel!", utils.PermissionName(permission)))
				return false
			}
		case utils.IsGuildPermission(permission):
			if !ev.hasGuildPermission(botID, permission) {
				c.terminate(ev, fmt.Sprintf("I need the `%s` permission in this Guild!", utils.PermissionName(permission)))
				return false
			}
		default:
			if !ev.hasChannelPermission(botID, ev.Message.ChannelID, permission) {
				c.terminate(ev, fmt.Sprintf("I need the `%s` permission in this Channel!", utils.PermissionName(permission)))
				return false
			}
		}
	}
	for _, permission := range c.UserPermissions {
		if utils.IsGuildPermission(permission) {
			if !ev.hasGuildPermission(ev.Message.Author.ID, permission) {
				c.terminate(ev, fmt.Sprintf("You must have the `%s` permission in this Guild to use that!", utils.PermissionName(permission)))
				return false
			}
			continue
		}
		if !ev.hasChannelPermission(ev.Message.Author.ID, ev.Message.ChannelID, permission) {
			c.terminate(ev, fmt.Sprintf("You must have the `%s` permission in this Channel to use that!", utils.PermissionName(permission)))
			return false
		}
	}
	return true
}

// terminate stops the invocation, replying with message unless it is empty,
// and notifies the listener
func (c *Command) terminate(ev *Event, message string) {
	if message != "" {
		ev.ReplyError(message)
	}
	if listener := ev.Client.Listener(); listener != nil {
		listener.OnTerminatedCommand(ev, c)
	}
}
