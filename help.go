package spark

import (
	"fmt"
	"strings"

	"github.com/sylvrs/spark/command"
)

// defaultHelp is the built-in help responder: a command listing in table
// order, delivered by direct message so it cannot flood a channel
func (c *Client) defaultHelp(ev *command.Event) {
	var builder strings.Builder
	fmt.Fprintf(&builder, "**%s** commands:\n", c.botName())
	for _, cmd := range c.commands.Commands() {
		if cmd.Hidden {
			continue
		}
		builder.WriteString("\n`" + c.displayPrefix() + cmd.Name)
		if cmd.Arguments != "" {
			builder.WriteString(" " + cmd.Arguments)
		}
		builder.WriteString("`")
		if cmd.Help != "" {
			builder.WriteString(" - " + cmd.Help)
		}
	}
	if owner := c.config.OwnerID; owner != "" {
		fmt.Fprintf(&builder, "\n\nFor additional help, contact <@%s>", owner)
	}
	if err := ev.ReplyInDM(builder.String()); err != nil {
		ev.ReplyWarning("Help cannot be sent because you are blocking Direct Messages.")
	}
}

// displayPrefix renders the prefix for help listings; the mention sentinel
// becomes a readable @BotName
func (c *Client) displayPrefix() string {
	if c.config.Prefix == MentionPrefix {
		return "@" + c.botName() + " "
	}
	return c.config.Prefix
}

func (c *Client) botName() string {
	if user := c.session.State.User; user != nil {
		return user.Username
	}
	return "Bot"
}
