package command

import "github.com/bwmarrin/discordgo"

// Client is what a command sees of the framework while it executes
// It is implemented by spark.Client; tests provide fakes
type Client interface {
	// Prefix returns the client's primary prefix
	Prefix() string
	// OwnerID returns the configured owner's user ID
	OwnerID() string
	// CoOwnerIDs returns the configured co-owners' user IDs
	CoOwnerIDs() []string
	// SuccessEmoji, WarningEmoji and ErrorEmoji return the strings prefixed
	// to the corresponding reply helpers; any of them may be empty
	SuccessEmoji() string
	WarningEmoji() string
	ErrorEmoji() string
	// Listener returns the registered dispatch listener, or nil
	Listener() Listener
	// Commands returns the registered commands in table order
	Commands() []*Command
	// Uses returns how many times the named command's body has run
	Uses(name string) int
	// CountUse records one run of the named command's body
	CountUse(name string)
	// RemainingCooldown returns the seconds left on a cooldown key, or 0
	RemainingCooldown(key string) int
	// ApplyCooldown starts a cooldown under key
	ApplyCooldown(key string, seconds int)
	// Send delivers content to a channel, splitting it into multiple
	// messages when it exceeds the platform limit
	Send(channelID, content string) ([]*discordgo.Message, error)
	// SendEmbed delivers a single embed to a channel
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	// LinkResponses associates sent messages with the message that triggered
	// them so they can be cascade-deleted; a no-op when linking is disabled
	LinkResponses(triggerID string, responses ...*discordgo.Message)
}
