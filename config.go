package spark

import "github.com/sylvrs/spark/command"

// MentionPrefix is the sentinel prefix value that matches a direct mention of
// the bot instead of a literal string. An empty primary prefix behaves the
// same way
const MentionPrefix = "@mention"

// Config is the structure that holds the configuration for a client
// Every field is fixed once the client is constructed; the only state that
// changes afterwards is the command table and the listener
type Config struct {
	// The token used to authenticate with Discord
	Token string
	// Prefix is the primary command prefix; empty or MentionPrefix means
	// commands are triggered by mentioning the bot
	Prefix string
	// AltPrefix is an optional secondary prefix
	AltPrefix string
	// OwnerID is the user ID of the bot's owner
	OwnerID string
	// CoOwnerIDs are additional user IDs treated as owners
	CoOwnerIDs []string
	// HelpWord triggers the help responder; "help" when empty
	HelpWord string
	// DisableHelp turns the built-in help responder off
	DisableHelp bool
	// Helper overrides the default help responder
	Helper func(*command.Event)
	// Success, Warning and Error are prefixed to the corresponding reply
	// helpers, typically emoji
	Success string
	Warning string
	Error   string
	// MaxMessages caps how many messages a long reply may be split into;
	// the splitter's default (2) when zero
	MaxMessages int
	// LinkedCacheSize enables cascade-deletion of replies when the message
	// that triggered them is deleted; zero disables it
	LinkedCacheSize int
	// Settings supplies per-guild prefixes; optional
	Settings SettingsProvider
}

// SettingsProvider supplies guild-specific command prefixes, tried after the
// primary and alternate prefixes fail to match
type SettingsProvider interface {
	Prefixes(guildID string) []string
}
