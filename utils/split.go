package utils

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxMessageLength is the longest message Discord accepts
	MaxMessageLength = 2000
	// DefaultMaxMessages is the default cap on how many messages a single
	// reply may be split into
	DefaultMaxMessages = 2
)

// mentionNeutralizer breaks up mass mentions with a zero-width space so a
// split reply can never ping everyone
var mentionNeutralizer = strings.NewReplacer(
	"@everyone", "@​everyone",
	"@here", "@​here",
)

// SplitOptions configures SplitMessage
type SplitOptions struct {
	// MaxMessages caps how many chunks are produced; anything beyond the cap
	// is dropped. Zero means DefaultMaxMessages
	MaxMessages int
}

// SplitMessage neutralizes mass mentions in content and splits it into chunks
// that fit within MaxMessageLength. Chunks are cut at the last newline before
// the limit, then the last space, then hard at the limit when the tail has
// neither
func SplitMessage(content string, opts SplitOptions) []string {
	max := opts.MaxMessages
	if max <= 0 {
		max = DefaultMaxMessages
	}
	content = mentionNeutralizer.Replace(content)
	if len(content) <= MaxMessageLength {
		return []string{content}
	}
	chunks := make([]string, 0, max)
	for len(content) > MaxMessageLength && len(chunks) < max {
		cut := strings.LastIndex(content[:MaxMessageLength], "\n")
		if cut < 0 {
			cut = strings.LastIndex(content[:MaxMessageLength], " ")
		}
		if cut < 0 {
			// a hard cut must not land inside a multi-byte rune
			cut = MaxMessageLength
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
		}
		chunks = append(chunks, strings.TrimSpace(content[:cut]))
		content = strings.TrimSpace(content[cut:])
	}
	if len(content) > 0 && len(chunks) < max {
		chunks = append(chunks, content)
	}
	return chunks
}
