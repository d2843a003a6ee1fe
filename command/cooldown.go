package command

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// CooldownScope determines which part of an invocation a cooldown is keyed on
// The zero value is CooldownScopeUser
type CooldownScope int

const (
	// CooldownScopeUser applies the cooldown per invoking user
	CooldownScopeUser CooldownScope = iota
	// CooldownScopeChannel applies the cooldown per channel
	CooldownScopeChannel
	// CooldownScopeGuild applies the cooldown per guild, falling back to the
	// channel when the command is invoked outside of one
	CooldownScopeGuild
	// CooldownScopeShard applies the cooldown per gateway shard
	CooldownScopeShard
	// CooldownScopeGlobal applies a single cooldown across the whole client
	CooldownScopeGlobal
)

// Key composes the registry key for a command name under this scope
func (s CooldownScope) Key(name string, ev *Event) string {
	switch s {
	case CooldownScopeChannel:
		return name + "|C:" + ev.Message.ChannelID
	case CooldownScopeGuild:
		if ev.Message.GuildID == "" {
			return name + "|C:" + ev.Message.ChannelID
		}
		return name + "|G:" + ev.Message.GuildID
	case CooldownScopeShard:
		return fmt.Sprintf("%s|S:%d", name, ev.Session.ShardID)
	case CooldownScopeGlobal:
		return name + "|"
	default:
		return name + "|U:" + ev.Message.Author.ID
	}
}

// CooldownRegistry maps cooldown keys to their expiries
// Expired entries are treated as absent and removed lazily on read;
// Clean can be called to purge them in bulk
type CooldownRegistry struct {
	mu        sync.Mutex
	cooldowns map[string]time.Time
	now       func() time.Time
}

func NewCooldownRegistry() *CooldownRegistry {
	return &CooldownRegistry{
		cooldowns: make(map[string]time.Time),
		now:       time.Now,
	}
}

// Apply starts a cooldown of the given length under key, replacing any
// cooldown already running for it
func (r *CooldownRegistry) Apply(key string, seconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cooldowns[key] = r.now().Add(time.Duration(seconds) * time.Second)
}

// Remaining returns the number of whole seconds left on the cooldown for key,
// rounded up, or 0 if none is running
func (r *CooldownRegistry) Remaining(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.cooldowns[key]
	if !ok {
		return 0
	}
	left := expiry.Sub(r.now())
	if left <= 0 {
		delete(r.cooldowns, key)
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// Clean removes every expired cooldown
func (r *CooldownRegistry) Clean() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for key, expiry := range r.cooldowns {
		if !expiry.After(now) {
			delete(r.cooldowns, key)
		}
	}
}

// RunCleaner calls Clean every interval until ctx is done
// Call from the application's lifecycle if cooldown memory needs bounding
func (r *CooldownRegistry) RunCleaner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Clean()
		}
	}
}
