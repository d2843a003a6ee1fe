package command

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrDuplicateKey is returned when a command's name or alias is already registered
	ErrDuplicateKey = errors.New("command name or alias is already in use")
	// ErrUnknownKey is returned when no command is registered under the given name or alias
	ErrUnknownKey = errors.New("no command registered under that name or alias")
	// ErrIndexOutOfRange is returned when a command is added at an invalid position
	ErrIndexOutOfRange = errors.New("command index out of range")
)

// Table is the registry of commands for a client
// It keeps commands in insertion order (which drives the default help listing)
// alongside a lowercased name/alias index used for dispatch lookups
// The order and the index are always mutated together under a single lock
type Table struct {
	mu      sync.RWMutex
	entries []*Command
	index   map[string]int
}

func NewTable() *Table {
	return &Table{
		entries: make([]*Command, 0),
		index:   make(map[string]int),
	}
}

// Add registers a command at the end of the table
func (t *Table) Add(cmd *Command) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insert(cmd, len(t.entries))
}

// AddAt registers a command at the given position, shifting later commands back by one
func (t *Table) AddAt(cmd *Command, position int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if position < 0 || position > len(t.entries) {
		return fmt.Errorf("%w: %d (table has %d commands)", ErrIndexOutOfRange, position, len(t.entries))
	}
	return t.insert(cmd, position)
}

// insert validates every key of the command before touching any state, so a
// collision leaves the table untouched
func (t *Table) insert(cmd *Command, position int) error {
	keys, err := t.keysOf(cmd)
	if err != nil {
		return err
	}
	for key, at := range t.index {
		if at >= position {
			t.index[key] = at + 1
		}
	}
	for _, key := range keys {
		t.index[key] = position
	}
	t.entries = append(t.entries, nil)
	copy(t.entries[position+1:], t.entries[position:])
	t.entries[position] = cmd
	return nil
}

// keysOf collects the lowercased name and aliases of a command, failing on any
// collision with the table or within the command itself
func (t *Table) keysOf(cmd *Command) ([]string, error) {
	if cmd.Name == "" {
		return nil, errors.New("command name must not be empty")
	}
	keys := make([]string, 0, len(cmd.Aliases)+1)
	seen := make(map[string]struct{})
	for _, key := range append([]string{cmd.Name}, cmd.Aliases...) {
		key = strings.ToLower(key)
		if _, ok := t.index[key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys, nil
}

// Remove unregisters the command known by the given name or alias, shifting
// later commands forward by one
func (t *Table) Remove(nameOrAlias string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	position, ok := t.index[strings.ToLower(nameOrAlias)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, nameOrAlias)
	}
	removed := t.entries[position]
	delete(t.index, strings.ToLower(removed.Name))
	for _, alias := range removed.Aliases {
		delete(t.index, strings.ToLower(alias))
	}
	for key, at := range t.index {
		if at > position {
			t.index[key] = at - 1
		}
	}
	t.entries = append(t.entries[:position], t.entries[position+1:]...)
	return nil
}

// Lookup resolves a command by its name or one of its aliases, case-insensitively
func (t *Table) Lookup(nameOrAlias string) (*Command, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	position, ok := t.index[strings.ToLower(nameOrAlias)]
	if !ok {
		return nil, false
	}
	return t.entries[position], true
}

// Commands returns the registered commands in table order
func (t *Table) Commands() []*Command {
	t.mu.RLock()
	defer t.mu.RUnlock()
	commands := make([]*Command, len(t.entries))
	copy(commands, t.entries)
	return commands
}

// Len returns the number of registered commands
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
