// Package action registers the named navigation commands.
package action

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnknown is returned for ids that were never registered.
	ErrUnknown = errors.New("unknown command")
	// ErrUnavailable is returned when a command's check fails.
	ErrUnavailable = errors.New("command unavailable")
)

// Command is a named action with an availability check. A nil Check means
// the command is always available.
type Command struct {
	ID    Type
	Name  string
	Check func(ctx context.Context) bool
	Run   func(ctx context.Context) error
}

// Available reports whether the command can run now.
func (c Command) Available(ctx context.Context) bool {
	return c.Check == nil || c.Check(ctx)
}

// Registry keeps commands in registration order.
type Registry struct {
	order    []Type
	commands map[Type]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[Type]Command)}
}

// Register adds or replaces a command.
func (r *Registry) Register(c Command) {
	if _, exists := r.commands[c.ID]; !exists {
		r.order = append(r.order, c.ID)
	}
	r.commands[c.ID] = c
}

// Get returns the command registered under id.
func (r *Registry) Get(id Type) (Command, bool) {
	c, ok := r.commands[id]
	return c, ok
}

// List returns all commands in registration order.
func (r *Registry) List() []Command {
	out := make([]Command, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.commands[id])
	}
	return out
}

// Run executes id after checking availability.
func (r *Registry) Run(ctx context.Context, id Type) error {
	c, ok := r.commands[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, id)
	}
	if !c.Available(ctx) {
		return fmt.Errorf("%w: %s", ErrUnavailable, id)
	}
	return c.Run(ctx)
}
