// Package command defines the platform-independent command model: commands, the
// per-invocation Response they prepare, and the Registry that routes invocations to them.
package command

import (
	"context"
	"strings"
	"sync/atomic"
)

// Platform identifies an external chat system a command can be exposed on.
type Platform uint8

const (
	// PlatformDiscord is the Discord chat platform.
	PlatformDiscord Platform = 1 << iota
)

// String returns the platform name.
func (p Platform) String() string {
	switch p {
	case PlatformDiscord:
		return "discord"
	default:
		return "unknown"
	}
}

// Platforms is a set of platforms.
type Platforms Platform

// PlatformsOf builds a set from the given platforms.
func PlatformsOf(ps ...Platform) Platforms {
	var set Platforms
	for _, p := range ps {
		set |= Platforms(p)
	}
	return set
}

// Contains reports whether the set includes p.
func (s Platforms) Contains(p Platform) bool {
	return p != 0 && s&Platforms(p) == Platforms(p)
}

// Type is an invocation kind. Values combine as a set.
type Type uint8

const (
	// SlashCommand is a native application (slash) command invocation.
	SlashCommand Type = 1 << iota
	// TextCommand is a prefixed text message invocation, e.g. "!ping".
	TextCommand
)

// Contains reports whether the set t includes every kind in other.
func (t Type) Contains(other Type) bool {
	return other != 0 && t&other == other
}

// String returns a readable form of the set.
func (t Type) String() string {
	var parts []string
	if t.Contains(SlashCommand) {
		parts = append(parts, "slash")
	}
	if t.Contains(TextCommand) {
		parts = append(parts, "text")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Invocation describes one inbound request for a command.
type Invocation struct {
	// ID correlates log lines of a single invocation.
	ID       string
	Platform Platform
	Type     Type
	Name     string
	Args     []string
}

// Command is a named, typed, platform-scoped unit of behavior.
type Command interface {
	Name() string
	Description() string
	Types() Type
	Platforms() Platforms

	// Active reports whether the command currently produces responses.
	Active() bool

	// Bot returns the name of the bot that owns the command.
	Bot() string

	// NewResponse returns a fresh Response for a single invocation.
	NewResponse(inv Invocation) *Response

	// Init performs one-time setup such as loading a data set.
	Init(ctx context.Context) error

	// Shutdown releases resources such as config file watches.
	Shutdown() error
}

// Base holds the identity shared by all commands. Embed it to get the
// descriptive half of the Command interface.
type Base struct {
	name        string
	description string
	types       Type
	platforms   Platforms
	bot         string
	active      atomic.Bool
}

// NewBase creates an active Base.
func NewBase(bot, name, description string, types Type, platforms Platforms) *Base {
	b := &Base{
		name:        name,
		description: description,
		types:       types,
		platforms:   platforms,
		bot:         bot,
	}
	b.active.Store(true)
	return b
}

// Name returns the command name.
func (b *Base) Name() string { return b.name }

// Description returns the command description.
func (b *Base) Description() string { return b.description }

// Types returns the supported invocation kinds.
func (b *Base) Types() Type { return b.types }

// Platforms returns the supported platforms.
func (b *Base) Platforms() Platforms { return b.platforms }

// Bot returns the owning bot's name.
func (b *Base) Bot() string { return b.bot }

// Active reports whether the command is enabled.
func (b *Base) Active() bool { return b.active.Load() }

// SetActive enables or disables the command.
func (b *Base) SetActive(active bool) { b.active.Store(active) }

// Respond builds a Response for the command using prepare.
func (b *Base) Respond(inv Invocation, prepare PrepareFunc) *Response {
	return NewResponse(inv, b.Active, prepare)
}
