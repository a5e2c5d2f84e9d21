package command

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateCommand is returned when two commands share a name (case-insensitive).
	ErrDuplicateCommand = errors.New("duplicate command name")

	// ErrEmptyName is returned when a command has no name.
	ErrEmptyName = errors.New("command name is empty")
)

// Registry holds a bot's commands in registration order and resolves
// invocations to them. It is immutable after construction.
type Registry struct {
	commands []Command
	byName   map[string]Command
}

// NewRegistry creates a registry from cmds. Duplicate names are rejected.
func NewRegistry(cmds ...Command) (*Registry, error) {
	r := &Registry{
		commands: make([]Command, 0, len(cmds)),
		byName:   make(map[string]Command, len(cmds)),
	}

	for _, cmd := range cmds {
		name := strings.TrimSpace(cmd.Name())
		if name == "" {
			return nil, ErrEmptyName
		}
		key := strings.ToLower(name)
		if existing, ok := r.byName[key]; ok {
			return nil, fmt.Errorf("%w: %q conflicts with %q", ErrDuplicateCommand, cmd.Name(), existing.Name())
		}
		r.byName[key] = cmd
		r.commands = append(r.commands, cmd)
	}

	return r, nil
}

// Commands returns a snapshot of all commands in registration order.
func (r *Registry) Commands() []Command {
	result := make([]Command, len(r.commands))
	copy(result, r.commands)
	return result
}

// Get returns the command with the given name regardless of platform or type.
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.byName[strings.ToLower(name)]
	return cmd, ok
}

// Resolve finds the command matching name that supports the platform and
// invocation type. Not finding one is a normal outcome.
func (r *Registry) Resolve(platform Platform, kind Type, name string) (Command, bool) {
	cmd, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	if !cmd.Platforms().Contains(platform) || !cmd.Types().Contains(kind) {
		return nil, false
	}
	return cmd, true
}

// Filter returns the commands supporting the platform and invocation type, in registration order.
func (r *Registry) Filter(platform Platform, kind Type) []Command {
	var result []Command
	for _, cmd := range r.commands {
		if cmd.Platforms().Contains(platform) && cmd.Types().Contains(kind) {
			result = append(result, cmd)
		}
	}
	return result
}

// ParseText splits a text invocation such as "!ping a b" into its command name
// and arguments. It reports false when content does not start with one of the prefixes.
func ParseText(prefixes []string, content string) (name string, args []string, ok bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return "", nil, false
	}

	token := fields[0]
	for _, prefix := range prefixes {
		if prefix == "" || !strings.HasPrefix(token, prefix) {
			continue
		}
		name = strings.TrimPrefix(token, prefix)
		if name == "" {
			return "", nil, false
		}
		return name, fields[1:], true
	}
	return "", nil, false
}
