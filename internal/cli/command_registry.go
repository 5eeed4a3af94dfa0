package cli

import (
	"context"
	"fmt"

	"indicator-toggl/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	// Register all commands
	registry.Register("ls", NewListCommand(app))
	registry.Register("add", NewAddCommand(app))
	registry.Register("clients", NewClientsCommand(app))
	registry.Register("continue", NewContinueCommand(app))
	registry.Register("now", NewNowCommand(app))
	registry.Register("projects", NewProjectsCommand(app))
	registry.Register("rm", NewDeleteCommand(app))
	registry.Register("start", NewStartCommand(app))
	registry.Register("stop", NewStopCommand(app))
	registry.Register("users", NewUsersCommand(app))
	registry.Register("watch", NewWatchCommand(app))
	registry.Register("www", NewWWWCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewUsageError(commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}

func requireNoArgs(command string, args []string) error {
	if len(args) > 0 {
		return errors.NewUsageError(command, fmt.Sprintf("unexpected argument %q", args[0]))
	}
	return nil
}
