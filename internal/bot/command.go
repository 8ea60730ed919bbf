package bot

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"guildbanner/internal/banner"
)

// Generator renders one banner; satisfied by *banner.Service.
type Generator interface {
	Generate(ctx context.Context, req banner.Request) ([]byte, error)
}

// Command is one chat command, reachable both as a prefixed text command and
// as a slash command.
type Command interface {
	Name() string
	Description() string
	ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error
	ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error
	// SlashDefinition may return nil to skip slash registration.
	SlashDefinition() *discordgo.ApplicationCommand
}

// Registry holds the registered commands.
type Registry struct {
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

func (r *Registry) Register(cmd Command) {
	r.commands[strings.ToLower(cmd.Name())] = cmd
}

func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

func (r *Registry) All() map[string]Command {
	return r.commands
}

func (r *Registry) SlashDefinitions() []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, 0, len(r.commands))
	for _, cmd := range r.commands {
		if def := cmd.SlashDefinition(); def != nil {
			defs = append(defs, def)
		}
	}
	return defs
}
