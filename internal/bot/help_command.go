package bot

import (
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// HelpCommand lists the registered commands.
type HelpCommand struct {
	registry *Registry
}

func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{registry: registry}
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List available commands" }

func (c *HelpCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, _ []string) error {
	_, err := s.ChannelMessageSend(m.ChannelID, c.listing())
	return err
}

func (c *HelpCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: c.listing()},
	})
}

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *HelpCommand) listing() string {
	names := make([]string, 0, len(c.registry.All()))
	for name := range c.registry.All() {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, name := range names {
		cmd, _ := c.registry.Get(name)
		b.WriteString("`" + name + "` - " + cmd.Description() + "\n")
	}
	return b.String()
}
