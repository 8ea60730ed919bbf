package bot

import (
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Handler routes Discord messages and interactions to the command registry.
type Handler struct {
	registry *Registry
	prefix   string
	log      *slog.Logger
}

func NewHandler(prefix string, svc Generator, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	registry := NewRegistry()
	registry.Register(NewBannerCommand(svc, log))
	registry.Register(NewHelpCommand(registry))

	return &Handler{
		registry: registry,
		prefix:   prefix,
		log:      log,
	}
}

// OnReady registers the slash commands once the gateway session is up.
func (h *Handler) OnReady(s *discordgo.Session, _ *discordgo.Ready) {
	h.log.Info("bot ready", "user", s.State.User.Username)
	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", h.registry.SlashDefinitions()); err != nil {
		h.log.Error("slash command sync failed", "err", err)
	}
}

func (h *Handler) OnMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, h.prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, h.prefix))
	if len(fields) == 0 {
		return
	}

	cmd, ok := h.registry.Get(fields[0])
	if !ok {
		return
	}
	if err := cmd.ExecuteText(s, m, fields[1:]); err != nil {
		h.log.Error("command failed", "command", cmd.Name(), "err", err)
	}
}

func (h *Handler) OnInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	cmd, ok := h.registry.Get(i.ApplicationCommandData().Name)
	if !ok {
		return
	}
	if err := cmd.ExecuteSlash(s, i); err != nil {
		h.log.Error("slash command failed", "command", cmd.Name(), "err", err)
	}
}
