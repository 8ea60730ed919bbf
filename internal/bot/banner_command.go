package bot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"guildbanner/internal/banner"
	"guildbanner/internal/i18n"
	"guildbanner/internal/theme"
)

const renderTimeout = 30 * time.Second

// BannerCommand renders a guild banner on demand and replies with the PNG.
type BannerCommand struct {
	svc Generator
	log *slog.Logger
}

func NewBannerCommand(svc Generator, log *slog.Logger) *BannerCommand {
	if log == nil {
		log = slog.Default()
	}
	return &BannerCommand{svc: svc, log: log}
}

func (c *BannerCommand) Name() string { return "banner" }

func (c *BannerCommand) Description() string {
	return "Render a guild status banner: banner <world> <guild name>"
}

func (c *BannerCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 2 {
		_, err := s.ChannelMessageSend(m.ChannelID, "Usage: banner <world> <guild name>")
		return err
	}
	world := args[0]
	guild := strings.Join(args[1:], " ")

	img, err := c.render(world, guild, "", "")
	if err != nil {
		_, sendErr := s.ChannelMessageSend(m.ChannelID, renderErrorMessage(err))
		if sendErr != nil {
			return sendErr
		}
		return err
	}

	_, err = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Files: []*discordgo.File{{
			Name:        bannerFileName(guild),
			ContentType: "image/png",
			Reader:      bytes.NewReader(img),
		}},
	})
	return err
}

func (c *BannerCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	// Rendering takes several upstream round-trips; acknowledge first.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return err
	}

	var world, guild, themeName, lang string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "world":
			world = opt.StringValue()
		case "guild":
			guild = opt.StringValue()
		case "theme":
			themeName = opt.StringValue()
		case "lang":
			lang = opt.StringValue()
		}
	}

	img, err := c.render(world, guild, themeName, lang)
	if err != nil {
		msg := renderErrorMessage(err)
		_, followErr := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: msg})
		if followErr != nil {
			return followErr
		}
		return err
	}

	_, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Files: []*discordgo.File{{
			Name:        bannerFileName(guild),
			ContentType: "image/png",
			Reader:      bytes.NewReader(img),
		}},
	})
	return err
}

func (c *BannerCommand) SlashDefinition() *discordgo.ApplicationCommand {
	var themeChoices []*discordgo.ApplicationCommandOptionChoice
	for _, name := range theme.Names() {
		themeChoices = append(themeChoices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: "Render a guild status banner",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "world", Description: "Game world", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "guild", Description: "Guild name", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "theme", Description: "Banner theme", Required: false, Choices: themeChoices},
			{Type: discordgo.ApplicationCommandOptionString, Name: "lang", Description: "Banner language", Required: false},
		},
	}
}

func (c *BannerCommand) render(world, guild, themeName, lang string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()

	req := banner.NewRequest(world, guild)
	if themeName != "" {
		req.Theme = themeName
	}
	if lang != "" {
		if !i18n.Supported(lang) {
			return nil, fmt.Errorf("unsupported language %q", lang)
		}
		req.Lang = lang
	}
	img, err := c.svc.Generate(ctx, req)
	if err != nil {
		c.log.Error("banner render failed", "world", world, "guild", guild, "err", err)
		return nil, err
	}
	return img, nil
}

func renderErrorMessage(err error) string {
	return fmt.Sprintf("Could not render the banner: %v", err)
}

func bannerFileName(guild string) string {
	name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(guild), " ", "-"))
	if name == "" {
		name = "guild"
	}
	return name + "-banner.png"
}
