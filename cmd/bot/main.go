package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"guildbanner/internal/assets"
	"guildbanner/internal/banner"
	"guildbanner/internal/bot"
	"guildbanner/internal/config"
	"guildbanner/internal/logging"
	"guildbanner/internal/upstream"
)

func main() {
	cfg := config.Load()
	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	if cfg.DiscordToken == "" {
		log.Error("DISCORD_TOKEN is required")
		os.Exit(1)
	}

	limiter := upstream.NewRateLimiter(cfg.ProviderRPS)
	defer limiter.Close()

	client := upstream.NewClient(upstream.ClientOptions{
		BaseURL:  cfg.ProviderURL,
		Email:    cfg.ProviderEmail,
		Password: cfg.ProviderPassword,
		Timeout:  cfg.FetchTimeout,
		Limiter:  limiter,
		Logger:   log,
	})
	svc := banner.New(client, assets.NewResolver(cfg.AssetPaths), cfg.DefaultTheme, log)

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Error("discord session", "err", err)
		os.Exit(1)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	h := bot.NewHandler("!", svc, log)
	dg.AddHandler(h.OnReady)
	dg.AddHandler(h.OnMessage)
	dg.AddHandler(h.OnInteractionCreate)

	if err := dg.Open(); err != nil {
		log.Error("discord gateway", "err", err)
		os.Exit(1)
	}
	defer dg.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")
}
