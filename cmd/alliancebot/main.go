// Command alliancebot keeps alliance tags in guild nicknames and answers trigger keywords.
//
// Usage:
//
//	export DISCORD_TOKEN="your-bot-token"
//	export DISCORD_GUILD_ID="optional-guild-id"
//	export ALLIANCE_CONFIG="optional/path/to/alliance.yaml"
//	go run ./cmd/alliancebot
//
// Variables may also be placed in a .env file in the working directory.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"

	"github.com/snorlax2lazy/alliancebot"
	"github.com/snorlax2lazy/alliancebot/alliance"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	l := logger.NewWithStandardLogger(log.New(os.Stderr, "alliancebot ", log.LstdFlags))
	logger.SetLogger(l)

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %s\n", err)
		os.Exit(1)
	}

	adapter, err := discord.NewAdapter(config, discord.WithLogger(l))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create adapter: %s\n", err)
		os.Exit(1)
	}

	storage := sarah.NewUserContextStorage(sarah.NewCacheConfig())
	bot := sarah.NewBot(adapter, sarah.BotWithStorage(storage))
	sarah.RegisterBot(bot)

	sarah.RegisterCommandProps(discord.AlliancesCommandProps(adapter.Tags()))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = sarah.Run(ctx, sarah.NewConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run: %s\n", err)
		os.Exit(1)
	}

	logger.Infof("Bot is running. Press Ctrl+C to stop.")

	<-ctx.Done()

	logger.Infof("Shutting down...")
}

func loadConfig() (*discord.Config, error) {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN environment variable is required")
	}

	config := discord.NewConfig()
	config.Token = token
	config.GuildID = os.Getenv("DISCORD_GUILD_ID")

	if path := os.Getenv("ALLIANCE_CONFIG"); path != "" {
		settings, err := alliance.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config.Alliance = settings
	}

	return config, nil
}
