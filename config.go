package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/snorlax2lazy/alliancebot/alliance"
)

// Config contains configuration variables for the Discord Adapter.
type Config struct {
	// Token is the Discord bot token used for authentication.
	Token string `json:"token" yaml:"token"`

	// GuildID is the one guild the bot works on.
	// When empty, the first guild reported on connection is chosen and events from other guilds are ignored.
	GuildID string `json:"guild_id" yaml:"guild_id"`

	// HelpCommand is the command string that triggers help.
	// When a user sends this exact string, the input is converted to sarah.HelpInput.
	HelpCommand string `json:"help_command" yaml:"help_command"`

	// AbortCommand is the command string that triggers context cancellation.
	// When a user sends this exact string, the input is converted to sarah.AbortInput.
	AbortCommand string `json:"abort_command" yaml:"abort_command"`

	// Intents declares the Gateway Intents the bot requires.
	// Guild members are needed for the roster check and role updates, which Discord treats as a privileged intent.
	Intents discordgo.Intent `json:"intents" yaml:"intents"`

	// Alliance holds the tag table, trigger keywords and reply embed.
	Alliance *alliance.Config `json:"alliance" yaml:"alliance"`
}

// NewConfig creates and returns a new Config instance with default settings.
// Token is empty and must be set before use.
func NewConfig() *Config {
	return &Config{
		Token:        "",
		GuildID:      "",
		HelpCommand:  ".help",
		AbortCommand: ".abort",
		Intents: discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages |
			discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent,
		Alliance: alliance.NewConfig(),
	}
}
