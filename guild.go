package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"

	"github.com/snorlax2lazy/alliancebot/alliance"
)

// membersPageSize is the largest page Discord serves from the list guild members endpoint.
const membersPageSize = 1000

var (
	_ alliance.NicknameEditor = (*Adapter)(nil)
	_ alliance.EmbedSender    = (*Adapter)(nil)
)

// EditNickname sets the member's nickname in its guild.
// A refusal for lack of permission is returned wrapping alliance.ErrPermissionDenied.
func (a *Adapter) EditNickname(ctx context.Context, member alliance.Member, nickname string) error {
	err := a.session.GuildMemberNickname(member.GuildID, member.ID, nickname, discordgo.WithContext(ctx))
	if err != nil {
		return classifyError(err)
	}
	return nil
}

// SendEmbed posts the reply as a single embed to the given channel.
func (a *Adapter) SendEmbed(ctx context.Context, channelID string, reply alliance.Reply) error {
	_, err := a.session.ChannelMessageSendComplex(channelID, ReplyToMessageSend(reply), discordgo.WithContext(ctx))
	return err
}

// classifyError marks REST errors that mean the bot lacks permission.
func classifyError(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}

	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %w", alliance.ErrPermissionDenied, err)
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeMissingPermissions {
		return fmt.Errorf("%w: %w", alliance.ErrPermissionDenied, err)
	}
	return err
}

// ReplyToMessageSend builds the message carrying the reply embed.
func ReplyToMessageSend(reply alliance.Reply) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title:       reply.Title,
		Description: reply.Description,
		Color:       reply.Color,
	}
	if reply.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: reply.ImageURL}
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
}

// MemberFromDiscord converts a *discordgo.Member to alliance.Member with the given role names.
func MemberFromDiscord(m *discordgo.Member, roleNames []string) (alliance.Member, error) {
	if m == nil || m.User == nil {
		return alliance.Member{}, ErrNoUser
	}

	return alliance.Member{
		ID:       m.User.ID,
		GuildID:  m.GuildID,
		Username: m.User.Username,
		Nick:     m.Nick,
		Roles:    roleNames,
	}, nil
}

// MessageFromDiscord converts a *discordgo.MessageCreate event to alliance.InboundMessage.
func MessageFromDiscord(m *discordgo.MessageCreate) (alliance.InboundMessage, error) {
	if m.Author == nil {
		return alliance.InboundMessage{}, ErrNoAuthor
	}

	return alliance.InboundMessage{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		AuthorID:  m.Author.ID,
		Content:   m.Content,
		SentAt:    m.Timestamp,
	}, nil
}

// roleNames maps role IDs to names, keeping their order.
// The state cache is consulted first; on a miss the guild's roles are fetched once and cached.
// IDs that cannot be resolved are dropped.
func (a *Adapter) roleNames(ctx context.Context, state *discordgo.State, guildID string, roleIDs []string) []string {
	names := make([]string, 0, len(roleIDs))
	var fetched map[string]string
	for _, id := range roleIDs {
		if state != nil {
			if role, err := state.Role(guildID, id); err == nil {
				names = append(names, role.Name)
				continue
			}
		}

		if fetched == nil {
			fetched = a.fetchRoles(ctx, state, guildID)
		}
		name, ok := fetched[id]
		if !ok {
			logger.Debugf("Unknown role %s in guild %s.", id, guildID)
			continue
		}
		names = append(names, name)
	}
	return names
}

func (a *Adapter) fetchRoles(ctx context.Context, state *discordgo.State, guildID string) map[string]string {
	roles, err := a.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		logger.Errorf("Failed to fetch roles of guild %s: %+v", guildID, err)
		return map[string]string{}
	}

	names := make(map[string]string, len(roles))
	for _, role := range roles {
		names[role.ID] = role.Name
		if state != nil {
			// Fails only when the guild itself is not cached.
			_ = state.RoleAdd(guildID, role)
		}
	}
	return names
}

// fetchRoster pages through every member of the guild.
func (a *Adapter) fetchRoster(ctx context.Context, guildID string) ([]*discordgo.Member, error) {
	var members []*discordgo.Member
	after := ""
	for {
		page, err := a.session.GuildMembers(guildID, after, membersPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list members of guild %s: %w", guildID, err)
		}

		members = append(members, page...)
		if len(page) < membersPageSize || page[len(page)-1].User == nil {
			return members, nil
		}
		after = page[len(page)-1].User.ID
	}
}
