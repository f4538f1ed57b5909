package alliance

import (
	"context"
	"fmt"
	"strings"
)

// Reply is the embed sent back when a trigger keyword is seen.
type Reply struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Color       int    `json:"color" yaml:"color"`
	ImageURL    string `json:"image_url" yaml:"image_url"`
}

// DefaultReply returns the built-in reply embed.
func DefaultReply() Reply {
	return Reply{
		Title:       "He who must not be named has been called upon...",
		Description: "What do you want? :knife:",
		Color:       0xE74C3C,
		ImageURL:    "https://media.discordapp.net/attachments/930870348545679370/1371854515611107379/snorlax-crawling.gif?ex=6824a694&is=68235514&hm=4713a1003ca2ae635e3d25ede88b4327bd6f6eeadb75d794044201be6489a1e6&=&width=623&height=468",
	}
}

// DefaultKeywords returns the built-in trigger keywords.
func DefaultKeywords() []string {
	return []string{"snor", "snorlax", "snorlax2lazy"}
}

// EmbedSender posts a Reply to a channel.
type EmbedSender interface {
	SendEmbed(ctx context.Context, channelID string, reply Reply) error
}

// Responder answers messages containing a trigger keyword with a fixed Reply.
type Responder struct {
	keywords []string
	reply    Reply
	sender   EmbedSender
	log      Logger
}

// NewResponder creates a new Responder. Keywords are lower-cased; blank ones are dropped.
// A nil log discards all output.
func NewResponder(keywords []string, reply Reply, sender EmbedSender, log Logger) (*Responder, error) {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			normalized = append(normalized, k)
		}
	}
	if len(normalized) == 0 {
		return nil, ErrNoKeywords
	}

	if log == nil {
		log = nopLogger{}
	}

	return &Responder{
		keywords: normalized,
		reply:    reply,
		sender:   sender,
		log:      log,
	}, nil
}

// Keywords returns the normalized trigger keywords.
func (r *Responder) Keywords() []string {
	return append([]string(nil), r.keywords...)
}

// Matches reports whether content contains any trigger keyword, ignoring case.
func (r *Responder) Matches(content string) bool {
	lowered := strings.ToLower(content)
	for _, k := range r.keywords {
		if strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}

// Respond sends one Reply to the message's channel when the message contains a trigger keyword.
// Messages written by selfID are ignored. It reports whether a reply was sent.
func (r *Responder) Respond(ctx context.Context, msg InboundMessage, selfID string) (bool, error) {
	if selfID != "" && msg.AuthorID == selfID {
		return false, nil
	}

	if !r.Matches(msg.Content) {
		return false, nil
	}

	r.log.Debugf("Trigger keyword found in message %s on channel %s.", msg.ID, msg.ChannelID)
	if err := r.sender.SendEmbed(ctx, msg.ChannelID, r.reply); err != nil {
		return false, fmt.Errorf("failed to send reply to %s: %w", msg.ChannelID, err)
	}
	return true, nil
}
