package alliance

import "time"

// Member is a snapshot of a guild member as reported by the platform.
// Roles holds role names in the order the platform reported them.
type Member struct {
	ID       string
	GuildID  string
	Username string
	Nick     string
	Roles    []string
}

// DisplayName returns the nickname when set, the username otherwise.
func (m Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.Username
}

// RoleChangeEvent carries a member's role set before an update along with the
// member's state after it.
type RoleChangeEvent struct {
	Member Member
	Before []string
}

// Added returns the roles present after the update but not before it.
func (e RoleChangeEvent) Added() []string {
	return difference(e.Member.Roles, e.Before)
}

// Removed returns the roles present before the update but not after it.
func (e RoleChangeEvent) Removed() []string {
	return difference(e.Before, e.Member.Roles)
}

// Changed reports whether the role set differs between the two snapshots.
func (e RoleChangeEvent) Changed() bool {
	return len(e.Added()) > 0 || len(e.Removed()) > 0
}

func difference(a, b []string) []string {
	exclude := make(map[string]struct{}, len(b))
	for _, s := range b {
		exclude[s] = struct{}{}
	}

	var diff []string
	for _, s := range a {
		if _, ok := exclude[s]; !ok {
			diff = append(diff, s)
		}
	}
	return diff
}

// InboundMessage is a chat message received in the guild.
type InboundMessage struct {
	ID        string
	ChannelID string
	GuildID   string
	AuthorID  string
	Content   string
	SentAt    time.Time
}
