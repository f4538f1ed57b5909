package alliance

import (
	"fmt"
	"sort"
	"strings"
)

// TagTable maps role names to the bracketed prefix members of that alliance carry.
// A TagTable is read-only once built and safe for concurrent use.
type TagTable struct {
	tags map[string]string
}

// DefaultTags returns the built-in role name to tag pairs.
func DefaultTags() map[string]string {
	return map[string]string{
		"🏰MOB": "[MOB]",
		"🏰MOS": "[MOS]",
		"🏰KAT": "[KAT]",
		"🏰TAN": "[TAN]",
		"🏰SHH": "[SHH]",
	}
}

// NewTagTable copies the given pairs into a new TagTable.
func NewTagTable(tags map[string]string) (*TagTable, error) {
	copied := make(map[string]string, len(tags))
	for role, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return nil, fmt.Errorf("role %q: %w", role, ErrEmptyTag)
		}
		copied[role] = tag
	}

	return &TagTable{tags: copied}, nil
}

// MustTagTable is like NewTagTable but panics on error.
func MustTagTable(tags map[string]string) *TagTable {
	table, err := NewTagTable(tags)
	if err != nil {
		panic(err)
	}
	return table
}

// Lookup returns the tag for the given role name.
// Matching is exact and case-sensitive.
func (t *TagTable) Lookup(role string) (string, bool) {
	tag, ok := t.tags[role]
	return tag, ok
}

// Roles returns the role names in the table, sorted.
func (t *TagTable) Roles() []string {
	roles := make([]string, 0, len(t.tags))
	for role := range t.tags {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Len returns the number of entries.
func (t *TagTable) Len() int {
	return len(t.tags)
}

// AllianceRoles filters roles down to those with a tag, keeping their order.
func (t *TagTable) AllianceRoles(roles []string) []string {
	var matched []string
	for _, role := range roles {
		if _, ok := t.tags[role]; ok {
			matched = append(matched, role)
		}
	}
	return matched
}

// Tagged builds the nickname for a member of the alliance carrying tag.
func Tagged(tag, username string) string {
	return tag + " " + username
}
