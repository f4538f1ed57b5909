package discord

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/oklahomer/go-sarah/v4"

	"github.com/snorlax2lazy/alliancebot/alliance"
)

var alliancesPattern = regexp.MustCompile(`^\.alliances\b`)

// AlliancesCommandProps builds a command that lists every alliance role with its tag.
func AlliancesCommandProps(tags *alliance.TagTable) *sarah.CommandProps {
	return sarah.NewCommandPropsBuilder().
		BotType(DISCORD).
		Identifier("alliances").
		MatchPattern(alliancesPattern).
		Func(func(_ context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
			return NewResponse(input, FormatAlliances(tags))
		}).
		Instruction("Input .alliances to list alliance roles and their nickname tags.").
		MustBuild()
}

// FormatAlliances renders one line per alliance role, sorted by role name.
func FormatAlliances(tags *alliance.TagTable) string {
	if tags.Len() == 0 {
		return "No alliances are configured."
	}

	lines := make([]string, 0, tags.Len())
	for _, role := range tags.Roles() {
		tag, _ := tags.Lookup(role)
		lines = append(lines, fmt.Sprintf("**%s**: `%s`", role, tag))
	}
	return strings.Join(lines, "\n")
}
