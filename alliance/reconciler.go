package alliance

import (
	"context"
	"errors"
	"strings"
)

// NicknameEditor sets a guild member's nickname.
// Implementations return an error wrapping ErrPermissionDenied when the platform refuses the edit for lack of permission.
type NicknameEditor interface {
	EditNickname(ctx context.Context, member Member, nickname string) error
}

// Outcome classifies what happened to one alliance role of one member during reconciliation.
type Outcome int

const (
	// Unchanged means the nickname already matched and no edit was requested.
	Unchanged Outcome = iota
	// Edited means the nickname was changed.
	Edited
	// PermissionDenied means the platform refused the edit for lack of permission.
	PermissionDenied
	// Failed means the edit failed for any other reason.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Edited:
		return "edited"
	case PermissionDenied:
		return "permission_denied"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result records the handling of one alliance role of one member.
type Result struct {
	MemberID string
	Role     string
	Tag      string
	From     string
	To       string
	Outcome  Outcome
	Err      error
}

// Count returns how many results carry the given outcome.
func Count(results []Result, outcome Outcome) int {
	n := 0
	for _, r := range results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

// Reconciler brings member nicknames in line with their alliance roles.
// Failures are logged and reported in the returned results, never returned as errors.
type Reconciler struct {
	tags   *TagTable
	editor NicknameEditor
	log    Logger
}

// NewReconciler creates a new Reconciler. A nil log discards all output.
func NewReconciler(tags *TagTable, editor NicknameEditor, log Logger) *Reconciler {
	if log == nil {
		log = nopLogger{}
	}

	return &Reconciler{
		tags:   tags,
		editor: editor,
		log:    log,
	}
}

// Tags returns the table the Reconciler works with.
func (r *Reconciler) Tags() *TagTable {
	return r.tags
}

// ReconcileRoster checks every given member once and prepends the tag of each alliance role the member's
// display name lacks. The name portion is always the username, never the existing nickname.
// A canceled ctx stops the pass before the next member.
func (r *Reconciler) ReconcileRoster(ctx context.Context, members []Member) []Result {
	r.log.Infof("Checking %d members for alliance tags.", len(members))

	var results []Result
	for _, member := range members {
		if err := ctx.Err(); err != nil {
			r.log.Warnf("Roster check stopped before member %s: %s", member.ID, err.Error())
			break
		}

		results = append(results, r.reconcileMember(ctx, member)...)
	}

	r.log.Infof("Roster check finished: %d edited, %d denied, %d failed.",
		Count(results, Edited), Count(results, PermissionDenied), Count(results, Failed))
	return results
}

func (r *Reconciler) reconcileMember(ctx context.Context, member Member) []Result {
	alliances := r.tags.AllianceRoles(member.Roles)
	if len(alliances) == 0 {
		return nil
	}
	r.warnMultiple(member, alliances)

	current := member.DisplayName()
	results := make([]Result, 0, len(alliances))
	for _, role := range alliances {
		tag, _ := r.tags.Lookup(role)
		if strings.HasPrefix(current, tag) {
			results = append(results, unchanged(member, role, tag, current))
			continue
		}

		result := r.edit(ctx, member, role, tag, current, Tagged(tag, member.Username))
		if result.Outcome == Edited {
			current = result.To
		}
		results = append(results, result)
	}
	return results
}

// ReconcileRoleChange applies the alliance roles added or removed by a single member update.
// An added role's tag is prepended to the username unless the display name already starts with it.
// A removed role's tag is stripped by resetting the nickname to the bare username.
func (r *Reconciler) ReconcileRoleChange(ctx context.Context, event RoleChangeEvent) []Result {
	added := event.Added()
	removed := event.Removed()
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	member := event.Member
	if len(added) > 0 {
		r.log.Infof("Added roles for %s: %v", member.Username, added)
	}
	if len(removed) > 0 {
		r.log.Infof("Removed roles for %s: %v", member.Username, removed)
	}

	addedAlliances := r.tags.AllianceRoles(added)
	removedAlliances := r.tags.AllianceRoles(removed)
	if len(addedAlliances) == 0 && len(removedAlliances) == 0 {
		return nil
	}
	r.warnMultiple(member, r.tags.AllianceRoles(member.Roles))

	current := member.DisplayName()
	var results []Result
	for _, role := range addedAlliances {
		tag, _ := r.tags.Lookup(role)
		if strings.HasPrefix(current, tag) {
			results = append(results, unchanged(member, role, tag, current))
			continue
		}

		result := r.edit(ctx, member, role, tag, current, Tagged(tag, member.Username))
		if result.Outcome == Edited {
			current = result.To
		}
		results = append(results, result)
	}

	for _, role := range removedAlliances {
		tag, _ := r.tags.Lookup(role)
		if !strings.HasPrefix(current, tag) {
			results = append(results, unchanged(member, role, tag, current))
			continue
		}

		result := r.edit(ctx, member, role, tag, current, member.Username)
		if result.Outcome == Edited {
			current = result.To
		}
		results = append(results, result)
	}
	return results
}

// warnMultiple flags members whose nickname depends on role order: the last alliance role processed wins.
func (r *Reconciler) warnMultiple(member Member, alliances []string) {
	if len(alliances) > 1 {
		r.log.Warnf("Member %s holds %d alliance roles %v; the last one in role order decides the tag.",
			member.Username, len(alliances), alliances)
	}
}

func (r *Reconciler) edit(ctx context.Context, member Member, role, tag, from, to string) Result {
	result := Result{
		MemberID: member.ID,
		Role:     role,
		Tag:      tag,
		From:     from,
		To:       to,
	}

	err := r.editor.EditNickname(ctx, member, to)
	switch {
	case err == nil:
		result.Outcome = Edited
		r.log.Infof("Nickname updated to %s for %s", to, member.Username)

	case errors.Is(err, ErrPermissionDenied):
		result.Outcome = PermissionDenied
		result.Err = err
		r.log.Warnf("Missing permission to change nickname for %s.", member.Username)

	default:
		result.Outcome = Failed
		result.Err = err
		r.log.Errorf("Error updating nickname for %s: %s", member.Username, err.Error())
	}

	return result
}

func unchanged(member Member, role, tag, current string) Result {
	return Result{
		MemberID: member.ID,
		Role:     role,
		Tag:      tag,
		From:     current,
		To:       current,
		Outcome:  Unchanged,
	}
}
