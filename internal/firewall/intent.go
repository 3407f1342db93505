package firewall

import (
	"strings"
	"time"

	"github.com/webpilot/backend/internal/shared/id"
)

// Default budgets applied when the caller supplies none.
const (
	DefaultMaxDuration = 300 * time.Second
	DefaultMaxActions  = 500
)

// Params configures intent creation. Allowed and forbidden overrides are
// merged with catalog defaults before the record freezes; this is the only
// extension point, there is no mutation path afterwards.
type Params struct {
	TaskID           string
	UserID           string
	Category         Category
	Goal             string
	AllowedDomains   []string
	AllowedActions   []string
	ForbiddenActions []string
	SuccessCondition string
	MaxDuration      time.Duration
	MaxActions       int
}

// Intent is the locked per-task permission record. All fields are
// unexported and only reachable through accessors that return copies, so a
// constructed Intent cannot be altered by any caller, including the planner
// whose actions it constrains.
type Intent struct {
	id               id.IntentID
	taskID           string
	userID           string
	category         Category
	goal             string
	allowedDomains   []string
	allowed          map[string]struct{}
	forbidden        map[string]struct{}
	successCondition string
	maxDuration      time.Duration
	maxActions       int
	createdAt        time.Time
	lockedAt         time.Time
}

// NewLockedIntent resolves the category against the catalog, merges caller
// overrides into the allowed and forbidden sets, applies default budgets,
// and returns the frozen record. A verb present in both sets is left in
// both; the validator resolves that ambiguity with forbidden-wins.
func NewLockedIntent(p Params) *Intent {
	policy := DefaultPolicy(p.Category)

	allowed := make(map[string]struct{}, len(policy.Allowed)+len(p.AllowedActions))
	for _, verb := range policy.Allowed {
		allowed[verb] = struct{}{}
	}
	for _, verb := range p.AllowedActions {
		allowed[verb] = struct{}{}
	}

	forbidden := make(map[string]struct{}, len(policy.Forbidden)+len(p.ForbiddenActions))
	for _, verb := range policy.Forbidden {
		forbidden[verb] = struct{}{}
	}
	for _, verb := range p.ForbiddenActions {
		forbidden[verb] = struct{}{}
	}

	domains := make([]string, 0, len(p.AllowedDomains))
	for _, d := range p.AllowedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains = append(domains, d)
		}
	}

	maxDuration := p.MaxDuration
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}
	maxActions := p.MaxActions
	if maxActions <= 0 {
		maxActions = DefaultMaxActions
	}

	now := time.Now()
	return &Intent{
		id:               id.NewIntentID(),
		taskID:           p.TaskID,
		userID:           p.UserID,
		category:         p.Category,
		goal:             p.Goal,
		allowedDomains:   domains,
		allowed:          allowed,
		forbidden:        forbidden,
		successCondition: p.SuccessCondition,
		maxDuration:      maxDuration,
		maxActions:       maxActions,
		createdAt:        now,
		lockedAt:         now,
	}
}

// ID returns the intent's unique identifier.
func (i *Intent) ID() id.IntentID { return i.id }

// TaskID returns the owning task.
func (i *Intent) TaskID() string { return i.taskID }

// UserID returns the owning user.
func (i *Intent) UserID() string { return i.userID }

// Category returns the task classification the intent was built from.
func (i *Intent) Category() Category { return i.category }

// Goal returns the free-text description of what the task must accomplish.
func (i *Intent) Goal() string { return i.goal }

// SuccessCondition returns the free-text success condition. It is consumed
// downstream by the planner; the firewall does not parse it.
func (i *Intent) SuccessCondition() string { return i.successCondition }

// MaxDuration returns the wall-clock budget measured from lock time.
func (i *Intent) MaxDuration() time.Duration { return i.maxDuration }

// MaxActions returns the action-count budget.
func (i *Intent) MaxActions() int { return i.maxActions }

// CreatedAt returns the construction timestamp.
func (i *Intent) CreatedAt() time.Time { return i.createdAt }

// LockedAt returns the freeze timestamp.
func (i *Intent) LockedAt() time.Time { return i.lockedAt }

// AllowedDomains returns a copy of the domain allow-list. Empty means
// unrestricted.
func (i *Intent) AllowedDomains() []string {
	return append([]string(nil), i.allowedDomains...)
}

// AllowedActions returns a copy of the merged allow set.
func (i *Intent) AllowedActions() []string {
	out := make([]string, 0, len(i.allowed))
	for verb := range i.allowed {
		out = append(out, verb)
	}
	return out
}

// ForbiddenActions returns a copy of the merged forbid set.
func (i *Intent) ForbiddenActions() []string {
	out := make([]string, 0, len(i.forbidden))
	for verb := range i.forbidden {
		out = append(out, verb)
	}
	return out
}

// Allows reports whether a verb is in the allow set. It does not consider
// the forbid set; forbidden-wins is applied by the validator.
func (i *Intent) Allows(verb string) bool {
	_, ok := i.allowed[verb]
	return ok
}

// Forbids reports whether a verb is in the forbid set.
func (i *Intent) Forbids(verb string) bool {
	_, ok := i.forbidden[verb]
	return ok
}

// DomainAllowed reports whether a hostname falls inside the allow-list.
// An empty allow-list means any domain. A host matches when it equals an
// allowed domain or is a subdomain of one (suffix match on "." + domain),
// so "sub.example.com" matches "example.com" but "example.com.evil.com"
// does not.
func (i *Intent) DomainAllowed(host string) bool {
	if len(i.allowedDomains) == 0 {
		return true
	}
	host = strings.ToLower(strings.TrimSpace(host))
	for _, domain := range i.allowedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
