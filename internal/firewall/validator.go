package firewall

import (
	"fmt"
	"time"

	"github.com/webpilot/backend/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// Rejection codes surfaced alongside human-readable reasons. Budget codes
// are non-retryable for the task; policy codes allow re-planning with a
// different action but never bypassing the same check.
const (
	CodeTimeBudget        = "time_budget"
	CodeActionBudget      = "action_budget"
	CodeForbiddenAction   = "forbidden_action"
	CodeNotAllowed        = "not_allowed"
	CodeDomainMismatch    = "domain_mismatch"
	CodeSuspiciousContent = "suspicious_content"
)

// Action is one planner-proposed step, validated before dispatch.
type Action struct {
	Type   string `json:"type"`
	Domain string `json:"domain,omitempty"`
	Target string `json:"target,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Decision is the validator's verdict on a proposed action.
type Decision struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
	Code     string `json:"code,omitempty"`
}

// Stats exposes execution counters so the task processor can report
// stuck or near-limit state upstream.
type Stats struct {
	ActionsExecuted  int     `json:"actions_executed"`
	ElapsedSeconds   float64 `json:"elapsed_seconds"`
	RemainingActions int     `json:"remaining_actions"`
	RemainingSeconds float64 `json:"remaining_seconds"`
}

// Validator is the per-task firewall instance. It holds the only mutable
// execution state (action counter, start time) and is owned by exactly one
// task goroutine, so it carries no lock by design.
type Validator struct {
	intent    *Intent
	log       *logging.Logger
	now       func() time.Time
	startedAt time.Time
	executed  int
}

// NewValidator creates the firewall instance for a task. It must be created
// immediately after the intent locks; the wall-clock budget runs from here.
func NewValidator(intent *Intent, log *logging.Logger) *Validator {
	return newValidator(intent, log, time.Now)
}

// NewValidatorWithClock creates a validator with a custom clock.
// Useful for testing budget expiry deterministically.
func NewValidatorWithClock(intent *Intent, log *logging.Logger, clock func() time.Time) *Validator {
	return newValidator(intent, log, clock)
}

func newValidator(intent *Intent, log *logging.Logger, clock func() time.Time) *Validator {
	if log == nil {
		log = logging.NewNop()
	}
	return &Validator{
		intent:    intent,
		log:       log.WithTask(intent.TaskID()),
		now:       clock,
		startedAt: clock(),
	}
}

// Intent returns the locked intent this validator enforces.
func (v *Validator) Intent() *Intent { return v.intent }

// Validate runs the ordered firewall checks against one proposed action.
// Checks short-circuit on the first failure. The action counter increments
// before the count check even on rejecting paths, so a flood of rejected
// attempts still consumes budget and eventually forces termination.
func (v *Validator) Validate(action Action) Decision {
	elapsed := v.now().Sub(v.startedAt)
	if elapsed > v.intent.MaxDuration() {
		return v.reject(action, CodeTimeBudget, fmt.Sprintf(
			"time budget exceeded: %.0fs elapsed, limit %.0fs",
			elapsed.Seconds(), v.intent.MaxDuration().Seconds()))
	}

	v.executed++
	if v.executed > v.intent.MaxActions() {
		return v.reject(action, CodeActionBudget, fmt.Sprintf(
			"action budget exceeded: %d actions attempted, limit %d",
			v.executed, v.intent.MaxActions()))
	}

	// Forbidden precedes allowed, so a verb in both sets is still refused.
	if v.intent.Forbids(action.Type) {
		return v.reject(action, CodeForbiddenAction, fmt.Sprintf(
			"action %q is forbidden for %s tasks", action.Type, v.intent.Category()))
	}

	// Default-deny: anything not explicitly granted is refused.
	if !v.intent.Allows(action.Type) {
		return v.reject(action, CodeNotAllowed, fmt.Sprintf(
			"action %q is not in the allowed set", action.Type))
	}

	if action.Domain != "" && !v.intent.DomainAllowed(action.Domain) {
		return v.reject(action, CodeDomainMismatch, fmt.Sprintf(
			"domain %q is outside the task's allowed domains", action.Domain))
	}

	if pattern, found := scanValue(action.Value); found {
		return v.reject(action, CodeSuspiciousContent, fmt.Sprintf(
			"value matches suspicious pattern %q", pattern))
	}

	v.log.Debug("Action approved",
		zap.String("action", action.Type),
		zap.String("domain", action.Domain),
		zap.Int("actions_executed", v.executed))
	return Decision{Approved: true}
}

// Stats returns current budget consumption for this task.
func (v *Validator) Stats() Stats {
	elapsed := v.now().Sub(v.startedAt).Seconds()

	remainingActions := v.intent.MaxActions() - v.executed
	if remainingActions < 0 {
		remainingActions = 0
	}
	remainingSeconds := v.intent.MaxDuration().Seconds() - elapsed
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}

	return Stats{
		ActionsExecuted:  v.executed,
		ElapsedSeconds:   elapsed,
		RemainingActions: remainingActions,
		RemainingSeconds: remainingSeconds,
	}
}

func (v *Validator) reject(action Action, code, reason string) Decision {
	v.log.Warn("Action rejected",
		zap.String("action", action.Type),
		zap.String("domain", action.Domain),
		zap.String("code", code),
		zap.String("reason", reason))
	return Decision{Approved: false, Reason: reason, Code: code}
}
