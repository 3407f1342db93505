package firewall

import (
	"context"
	"fmt"
	"time"

	"github.com/webpilot/backend/internal/domain/task"
	fw "github.com/webpilot/backend/internal/firewall"
	"github.com/webpilot/backend/internal/infrastructure/logging"
	"github.com/webpilot/backend/internal/infrastructure/monitoring"
	"github.com/webpilot/backend/internal/shared/types"
)

// Provider exposes intent lifecycle and action validation as service tools.
type Provider struct {
	tasks   *task.Manager
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewProvider creates a firewall provider
func NewProvider(tasks *task.Manager, log *logging.Logger) *Provider {
	if log == nil {
		log = logging.NewNop()
	}
	return &Provider{tasks: tasks, log: log}
}

// WithMetrics adds metrics tracking to the provider
func (p *Provider) WithMetrics(metrics *monitoring.Metrics) *Provider {
	p.metrics = metrics
	return p
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "firewall",
		Name:        "Action Firewall",
		Description: "Lock per-task permissions and validate proposed actions",
		Category:    types.CategoryFirewall,
		Capabilities: []string{
			"create_intent",
			"validate",
			"stats",
			"catalog",
			"destroy",
		},
		Tools: []types.Tool{
			{
				ID:          "firewall.create_intent",
				Name:        "Create Intent",
				Description: "Lock an immutable permission record for a task",
				Parameters: []types.Parameter{
					{Name: "task_id", Type: "string", Description: "Task ID", Required: true},
					{Name: "category", Type: "string", Description: "Task category", Required: true},
					{Name: "user_id", Type: "string", Description: "Owning user", Required: false},
					{Name: "goal", Type: "string", Description: "What the task must accomplish", Required: false},
					{Name: "allowed_domains", Type: "array", Description: "Domains the task may touch, empty for any", Required: false},
					{Name: "allowed_actions", Type: "array", Description: "Extra verbs beyond the category default", Required: false},
					{Name: "forbidden_actions", Type: "array", Description: "Extra verbs to forbid", Required: false},
					{Name: "success_condition", Type: "string", Description: "Free-text success condition", Required: false},
					{Name: "max_duration_seconds", Type: "number", Description: "Wall-clock budget", Required: false},
					{Name: "max_actions", Type: "number", Description: "Action-count budget", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "firewall.validate",
				Name:        "Validate Action",
				Description: "Run the firewall checks against one proposed action",
				Parameters: []types.Parameter{
					{Name: "task_id", Type: "string", Description: "Task ID", Required: true},
					{Name: "action_type", Type: "string", Description: "Verb to perform", Required: true},
					{Name: "domain", Type: "string", Description: "Target domain", Required: false},
					{Name: "target", Type: "string", Description: "Target descriptor", Required: false},
					{Name: "value", Type: "string", Description: "Value to write", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "firewall.stats",
				Name:        "Get Stats",
				Description: "Report a task's budget consumption",
				Parameters: []types.Parameter{
					{Name: "task_id", Type: "string", Description: "Task ID", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "firewall.catalog",
				Name:        "Get Catalog",
				Description: "List the category permission catalog",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "firewall.destroy",
				Name:        "Destroy Intent",
				Description: "Discard a task's intent and budgets",
				Parameters: []types.Parameter{
					{Name: "task_id", Type: "string", Description: "Task ID", Required: true},
				},
				Returns: "boolean",
			},
		},
	}
}

// Execute runs a firewall operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "firewall.create_intent":
		return p.createIntent(params)
	case "firewall.validate":
		return p.validate(params)
	case "firewall.stats":
		return p.stats(params)
	case "firewall.catalog":
		return p.catalog()
	case "firewall.destroy":
		return p.destroy(params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) createIntent(params map[string]interface{}) (*types.Result, error) {
	taskID, ok := getString(params, "task_id")
	if !ok || taskID == "" {
		return failure("task_id parameter required")
	}
	category, ok := getString(params, "category")
	if !ok || category == "" {
		return failure("category parameter required")
	}

	userID, _ := getString(params, "user_id")
	goal, _ := getString(params, "goal")
	successCondition, _ := getString(params, "success_condition")

	maxDuration := time.Duration(0)
	if secs, ok := getInt(params, "max_duration_seconds"); ok {
		maxDuration = time.Duration(secs) * time.Second
	}
	maxActions, _ := getInt(params, "max_actions")

	t, err := p.tasks.Create(fw.Params{
		TaskID:           taskID,
		UserID:           userID,
		Category:         fw.Category(category),
		Goal:             goal,
		AllowedDomains:   getStrings(params, "allowed_domains"),
		AllowedActions:   getStrings(params, "allowed_actions"),
		ForbiddenActions: getStrings(params, "forbidden_actions"),
		SuccessCondition: successCondition,
		MaxDuration:      maxDuration,
		MaxActions:       maxActions,
	})
	if err != nil {
		return failure(err.Error())
	}

	intent := t.Intent()
	return success(map[string]interface{}{
		"intent_id":            intent.ID().String(),
		"task_id":              intent.TaskID(),
		"user_id":              intent.UserID(),
		"category":             string(intent.Category()),
		"allowed_domains":      intent.AllowedDomains(),
		"allowed_actions":      intent.AllowedActions(),
		"forbidden_actions":    intent.ForbiddenActions(),
		"max_duration_seconds": intent.MaxDuration().Seconds(),
		"max_actions":          intent.MaxActions(),
		"locked_at":            intent.LockedAt().UTC().Format(time.RFC3339),
	})
}

func (p *Provider) validate(params map[string]interface{}) (*types.Result, error) {
	taskID, ok := getString(params, "task_id")
	if !ok || taskID == "" {
		return failure("task_id parameter required")
	}
	actionType, ok := getString(params, "action_type")
	if !ok || actionType == "" {
		return failure("action_type parameter required")
	}

	t, ok := p.tasks.Get(taskID)
	if !ok {
		return failure(fmt.Sprintf("no intent locked for task %s", taskID))
	}

	domain, _ := getString(params, "domain")
	target, _ := getString(params, "target")
	value, _ := getString(params, "value")

	decision := t.Validate(fw.Action{
		Type:   actionType,
		Domain: domain,
		Target: target,
		Value:  value,
	})
	if p.metrics != nil {
		p.metrics.RecordValidation(string(t.Intent().Category()), decision.Approved, decision.Code)
	}

	return success(map[string]interface{}{
		"approved": decision.Approved,
		"reason":   decision.Reason,
		"code":     decision.Code,
	})
}

func (p *Provider) stats(params map[string]interface{}) (*types.Result, error) {
	taskID, ok := getString(params, "task_id")
	if !ok || taskID == "" {
		return failure("task_id parameter required")
	}
	t, ok := p.tasks.Get(taskID)
	if !ok {
		return failure(fmt.Sprintf("no intent locked for task %s", taskID))
	}

	stats := t.Stats()
	return success(map[string]interface{}{
		"actions_executed":  stats.ActionsExecuted,
		"elapsed_seconds":   stats.ElapsedSeconds,
		"remaining_actions": stats.RemainingActions,
		"remaining_seconds": stats.RemainingSeconds,
	})
}

func (p *Provider) catalog() (*types.Result, error) {
	policies := make(map[string]interface{})
	for _, category := range fw.Categories() {
		policy := fw.DefaultPolicy(category)
		policies[string(category)] = map[string]interface{}{
			"allowed":   policy.Allowed,
			"forbidden": policy.Forbidden,
		}
	}
	return success(map[string]interface{}{"categories": policies})
}

func (p *Provider) destroy(params map[string]interface{}) (*types.Result, error) {
	taskID, ok := getString(params, "task_id")
	if !ok || taskID == "" {
		return failure("task_id parameter required")
	}
	if !p.tasks.Destroy(taskID) {
		return failure(fmt.Sprintf("no intent locked for task %s", taskID))
	}
	return success(map[string]interface{}{"destroyed": true})
}
