package actions

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/webpilot/backend/internal/domain/task"
	"github.com/webpilot/backend/internal/executor"
	"github.com/webpilot/backend/internal/executor/htmlpage"
	fw "github.com/webpilot/backend/internal/firewall"
	"github.com/webpilot/backend/internal/infrastructure/logging"
	"github.com/webpilot/backend/internal/infrastructure/monitoring"
	"github.com/webpilot/backend/internal/infrastructure/tracing"
	"github.com/webpilot/backend/internal/infrastructure/webclient"
	"github.com/webpilot/backend/internal/shared/types"

	"go.uber.org/zap"
)

// Provider executes page actions for tasks. Every tool validates the
// proposed action against the task's firewall before touching the page;
// a rejected action never reaches the executor.
type Provider struct {
	tasks   *task.Manager
	client  *webclient.Client
	exec    *executor.Executor
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewProvider creates an actions provider
func NewProvider(tasks *task.Manager, client *webclient.Client, log *logging.Logger) *Provider {
	if log == nil {
		log = logging.NewNop()
	}
	return &Provider{
		tasks:  tasks,
		client: client,
		exec:   executor.New(log),
		log:    log,
	}
}

// WithMetrics adds metrics tracking to the provider
func (p *Provider) WithMetrics(metrics *monitoring.Metrics) *Provider {
	p.metrics = metrics
	return p
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "actions",
		Name:        "Page Actions",
		Description: "Validated page interaction: open, navigate, fill, click",
		Category:    types.CategoryActions,
		Capabilities: []string{
			"open",
			"navigate",
			"fill",
			"click",
			"close",
		},
		Tools: []types.Tool{
			{
				ID:          "actions.open",
				Name:        "Open Page",
				Description: "Start a browsing session at a URL",
				Parameters: []types.Parameter{
					{Name: "task_id", Type: "string", Description: "Task ID", Required: true},
					{Name: "url", Type: "string", Description: "URL to open", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "actions.navigate",
				Name:        "Navigate",
				Description: "Load a URL in the task's session",
				Parameters: []types.Parameter{
					{Name: "task_id", Type: "string", Description: "Task ID", Required: true},
					{Name: "url", Type: "string", Description: "URL to load", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "actions.fill",
				Name:        "Fill Field",
				Description: "Write a value into a form field",
				Parameters: []types.Parameter{
					{Name: "task_id", Type: "string", Description: "Task ID", Required: true},
					{Name: "value", Type: "string", Description: "Value to write", Required: true},
					{Name: "selector", Type: "string", Description: "CSS selector", Required: false},
					{Name: "label", Type: "string", Description: "Label text", Required: false},
					{Name: "placeholder", Type: "string", Description: "Placeholder text", Required: false},
					{Name: "name", Type: "string", Description: "Field name attribute", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "actions.click",
				Name:        "Click Control",
				Description: "Activate a button or link",
				Parameters: []types.Parameter{
					{Name: "task_id", Type: "string", Description: "Task ID", Required: true},
					{Name: "selector", Type: "string", Description: "CSS selector", Required: false},
					{Name: "text", Type: "string", Description: "Control text", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "actions.close",
				Name:        "Close Session",
				Description: "Discard the task's browsing session",
				Parameters: []types.Parameter{
					{Name: "task_id", Type: "string", Description: "Task ID", Required: true},
				},
				Returns: "boolean",
			},
		},
	}
}

// Execute runs a page action
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "actions.open", "actions.navigate":
		return p.navigate(ctx, params)
	case "actions.fill":
		return p.fill(ctx, params)
	case "actions.click":
		return p.click(ctx, params)
	case "actions.close":
		return p.close(params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// guard looks up the task and runs the firewall on the proposed action.
func (p *Provider) guard(t *task.Task, action fw.Action) *fw.Decision {
	decision := t.Validate(action)
	if p.metrics != nil {
		p.metrics.RecordValidation(string(t.Intent().Category()), decision.Approved, decision.Code)
	}
	return &decision
}

func (p *Provider) lookup(params map[string]interface{}) (*task.Task, *types.Result) {
	taskID, ok := getString(params, "task_id")
	if !ok || taskID == "" {
		res, _ := failure("task_id parameter required")
		return nil, res
	}
	t, ok := p.tasks.Get(taskID)
	if !ok {
		res, _ := failure(fmt.Sprintf("no intent locked for task %s", taskID))
		return nil, res
	}
	return t, nil
}

func (p *Provider) navigate(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	t, errRes := p.lookup(params)
	if errRes != nil {
		return errRes, nil
	}
	rawURL, ok := getString(params, "url")
	if !ok || rawURL == "" {
		return failure("url parameter required")
	}
	defer t.Begin()()

	decision := p.guard(t, fw.Action{
		Type:   "navigate",
		Domain: hostOf(rawURL),
		Target: rawURL,
	})
	if !decision.Approved {
		return rejected(decision)
	}

	page := t.Page()
	if page == nil {
		page = htmlpage.New(p.client, p.log)
		t.AttachPage(page)
	}

	start := time.Now()
	result := p.exec.Navigate(ctx, page, executor.NavigateTarget{URL: rawURL})
	p.recordAction(ctx, "navigate", result.Method, result.Success, result.MethodIndex, start)
	if !result.Success {
		return failure(result.Error)
	}

	return success(map[string]interface{}{
		"url":          page.URL(),
		"title":        page.Title(),
		"method":       result.Method,
		"method_index": result.MethodIndex,
	})
}

func (p *Provider) fill(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	t, errRes := p.lookup(params)
	if errRes != nil {
		return errRes, nil
	}
	defer t.Begin()()
	page := t.Page()
	if page == nil {
		return failure("no page open for task")
	}

	value, ok := getString(params, "value")
	if !ok {
		return failure("value parameter required")
	}
	selector, _ := getString(params, "selector")
	label, _ := getString(params, "label")
	placeholder, _ := getString(params, "placeholder")
	name, _ := getString(params, "name")

	target := strings.TrimSpace(strings.Join([]string{selector, label, placeholder, name}, " "))
	decision := p.guard(t, fw.Action{
		Type:   "fill",
		Domain: hostOf(page.URL()),
		Target: target,
		Value:  value,
	})
	if !decision.Approved {
		return rejected(decision)
	}

	start := time.Now()
	result := p.exec.Fill(ctx, page, executor.FillTarget{
		Selector:    selector,
		Label:       label,
		Placeholder: placeholder,
		Name:        name,
		Value:       value,
	})
	p.recordAction(ctx, "fill", result.Method, result.Success, result.MethodIndex, start)
	if !result.Success {
		return failure(result.Error)
	}

	return success(map[string]interface{}{
		"method":       result.Method,
		"method_index": result.MethodIndex,
	})
}

func (p *Provider) click(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	t, errRes := p.lookup(params)
	if errRes != nil {
		return errRes, nil
	}
	defer t.Begin()()
	page := t.Page()
	if page == nil {
		return failure("no page open for task")
	}

	selector, _ := getString(params, "selector")
	text, _ := getString(params, "text")

	decision := p.guard(t, fw.Action{
		Type:   "click",
		Domain: hostOf(page.URL()),
		Target: strings.TrimSpace(selector + " " + text),
	})
	if !decision.Approved {
		return rejected(decision)
	}

	start := time.Now()
	result := p.exec.Click(ctx, page, executor.ClickTarget{Selector: selector, Text: text})
	p.recordAction(ctx, "click", result.Method, result.Success, result.MethodIndex, start)
	if !result.Success {
		return failure(result.Error)
	}

	return success(map[string]interface{}{
		"method":       result.Method,
		"method_index": result.MethodIndex,
		"url":          page.URL(),
		"title":        page.Title(),
	})
}

func (p *Provider) close(params map[string]interface{}) (*types.Result, error) {
	t, errRes := p.lookup(params)
	if errRes != nil {
		return errRes, nil
	}
	defer t.Begin()()
	had := t.Page() != nil
	t.AttachPage(nil)
	return success(map[string]interface{}{"closed": had})
}

func (p *Provider) recordAction(ctx context.Context, verb, method string, success bool, rank int, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordAction(verb, success, rank, time.Since(start))
	}
	p.log.Info("action executed",
		zap.String("verb", verb),
		zap.String("method", method),
		zap.Bool("success", success),
		zap.Duration("duration", time.Since(start)),
		zap.String("trace", tracing.FormatTrace(tracing.GetTraceID(ctx), tracing.GetSpanID(ctx))),
	)
}

// rejected maps a firewall refusal onto a failed result carrying the
// machine-readable code.
func rejected(decision *fw.Decision) (*types.Result, error) {
	msg := fmt.Sprintf("action rejected: %s", decision.Reason)
	return &types.Result{
		Success: false,
		Error:   &msg,
		Data: map[string]interface{}{
			"approved": false,
			"code":     decision.Code,
			"reason":   decision.Reason,
		},
	}, nil
}

// hostOf extracts the hostname for domain checks, empty when unparseable.
func hostOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
