package executor

import (
	"context"
	"fmt"
)

// ClickTarget describes the control a click action should activate.
type ClickTarget struct {
	Selector string `json:"selector,omitempty"`
	Text     string `json:"text,omitempty"`
}

// ClickResult reports the outcome of a click pipeline run.
type ClickResult struct {
	Success     bool   `json:"success"`
	Method      string `json:"method,omitempty"`
	MethodIndex int    `json:"method_index,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Click activates the control described by target, preferring precise
// addressing over text matching over positional guessing.
func (e *Executor) Click(ctx context.Context, page Page, target ClickTarget) ClickResult {
	strategies := e.clickStrategies(page, target)

	method, rank, ok := e.runPipeline(ctx, "click", strategies)
	if !ok {
		return ClickResult{
			Success: false,
			Error: fmt.Sprintf("click failed after %d strategies (selector=%q text=%q)",
				len(strategies), target.Selector, target.Text),
		}
	}
	return ClickResult{Success: true, Method: method, MethodIndex: rank}
}

func (e *Executor) clickStrategies(page Page, t ClickTarget) []strategy {
	return []strategy{
		{name: "css_selector", run: func(ctx context.Context) (bool, error) {
			if t.Selector == "" {
				return false, nil
			}
			el, err := page.Query(ctx, t.Selector)
			if err != nil {
				return false, err
			}
			return true, el.Click(ctx)
		}},
		{name: "control_text", run: func(ctx context.Context) (bool, error) {
			if t.Text == "" {
				return false, nil
			}
			els, err := page.QueryAll(ctx, `button, a, input[type="submit"], input[type="button"]`)
			if err != nil {
				return false, err
			}
			for _, el := range els {
				text, err := el.Text(ctx)
				if err == nil && containsFold(text, t.Text) {
					return true, el.Click(ctx)
				}
				val, err := el.Attr(ctx, "value")
				if err == nil && val != "" && containsFold(val, t.Text) {
					return true, el.Click(ctx)
				}
			}
			return false, nil
		}},
		{name: "submit_control", run: func(ctx context.Context) (bool, error) {
			// Speculative: assume the intended control is the page's
			// primary submit when text matching found nothing.
			if t.Text == "" {
				return false, nil
			}
			el, err := page.Query(ctx, `button[type="submit"], input[type="submit"]`)
			if err != nil {
				return false, err
			}
			return true, el.Click(ctx)
		}},
	}
}
