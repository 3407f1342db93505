package executor

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// NavigateTarget describes where a navigate action should land.
type NavigateTarget struct {
	URL string `json:"url"`
}

// NavigateResult reports the outcome of a navigate pipeline run.
type NavigateResult struct {
	Success     bool   `json:"success"`
	Method      string `json:"method,omitempty"`
	MethodIndex int    `json:"method_index,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Navigate loads target.URL, retrying with scheme normalization when the
// planner supplied a bare hostname or path.
func (e *Executor) Navigate(ctx context.Context, page Page, target NavigateTarget) NavigateResult {
	strategies := e.navigateStrategies(page, target)

	method, rank, ok := e.runPipeline(ctx, "navigate", strategies)
	if !ok {
		return NavigateResult{
			Success: false,
			Error:   fmt.Sprintf("navigate failed after %d strategies (url=%q)", len(strategies), target.URL),
		}
	}

	e.verifyNavigate(page, target, method)
	return NavigateResult{Success: true, Method: method, MethodIndex: rank}
}

// verifyNavigate compares the landed host against the requested one.
// Best-effort: redirects legitimately change hosts, so a mismatch is
// logged, not failed.
func (e *Executor) verifyNavigate(page Page, target NavigateTarget, method string) {
	requested, err := url.Parse(normalizeURL(target.URL))
	if err != nil || requested.Host == "" {
		return
	}
	landed, err := url.Parse(page.URL())
	if err != nil {
		return
	}
	if !strings.EqualFold(landed.Host, requested.Host) {
		e.log.Warn("Navigate landed on a different host",
			zap.String("strategy", method),
			zap.String("requested", requested.Host),
			zap.String("landed", landed.Host))
	}
}

func (e *Executor) navigateStrategies(page Page, t NavigateTarget) []strategy {
	return []strategy{
		{name: "direct_url", run: func(ctx context.Context) (bool, error) {
			if t.URL == "" || !strings.Contains(t.URL, "://") {
				return false, nil
			}
			return true, page.Navigate(ctx, t.URL)
		}},
		{name: "https_scheme", run: func(ctx context.Context) (bool, error) {
			if t.URL == "" || strings.Contains(t.URL, "://") {
				return false, nil
			}
			return true, page.Navigate(ctx, "https://"+t.URL)
		}},
		{name: "http_scheme", run: func(ctx context.Context) (bool, error) {
			if t.URL == "" || strings.Contains(t.URL, "://") {
				return false, nil
			}
			return true, page.Navigate(ctx, "http://"+t.URL)
		}},
	}
}

func normalizeURL(raw string) string {
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}
