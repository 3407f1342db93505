package executor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// FillTarget describes the field and value for a fill action. Any
// combination of the addressing hints may be set; strategies use whichever
// they need.
type FillTarget struct {
	Selector    string `json:"selector,omitempty"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Name        string `json:"name,omitempty"`
	Value       string `json:"value"`
}

// FillResult reports the outcome of a fill pipeline run. Method and
// MethodIndex identify the winning strategy and its 1-based rank.
type FillResult struct {
	Success     bool   `json:"success"`
	Method      string `json:"method,omitempty"`
	MethodIndex int    `json:"method_index,omitempty"`
	Error       string `json:"error,omitempty"`
}

// textInputTypes are the input types a positional guess may write into.
var textInputTypes = map[string]bool{
	"":       true,
	"text":   true,
	"email":  true,
	"search": true,
	"tel":    true,
	"url":    true,
	"number": true,
}

// keywordTypes maps descriptor keywords to typed-input selectors for the
// most speculative addressing strategy.
var keywordTypes = []struct {
	keyword  string
	selector string
}{
	{"email", `input[type="email"]`},
	{"password", `input[type="password"]`},
	{"phone", `input[type="tel"]`},
	{"tel", `input[type="tel"]`},
	{"search", `input[type="search"]`},
	{"query", `input[type="search"]`},
	{"website", `input[type="url"]`},
	{"url", `input[type="url"]`},
	{"date", `input[type="date"]`},
}

// Fill writes target.Value into the field described by target, trying each
// addressing strategy in rank order until one succeeds and is verified.
func (e *Executor) Fill(ctx context.Context, page Page, target FillTarget) FillResult {
	strategies := e.fillStrategies(page, target)

	method, rank, ok := e.runPipeline(ctx, "fill", strategies)
	if !ok {
		return FillResult{
			Success: false,
			Error: fmt.Sprintf(
				"fill failed after %d strategies (selector=%q label=%q placeholder=%q name=%q)",
				len(strategies), target.Selector, target.Label, target.Placeholder, target.Name),
		}
	}

	e.verifyFill(ctx, page, target, method)
	return FillResult{Success: true, Method: method, MethodIndex: rank}
}

// verifyFill re-reads the field when a precise locator exists. A mismatch
// is logged but still treated as success: the write call itself did not
// error, and some frameworks defer echoing the value.
func (e *Executor) verifyFill(ctx context.Context, page Page, target FillTarget, method string) {
	if target.Selector == "" {
		return
	}
	el, err := page.Query(ctx, target.Selector)
	if err != nil {
		return
	}
	got, err := el.Value(ctx)
	if err != nil {
		return
	}
	if got != target.Value {
		e.log.Warn("Fill read-back mismatch tolerated",
			zap.String("strategy", method),
			zap.String("selector", target.Selector),
			zap.String("expected", target.Value),
			zap.String("actual", got))
	}
}

func (e *Executor) fillStrategies(page Page, t FillTarget) []strategy {
	return []strategy{
		{name: "css_selector", run: func(ctx context.Context) (bool, error) {
			if t.Selector == "" {
				return false, nil
			}
			el, err := page.Query(ctx, t.Selector)
			if err != nil {
				return false, err
			}
			return true, el.Fill(ctx, t.Value)
		}},
		{name: "name_attr", run: func(ctx context.Context) (bool, error) {
			if t.Name == "" {
				return false, nil
			}
			sel := fmt.Sprintf(`input[name=%q], textarea[name=%q], select[name=%q]`, t.Name, t.Name, t.Name)
			el, err := page.Query(ctx, sel)
			if err != nil {
				return false, err
			}
			return true, el.Fill(ctx, t.Value)
		}},
		{name: "label_text", run: func(ctx context.Context) (bool, error) {
			if t.Label == "" {
				return false, nil
			}
			labels, err := page.QueryAll(ctx, "label")
			if err != nil {
				return false, err
			}
			for _, label := range labels {
				text, err := label.Text(ctx)
				if err != nil || !containsFold(text, t.Label) {
					continue
				}
				forID, err := label.Attr(ctx, "for")
				if err != nil || forID == "" {
					continue
				}
				el, err := page.Query(ctx, "#"+forID)
				if err != nil {
					continue
				}
				return true, el.Fill(ctx, t.Value)
			}
			return false, nil
		}},
		{name: "placeholder", run: func(ctx context.Context) (bool, error) {
			if t.Placeholder == "" {
				return false, nil
			}
			els, err := page.QueryAll(ctx, "input[placeholder], textarea[placeholder]")
			if err != nil {
				return false, err
			}
			for _, el := range els {
				ph, err := el.Attr(ctx, "placeholder")
				if err != nil || !containsFold(ph, t.Placeholder) {
					continue
				}
				return true, el.Fill(ctx, t.Value)
			}
			return false, nil
		}},
		{name: "xpath", run: func(ctx context.Context) (bool, error) {
			xp, ok := page.(XPathQuerier)
			if !ok {
				return false, nil
			}
			var expr string
			switch {
			case t.Name != "":
				expr = fmt.Sprintf(`//*[self::input or self::textarea or self::select][@name=%q]`, t.Name)
			case t.Label != "":
				expr = fmt.Sprintf(`//input[@id=//label[contains(., %q)]/@for]`, t.Label)
			default:
				return false, nil
			}
			el, err := xp.QueryXPath(ctx, expr)
			if err != nil {
				return false, err
			}
			return true, el.Fill(ctx, t.Value)
		}},
		{name: "keyword_guess", run: func(ctx context.Context) (bool, error) {
			hint := strings.ToLower(t.Label + " " + t.Name + " " + t.Placeholder)
			if strings.TrimSpace(hint) == "" {
				return false, nil
			}
			for _, kt := range keywordTypes {
				if !strings.Contains(hint, kt.keyword) {
					continue
				}
				el, err := page.Query(ctx, kt.selector)
				if err != nil {
					continue
				}
				return true, el.Fill(ctx, t.Value)
			}
			return false, nil
		}},
		{name: "first_text_input", run: func(ctx context.Context) (bool, error) {
			// Positional guess of last resort; only runs when the planner
			// supplied at least one addressing hint that everything above
			// failed to resolve.
			if t.Label == "" && t.Name == "" && t.Placeholder == "" {
				return false, nil
			}
			els, err := page.QueryAll(ctx, "input, textarea")
			if err != nil {
				return false, err
			}
			for _, el := range els {
				typ, err := el.Attr(ctx, "type")
				if err != nil || !textInputTypes[strings.ToLower(typ)] {
					continue
				}
				return true, el.Fill(ctx, t.Value)
			}
			return false, nil
		}},
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
