package executor

import (
	"context"
	"strings"
	"testing"
)

func TestNavigateDirectURL(t *testing.T) {
	page := newFakePage()

	result := newExecutor().Navigate(context.Background(), page, NavigateTarget{URL: "https://example.com/search"})

	if !result.Success {
		t.Fatalf("Navigate failed: %s", result.Error)
	}
	if result.Method != "direct_url" || result.MethodIndex != 1 {
		t.Errorf("Expected direct_url rank 1, got %s rank %d", result.Method, result.MethodIndex)
	}
	if page.url != "https://example.com/search" {
		t.Errorf("Page landed on %q", page.url)
	}
}

func TestNavigateBareHostGetsHTTPS(t *testing.T) {
	page := newFakePage()

	result := newExecutor().Navigate(context.Background(), page, NavigateTarget{URL: "example.com"})

	if !result.Success {
		t.Fatalf("Navigate failed: %s", result.Error)
	}
	if result.Method != "https_scheme" || result.MethodIndex != 2 {
		t.Errorf("Expected https_scheme rank 2, got %s rank %d", result.Method, result.MethodIndex)
	}
	if page.url != "https://example.com" {
		t.Errorf("Page landed on %q", page.url)
	}
}

func TestNavigateEmptyURLExhausts(t *testing.T) {
	page := newFakePage()

	result := newExecutor().Navigate(context.Background(), page, NavigateTarget{})

	if result.Success {
		t.Fatal("Expected failure for empty URL")
	}
	if !strings.Contains(result.Error, "3 strategies") {
		t.Errorf("Expected error naming attempted strategy count, got %q", result.Error)
	}
}

// Landing on a different host than requested is tolerated; redirects do
// that legitimately.
func TestNavigateHostMismatchStillSucceeds(t *testing.T) {
	page := newFakePage()
	page.url = "https://consent.example.org/gate"
	page.navErr = nil

	redirecting := &redirectPage{fakePage: page, landOn: "https://consent.example.org/gate"}

	result := newExecutor().Navigate(context.Background(), redirecting, NavigateTarget{URL: "https://example.com"})

	if !result.Success {
		t.Fatalf("Navigate failed on redirect: %s", result.Error)
	}
}

// redirectPage always lands on a fixed URL regardless of the request.
type redirectPage struct {
	*fakePage
	landOn string
}

func (p *redirectPage) Navigate(_ context.Context, _ string) error {
	p.url = p.landOn
	return nil
}
