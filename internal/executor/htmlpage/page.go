package htmlpage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/webpilot/backend/internal/executor"
	"github.com/webpilot/backend/internal/infrastructure/logging"
	"github.com/webpilot/backend/internal/infrastructure/webclient"
)

// Document is a static-HTML page model backing executor actions. Fetched
// markup is sanitized before any strategy can touch it: scripts and inline
// event handlers never survive parsing.
type Document struct {
	client *webclient.Client
	log    *logging.Logger

	mu    sync.RWMutex
	doc   *goquery.Document
	url   string
	title string
}

// New creates an empty document that navigates through client.
func New(client *webclient.Client, log *logging.Logger) *Document {
	if log == nil {
		log = logging.NewNop()
	}
	return &Document{client: client, log: log}
}

// NewFromHTML creates a document from markup already in hand, for tests
// and for callers that fetch out of band.
func NewFromHTML(html, pageURL string) (*Document, error) {
	d := &Document{log: logging.NewNop()}
	if err := d.load(html, pageURL); err != nil {
		return nil, err
	}
	return d, nil
}

// Navigate fetches rawURL and replaces the document's content.
func (d *Document) Navigate(ctx context.Context, rawURL string) error {
	if d.client == nil {
		return fmt.Errorf("document has no fetch client")
	}
	page, err := d.client.Fetch(ctx, rawURL)
	if err != nil {
		return err
	}
	if page.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d fetching %s", page.StatusCode, rawURL)
	}
	if len(page.Body) == 0 {
		return fmt.Errorf("empty response body from %s", rawURL)
	}
	return d.load(string(page.Body), page.URL)
}

// load parses and sanitizes markup, then swaps it in.
func (d *Document) load(html, pageURL string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script").Remove()
	doc.Find("[onclick]").RemoveAttr("onclick")
	doc.Find("[onload]").RemoveAttr("onload")
	doc.Find("[onerror]").RemoveAttr("onerror")
	doc.Find("[onsubmit]").RemoveAttr("onsubmit")

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		if parsed, err := url.Parse(pageURL); err == nil {
			title = parsed.Host
		}
	}

	d.mu.Lock()
	d.doc = doc
	d.url = pageURL
	d.title = title
	d.mu.Unlock()
	return nil
}

// URL returns the current page URL.
func (d *Document) URL() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.url
}

// Title returns the current page title.
func (d *Document) Title() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.title
}

// Query returns the first element matching a CSS selector.
func (d *Document) Query(_ context.Context, selector string) (executor.Element, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.doc == nil {
		return nil, fmt.Errorf("no page loaded")
	}
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return &element{sel: sel, doc: d}, nil
}

// QueryAll returns every element matching a CSS selector.
func (d *Document) QueryAll(_ context.Context, selector string) ([]executor.Element, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.doc == nil {
		return nil, fmt.Errorf("no page loaded")
	}
	var out []executor.Element
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &element{sel: s, doc: d})
	})
	return out, nil
}

// QueryXPath resolves an XPath expression against the current markup. The
// matched node is re-located in the live document by id or name so writes
// land on the goquery tree.
func (d *Document) QueryXPath(ctx context.Context, expr string) (executor.Element, error) {
	d.mu.RLock()
	doc := d.doc
	d.mu.RUnlock()
	if doc == nil {
		return nil, fmt.Errorf("no page loaded")
	}

	markup, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML for xpath: %w", err)
	}
	node, err := htmlquery.Query(root, expr)
	if err != nil {
		return nil, fmt.Errorf("bad xpath %q: %w", expr, err)
	}
	if node == nil {
		return nil, fmt.Errorf("no node matches %q", expr)
	}

	if id := htmlquery.SelectAttr(node, "id"); id != "" {
		return d.Query(ctx, "#"+id)
	}
	if name := htmlquery.SelectAttr(node, "name"); name != "" {
		return d.Query(ctx, fmt.Sprintf(`%s[name=%q]`, node.Data, name))
	}
	return nil, fmt.Errorf("xpath match has no id or name to address it by")
}

type element struct {
	sel *goquery.Selection
	doc *Document
}

// Fill writes value into the element. Inputs carry it in the value
// attribute; textareas carry it as text; selects mark the matching option.
func (e *element) Fill(_ context.Context, value string) error {
	switch goquery.NodeName(e.sel) {
	case "textarea":
		e.sel.SetText(value)
	case "select":
		matched := false
		e.sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
			v, _ := opt.Attr("value")
			if v == value || strings.TrimSpace(opt.Text()) == value {
				opt.SetAttr("selected", "selected")
				matched = true
			} else {
				opt.RemoveAttr("selected")
			}
		})
		if !matched {
			return fmt.Errorf("no option matches %q", value)
		}
	default:
		e.sel.SetAttr("value", value)
	}
	return nil
}

// Click activates the element. Anchors navigate; everything else records
// the activation, which is all a static page model can do.
func (e *element) Click(ctx context.Context) error {
	if goquery.NodeName(e.sel) == "a" {
		href, ok := e.sel.Attr("href")
		if ok && href != "" && !strings.HasPrefix(href, "#") {
			return e.doc.Navigate(ctx, e.doc.resolve(href))
		}
	}
	e.sel.SetAttr("data-activated", "true")
	return nil
}

// Value reads the element's current value.
func (e *element) Value(_ context.Context) (string, error) {
	switch goquery.NodeName(e.sel) {
	case "textarea":
		return e.sel.Text(), nil
	case "select":
		selected := e.sel.Find("option[selected]").First()
		if selected.Length() == 0 {
			return "", nil
		}
		if v, ok := selected.Attr("value"); ok {
			return v, nil
		}
		return strings.TrimSpace(selected.Text()), nil
	default:
		v, _ := e.sel.Attr("value")
		return v, nil
	}
}

// Text returns the element's rendered text.
func (e *element) Text(_ context.Context) (string, error) {
	return strings.TrimSpace(e.sel.Text()), nil
}

// Attr returns the named attribute, empty when absent.
func (e *element) Attr(_ context.Context, name string) (string, error) {
	v, _ := e.sel.Attr(name)
	return v, nil
}

// resolve makes href absolute against the current page URL.
func (d *Document) resolve(href string) string {
	d.mu.RLock()
	base := d.url
	d.mu.RUnlock()

	parsedBase, err := url.Parse(base)
	if err != nil {
		return href
	}
	parsedRef, err := url.Parse(href)
	if err != nil {
		return href
	}
	return parsedBase.ResolveReference(parsedRef).String()
}
