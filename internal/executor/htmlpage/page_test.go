package htmlpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webpilot/backend/internal/executor"
	"github.com/webpilot/backend/internal/infrastructure/config"
	"github.com/webpilot/backend/internal/infrastructure/logging"
	"github.com/webpilot/backend/internal/infrastructure/webclient"
)

const formHTML = `<html>
<head><title>Booking</title></head>
<body>
<script>alert("gone")</script>
<form onsubmit="steal()">
  <label for="email">Email address</label>
  <input type="email" id="email" name="email" placeholder="you@example.com">
  <textarea name="notes"></textarea>
  <select name="passengers">
    <option value="1">1</option>
    <option value="2">2</option>
  </select>
  <button type="submit" onclick="hijack()">Book now</button>
</form>
<a href="/terms">Terms</a>
</body>
</html>`

func mustLoad(t *testing.T, html, url string) *Document {
	t.Helper()
	doc, err := NewFromHTML(html, url)
	require.NoError(t, err)
	return doc
}

func TestLoadStripsScriptsAndHandlers(t *testing.T) {
	doc := mustLoad(t, formHTML, "https://example.com/book")
	ctx := context.Background()

	_, err := doc.Query(ctx, "script")
	assert.Error(t, err, "scripts must not survive parsing")

	form, err := doc.Query(ctx, "form")
	require.NoError(t, err)
	onsubmit, err := form.Attr(ctx, "onsubmit")
	require.NoError(t, err)
	assert.Empty(t, onsubmit)

	button, err := doc.Query(ctx, "button")
	require.NoError(t, err)
	onclick, err := button.Attr(ctx, "onclick")
	require.NoError(t, err)
	assert.Empty(t, onclick)
}

func TestTitleAndURL(t *testing.T) {
	doc := mustLoad(t, formHTML, "https://example.com/book")
	assert.Equal(t, "Booking", doc.Title())
	assert.Equal(t, "https://example.com/book", doc.URL())
}

func TestFillInputAndReadBack(t *testing.T) {
	doc := mustLoad(t, formHTML, "https://example.com/book")
	ctx := context.Background()

	el, err := doc.Query(ctx, "#email")
	require.NoError(t, err)
	require.NoError(t, el.Fill(ctx, "a@b.dev"))

	got, err := el.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.dev", got)
}

func TestFillTextareaAndSelect(t *testing.T) {
	doc := mustLoad(t, formHTML, "https://example.com/book")
	ctx := context.Background()

	notes, err := doc.Query(ctx, `textarea[name="notes"]`)
	require.NoError(t, err)
	require.NoError(t, notes.Fill(ctx, "window seat"))
	got, err := notes.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, "window seat", got)

	pax, err := doc.Query(ctx, `select[name="passengers"]`)
	require.NoError(t, err)
	require.NoError(t, pax.Fill(ctx, "2"))
	got, err = pax.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	assert.Error(t, pax.Fill(ctx, "9"), "unknown option must not silently succeed")
}

func TestQueryAll(t *testing.T) {
	doc := mustLoad(t, formHTML, "https://example.com/book")

	labels, err := doc.QueryAll(context.Background(), "label")
	require.NoError(t, err)
	require.Len(t, labels, 1)

	text, err := labels[0].Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Email address", text)
}

func TestQueryXPathResolvesByName(t *testing.T) {
	doc := mustLoad(t, formHTML, "https://example.com/book")
	ctx := context.Background()

	el, err := doc.QueryXPath(ctx, `//*[self::input or self::textarea or self::select][@name="notes"]`)
	require.NoError(t, err)
	require.NoError(t, el.Fill(ctx, "aisle seat"))

	same, err := doc.Query(ctx, `textarea[name="notes"]`)
	require.NoError(t, err)
	got, err := same.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, "aisle seat", got)
}

func TestNavigateFetchesAndSanitizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Remote</title></head><body><script>x()</script><p>hi</p></body></html>`))
	}))
	defer srv.Close()

	client := webclient.New(config.WebConfig{TimeoutSeconds: 5})
	doc := New(client, logging.NewNop())

	require.NoError(t, doc.Navigate(context.Background(), srv.URL))
	assert.Equal(t, "Remote", doc.Title())

	_, err := doc.Query(context.Background(), "script")
	assert.Error(t, err)
}

func TestClickAnchorNavigates(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Home</title></head><body><a id="next" href="/terms">Terms</a></body></html>`))
	})
	mux.HandleFunc("/terms", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Terms</title></head><body></body></html>`))
	})

	client := webclient.New(config.WebConfig{TimeoutSeconds: 5})
	doc := New(client, logging.NewNop())
	ctx := context.Background()
	require.NoError(t, doc.Navigate(ctx, srv.URL))

	link, err := doc.Query(ctx, "#next")
	require.NoError(t, err)
	require.NoError(t, link.Click(ctx))

	assert.Equal(t, "Terms", doc.Title())
	assert.Equal(t, srv.URL+"/terms", doc.URL())
}

// Compile-time checks that Document satisfies the executor contracts.
var (
	_ executor.Page         = (*Document)(nil)
	_ executor.XPathQuerier = (*Document)(nil)
)
