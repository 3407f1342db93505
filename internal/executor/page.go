package executor

import "context"

// Page is the executor's handle to a live document, supplied by the
// browser-automation collaborator. Implementations must keep Query cheap;
// strategies call it repeatedly while probing.
type Page interface {
	// Query returns the first element matching a CSS selector, or an error
	// when nothing matches.
	Query(ctx context.Context, selector string) (Element, error)

	// QueryAll returns every element matching a CSS selector.
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// Navigate loads a new document into the page.
	Navigate(ctx context.Context, url string) error

	// URL returns the current document location, empty when nothing loaded.
	URL() string
}

// Element is a single addressable node on a Page.
type Element interface {
	// Fill writes a value into the element.
	Fill(ctx context.Context, value string) error

	// Click activates the element.
	Click(ctx context.Context) error

	// Value reads the element's current value.
	Value(ctx context.Context) (string, error)

	// Text returns the element's visible text content.
	Text(ctx context.Context) (string, error)

	// Attr returns an attribute value, empty when absent.
	Attr(ctx context.Context, name string) (string, error)
}

// XPathQuerier is implemented by pages that support XPath addressing.
// The XPath fill strategy checks for it and skips itself otherwise.
type XPathQuerier interface {
	QueryXPath(ctx context.Context, expr string) (Element, error)
}
