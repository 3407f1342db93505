// Package htmlpage models a fetched web page as a queryable, fillable
// document. It is the concrete page implementation behind agent actions:
// goquery for CSS addressing, htmlquery for XPath fallback, and script
// stripping on every load.
package htmlpage
