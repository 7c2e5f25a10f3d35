// Package document parses dictionary pages into a tree that can be queried by CSS selector.
package document

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Queryable is anything that can be searched with a CSS selector.
// Both a whole Document and a single Element satisfy it.
type Queryable interface {
	Find(selector string) []Element
}

// Document is a parsed markup payload.
type Document struct {
	root *goquery.Selection
}

var (
	_ Queryable = (*Document)(nil)
	_ Queryable = Element{}
)

// Parse parses an HTML payload.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader > %w", err)
	}
	return &Document{root: doc.Selection}, nil
}

// ParseString parses an HTML payload held in memory.
func ParseString(payload string) (*Document, error) {
	return Parse(strings.NewReader(payload))
}

// Find returns every element matching selector in document order.
func (d *Document) Find(selector string) []Element {
	return find(d.root, selector)
}

// Element is a handle to one matched node.
type Element struct {
	selection *goquery.Selection
}

// Find runs a nested query below the element.
func (e Element) Find(selector string) []Element {
	return find(e.selection, selector)
}

// Text returns the inner text with entities decoded.
func (e Element) Text() string {
	return e.selection.Text()
}

// Node returns the underlying html node.
func (e Element) Node() *html.Node {
	return e.selection.Get(0)
}

// First returns the first element of elements, reporting whether there was one.
func First(elements []Element) (Element, bool) {
	if len(elements) == 0 {
		return Element{}, false
	}
	return elements[0], true
}

func find(root *goquery.Selection, selector string) []Element {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		slog.Default().Debug("invalid selector", "selector", selector, "error", err)
		return nil
	}

	matched := root.FindMatcher(matcher)
	elements := make([]Element, 0, matched.Length())
	matched.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, Element{selection: s})
	})
	return elements
}
