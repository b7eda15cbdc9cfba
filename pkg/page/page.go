package page

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is the document accessor the extractor works against. It is the only
// view of a page the rest of the module sees: query by selector, query by
// visible label, trigger a click, and wait for an element to appear within a
// bounded window.
type Page interface {
	Find(selector string) []*Element
	FindByText(selector, label string) *Element
	Click(ctx context.Context, el *Element) error
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (*Element, error)
}

// ErrWaitTimeout is returned by WaitFor when no matching element appeared
// inside the observation window.
var ErrWaitTimeout = fmt.Errorf("timed out waiting for element")

// Element wraps a single matched node.
type Element struct {
	sel *goquery.Selection
}

func (e *Element) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

func (e *Element) Attr(name string) string {
	v, _ := e.sel.Attr(name)
	return v
}

// Find queries within the element's own subtree.
func (e *Element) Find(selector string) []*Element {
	var els []*Element
	e.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		els = append(els, &Element{sel: s})
	})
	return els
}

// Label returns the element's accessible label: aria-label when present,
// visible text otherwise.
func (e *Element) Label() string {
	if v := e.Attr("aria-label"); v != "" {
		return v
	}
	return e.Text()
}

// SnapshotPage is a Page over a parsed HTML document. Click reactions
// registered per selector mutate the document, and WaitFor observes those
// mutations, so a scripted SnapshotPage can stand in for a live page whose
// panels appear asynchronously.
type SnapshotPage struct {
	mu        sync.Mutex
	doc       *goquery.Document
	reactions []reaction
	watchers  []chan struct{}
}

type reaction struct {
	selector string
	fn       func()
}

func NewSnapshotPage(html string) (*SnapshotPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page HTML: %w", err)
	}
	return &SnapshotPage{doc: doc}, nil
}

func (p *SnapshotPage) Find(selector string) []*Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findLocked(selector)
}

func (p *SnapshotPage) findLocked(selector string) []*Element {
	var els []*Element
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		els = append(els, &Element{sel: s})
	})
	return els
}

// FindByText returns the first element matching selector whose accessible
// label contains the given string, case-insensitively.
func (p *SnapshotPage) FindByText(selector, label string) *Element {
	want := strings.ToLower(label)
	for _, el := range p.Find(selector) {
		if strings.Contains(strings.ToLower(el.Label()), want) {
			return el
		}
	}
	return nil
}

// OnClick registers a reaction run whenever a clicked element matches
// selector. Reactions typically call Mutate, directly or after a delay.
func (p *SnapshotPage) OnClick(selector string, fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reactions = append(p.reactions, reaction{selector: selector, fn: fn})
}

// Click triggers the reactions registered for the element. Clicking an
// element with no registered reaction is a no-op, like clicking inert
// markup in a real page.
func (p *SnapshotPage) Click(ctx context.Context, el *Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	var fns []func()
	for _, r := range p.reactions {
		if el.sel.Is(r.selector) {
			fns = append(fns, r.fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

// Mutate applies fn to the document and wakes every pending WaitFor.
func (p *SnapshotPage) Mutate(fn func(doc *goquery.Document)) {
	p.mu.Lock()
	fn(p.doc)
	watchers := p.watchers
	p.watchers = nil
	p.mu.Unlock()

	for _, ch := range watchers {
		close(ch)
	}
}

// SetBody replaces the document body with the given HTML fragment.
func (p *SnapshotPage) SetBody(html string) {
	p.Mutate(func(doc *goquery.Document) {
		doc.Find("body").SetHtml(html)
	})
}

// AppendBody appends an HTML fragment to the document body.
func (p *SnapshotPage) AppendBody(html string) {
	p.Mutate(func(doc *goquery.Document) {
		doc.Find("body").AppendHtml(html)
	})
}

// WaitFor resolves as soon as an element matching selector exists, observing
// document mutations rather than sleeping, and fails with ErrWaitTimeout once
// the window elapses. The context can cut the wait short.
func (p *SnapshotPage) WaitFor(ctx context.Context, selector string, timeout time.Duration) (*Element, error) {
	deadline := time.Now().Add(timeout)

	for {
		p.mu.Lock()
		els := p.findLocked(selector)
		if len(els) > 0 {
			p.mu.Unlock()
			return els[0], nil
		}
		ch := make(chan struct{})
		p.watchers = append(p.watchers, ch)
		p.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrWaitTimeout, selector)
		}

		timer := time.NewTimer(remaining)
		select {
		case <-ch:
			timer.Stop()
		case <-timer.C:
			return nil, fmt.Errorf("%w: %s", ErrWaitTimeout, selector)
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}
