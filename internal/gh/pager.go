package gh

import (
	"context"
	"iter"

	"github.com/h0rv/ghp-action/internal/domain"
)

// DefaultMaxPages caps a Pager built without an explicit limit.
const DefaultMaxPages = 10

// PageFunc fetches the page that starts after cursor ("" for the first page).
type PageFunc func(ctx context.Context, cursor string) (domain.PullRequestPage, error)

// Pager walks a cursor-paginated pull request listing one page at a time.
// A page is only requested after the previous one has been decoded, and the
// walk stops after maxPages pages even if the API reports more.
type Pager struct {
	fetch    PageFunc
	maxPages int

	cursor  string
	fetched int
	done    bool
}

// NewPager creates a Pager. A non-positive maxPages means DefaultMaxPages.
func NewPager(fetch PageFunc, maxPages int) *Pager {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Pager{fetch: fetch, maxPages: maxPages}
}

// Next fetches the next page. ok is false once the listing is exhausted or
// the page cap has been reached.
func (p *Pager) Next(ctx context.Context) (page domain.PullRequestPage, ok bool, err error) {
	if p.done || p.fetched >= p.maxPages {
		return domain.PullRequestPage{}, false, nil
	}

	page, err = p.fetch(ctx, p.cursor)
	if err != nil {
		p.done = true
		return domain.PullRequestPage{}, false, err
	}

	p.fetched++
	p.cursor = page.EndCursor
	if !page.HasNextPage || page.EndCursor == "" {
		p.done = true
	}

	return page, true, nil
}

// Reset rewinds the pager to the first page.
func (p *Pager) Reset() {
	p.cursor = ""
	p.fetched = 0
	p.done = false
}

// Pages returns how many pages have been fetched since the last Reset.
func (p *Pager) Pages() int {
	return p.fetched
}

// All rewinds the pager and yields every page in order. Iteration stops at
// the first error, which is yielded with an empty page.
func (p *Pager) All(ctx context.Context) iter.Seq2[domain.PullRequestPage, error] {
	return func(yield func(domain.PullRequestPage, error) bool) {
		p.Reset()
		for {
			page, ok, err := p.Next(ctx)
			if err != nil {
				yield(domain.PullRequestPage{}, err)
				return
			}
			if !ok {
				return
			}
			if !yield(page, nil) {
				return
			}
		}
	}
}
