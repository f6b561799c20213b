package downloader

import (
	"context"
	"fmt"
	"log"

	"tosho/parser"
)

// PageResult is the outcome of resolving a single page. Image is nil when
// the page is access-restricted; consumers must skip such pages rather than
// treat them as failures.
type PageResult struct {
	Info   *parser.BookInfo
	Index  int
	PageID string
	Image  []byte
}

// PageIterator walks a range of a book's pages lazily, resolving and
// downloading one page image per Next call. The sequence is forward-only
// and preserves page order; restarting requires a new iterator.
type PageIterator struct {
	info       *parser.BookInfo
	pages      Fetcher
	images     Fetcher
	restricted parser.RestrictedMatcher
	next       int
	end        int
}

// NewPageIterator creates an iterator over the half-open 0-based page range
// [start, end) of info.PageIDs. end < 0 means "to the end". pages fetches
// the per-page HTML; images fetches the final image bytes. A nil restricted
// matcher falls back to parser.RestrictedLogoMatcher.
func NewPageIterator(info *parser.BookInfo, pages, images Fetcher, start, end int, restricted parser.RestrictedMatcher) *PageIterator {
	if start < 0 {
		start = 0
	}
	if end < 0 || end > len(info.PageIDs) {
		end = len(info.PageIDs)
	}
	if restricted == nil {
		restricted = parser.RestrictedLogoMatcher
	}

	return &PageIterator{
		info:       info,
		pages:      pages,
		images:     images,
		restricted: restricted,
		next:       start,
		end:        end,
	}
}

// HasNext reports whether another page remains in the range.
func (it *PageIterator) HasNext() bool {
	return it.next < it.end
}

// NextIndex returns the 0-based index of the upcoming page.
func (it *PageIterator) NextIndex() int {
	return it.next
}

// Remaining returns the number of pages left in the range.
func (it *PageIterator) Remaining() int {
	if it.next >= it.end {
		return 0
	}
	return it.end - it.next
}

// Skip advances past the upcoming page without fetching it.
func (it *PageIterator) Skip() {
	if it.HasNext() {
		it.next++
	}
}

// Next resolves the next page in the range: one HTML fetch, and for
// non-restricted pages one image fetch at the book's maximum width.
func (it *PageIterator) Next(ctx context.Context) (*PageResult, error) {
	if !it.HasNext() {
		return nil, fmt.Errorf("page iterator exhausted")
	}

	index := it.next
	it.next++
	pageID := it.info.PageIDs[index]

	pageHTML, err := it.pages.Fetch(ctx, parser.PageURL(it.info.Prefix, pageID))
	if err != nil {
		return nil, err
	}

	imageURL, isRestricted, err := parser.ImageURLFromPage(string(pageHTML), it.restricted)
	if err != nil {
		return nil, err
	}

	result := &PageResult{
		Info:   it.info,
		Index:  index,
		PageID: pageID,
	}

	if isRestricted {
		log.Printf("[Pages] Page %d (%s) is restricted, skipping image", index+1, pageID)
		return result, nil
	}

	image, err := it.images.Fetch(ctx, parser.RewriteImageWidth(imageURL, it.info.MaxWidth))
	if err != nil {
		return nil, err
	}
	result.Image = image

	return result, nil
}
