package parser

import (
	"fmt"
	"regexp"
	"strings"
)

const coverBaseURL = "http://books.google.com/books"

var idPattern = regexp.MustCompile(`[?&]?id=([^&]+)`)

// BookID returns the book identifier from a string that is either a bare
// book code or a full viewer URL carrying an id query parameter.
func BookID(s string) (string, error) {
	if !strings.Contains(s, "/") {
		return s, nil
	}

	match := idPattern.FindStringSubmatch(s)
	if match == nil {
		return "", newParseError("cannot extract id query string from URL: %s", s)
	}
	return match[1], nil
}

// CoverURL builds the front-cover page URL for a book. The cover page embeds
// the metadata for every page of the book.
func CoverURL(bookID string) string {
	return fmt.Sprintf("%s?id=%s&hl=en&printsec=frontcover&source=gbs_ge_summary_r&cad=0",
		coverBaseURL, bookID)
}

// PageURL substitutes a page identifier into the book's URL prefix template.
func PageURL(prefix, pageID string) string {
	return prefix + "&pg=" + pageID
}
