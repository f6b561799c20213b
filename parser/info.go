package parser

import (
	"bytes"
	"encoding/json"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// defaultEncoding is assumed when the cover page carries no encoding
// declaration. Older viewer revisions served latin-9 without announcing it.
const defaultEncoding = "iso8859-15"

var (
	ocRunPattern    = regexp.MustCompile(`_OC_Run\((.*?)\);`)
	byPrefixPattern = regexp.MustCompile(`^By\s+`)
)

// BookInfo holds the document-level metadata extracted from a cover page.
// It is computed once per book and read-only thereafter.
type BookInfo struct {
	// Prefix is the URL template shared by every page of the book; a page
	// identifier is appended to it to address that page.
	Prefix string

	// PageIDs lists the per-page tokens in reading order.
	PageIDs []string

	Title       string
	Attribution string

	// MaxWidth and MaxHeight describe the largest rendering the service
	// offers for this book.
	MaxWidth  int
	MaxHeight int
}

// pagesPayload is the first argument of the embedded _OC_Run call.
type pagesPayload struct {
	Page *[]struct {
		PID   string `json:"pid"`
		Order int    `json:"order"`
	} `json:"page"`
	Prefix string `json:"prefix"`
}

// bookPayload is the second argument of the embedded _OC_Run call.
type bookPayload struct {
	Title                    string `json:"title"`
	Attribution              string `json:"attribution"`
	MaxResolutionImageWidth  int    `json:"max_resolution_image_width"`
	MaxResolutionImageHeight int    `json:"max_resolution_image_height"`
}

// DetectEncoding returns the text encoding of the data blob embedded in a
// cover page. The page declares it in an input field named "ie"; pages
// without the field fall back to the legacy default.
func DetectEncoding(coverHTML []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(coverHTML))
	if err != nil {
		return "", newParseError("cannot scan cover page for encoding: %v", err)
	}

	tag := doc.Find(`input[name="ie"]`).First()
	if tag.Length() == 0 {
		return defaultEncoding, nil
	}

	value, ok := tag.Attr("value")
	if !ok {
		return "", newParseError("cannot find encoding info")
	}
	return strings.ToLower(value), nil
}

// ParseBookInfo extracts the book metadata from a cover page: the page URL
// prefix, the ordered page identifiers, title, attribution and the maximum
// available resolution. The embedded _OC_Run call is located by pattern
// match on the raw bytes, decoded with the page's declared encoding and then
// parsed as JSON.
func ParseBookInfo(coverHTML []byte) (*BookInfo, error) {
	encodingName, err := DetectEncoding(coverHTML)
	if err != nil {
		return nil, err
	}

	match := ocRunPattern.FindSubmatch(coverHTML)
	if match == nil {
		return nil, newParseError("no JS function OC_Run() found in HTML")
	}

	args, err := decodeBlob(match[1], encodingName)
	if err != nil {
		return nil, err
	}

	var rawArgs []json.RawMessage
	wrapped := append(append([]byte("["), args...), ']')
	if err := json.Unmarshal(wrapped, &rawArgs); err != nil {
		return nil, newParseError("malformed OC_Run() arguments: %v", err)
	}
	if len(rawArgs) < 2 {
		return nil, newParseError("expecting at least 2 arguments in function OC_Run()")
	}

	var pages pagesPayload
	if err := json.Unmarshal(rawArgs[0], &pages); err != nil {
		return nil, newParseError("malformed page info: %v", err)
	}
	if pages.Page == nil {
		return nil, newParseError("cannot find page info")
	}

	entries := *pages.Page
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})
	pageIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		pageIDs = append(pageIDs, entry.PID)
	}
	if len(pageIDs) == 0 {
		return nil, newParseError("no page ids found")
	}

	var book bookPayload
	if err := json.Unmarshal(rawArgs[1], &book); err != nil {
		return nil, newParseError("malformed book info: %v", err)
	}

	attribution := byPrefixPattern.ReplaceAllString(book.Attribution, "")

	return &BookInfo{
		Prefix:      pages.Prefix,
		PageIDs:     pageIDs,
		Title:       html.UnescapeString(book.Title),
		Attribution: html.UnescapeString(attribution),
		MaxWidth:    book.MaxResolutionImageWidth,
		MaxHeight:   book.MaxResolutionImageHeight,
	}, nil
}

// decodeBlob converts raw blob bytes to UTF-8 using a named encoding.
func decodeBlob(raw []byte, encodingName string) ([]byte, error) {
	enc, _ := charset.Lookup(encodingName)
	if enc == nil {
		return nil, newParseError("unknown encoding: %s", encodingName)
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return nil, newParseError("cannot decode blob as %s: %v", encodingName, err)
	}
	return decoded, nil
}
