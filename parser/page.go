package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// restrictedLogoMarker appears in the HTML of pages whose image the service
// withholds. This is an undocumented response convention, so the check is
// kept injectable; see RestrictedMatcher.
const restrictedLogoMarker = "/googlebooks/restricted_logo.gif"

var (
	preloadPattern = regexp.MustCompile(`preloadImg\.src = '([^']*?)'`)
	widthPattern   = regexp.MustCompile(`w=(\d+)`)
)

// RestrictedMatcher reports whether a page's HTML marks it as
// access-restricted. A restricted page has no image; it is skipped, not
// treated as an error.
type RestrictedMatcher func(pageHTML string) bool

// RestrictedLogoMatcher is the default matcher, keyed on the placeholder
// logo the service embeds in restricted pages.
func RestrictedLogoMatcher(pageHTML string) bool {
	return strings.Contains(pageHTML, restrictedLogoMarker)
}

// ImageURLFromPage extracts the page image URL from a page's HTML. It
// returns restricted=true (and no URL) when the page is access-limited. A
// page that is neither restricted nor carries an image preload assignment is
// a format violation and yields a ParseError.
func ImageURLFromPage(pageHTML string, restricted RestrictedMatcher) (imageURL string, isRestricted bool, err error) {
	if restricted == nil {
		restricted = RestrictedLogoMatcher
	}
	if restricted(pageHTML) {
		return "", true, nil
	}

	match := preloadPattern.FindStringSubmatch(pageHTML)
	if match == nil {
		return "", false, newParseError("no image found in HTML page")
	}
	return unescapeScriptString(match[1]), false, nil
}

// RewriteImageWidth replaces the w= query parameter of an image URL so the
// service renders the page at the requested width. Height is inferred
// proportionally by the remote endpoint.
func RewriteImageWidth(imageURL string, width int) string {
	return widthPattern.ReplaceAllString(imageURL, "w="+strconv.Itoa(width))
}

// unescapeScriptString resolves the byte escapes the viewer emits inside
// inline script strings: \xHH plus backslash-escaped literals.
func unescapeScriptString(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}

		if s[i+1] == 'x' && i+3 < len(s) {
			if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}

		// \\ \' \" and friends: keep the escaped character itself.
		b.WriteByte(s[i+1])
		i++
	}
	return b.String()
}
