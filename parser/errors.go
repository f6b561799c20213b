package parser

import "fmt"

// ParseError reports that a fetched document did not match the format this
// tool knows how to read. Every structured-data or pattern-match failure in
// the pipeline surfaces as a ParseError; it is never recovered internally.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Reason
}

// newParseError builds a ParseError with a formatted reason.
func newParseError(format string, args ...interface{}) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}
