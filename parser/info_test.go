package parser

import (
	"errors"
	"reflect"
	"testing"
)

// coverFixture builds a minimal cover page. ieValue == "" omits the encoding
// declaration entirely; ocRunArgs == "" omits the _OC_Run call.
func coverFixture(ieValue string, ocRunArgs string) []byte {
	var b []byte
	b = append(b, "<html><head></head><body>"...)
	if ieValue != "" {
		b = append(b, `<input type="hidden" name="ie" value="`...)
		b = append(b, ieValue...)
		b = append(b, `"/>`...)
	}
	if ocRunArgs != "" {
		b = append(b, "<script>_OC_Run("...)
		b = append(b, ocRunArgs...)
		b = append(b, ");</script>"...)
	}
	b = append(b, "</body></html>"...)
	return b
}

const threePageArgs = `{"page":[{"pid":"p2","order":2},{"pid":"p0","order":0},{"pid":"p1","order":1}],"prefix":"http://books.google.com/books?id=X&lpg=PP1"},{"title":"Dogs &amp; Cats","attribution":"By Some Publisher","max_resolution_image_width":2000,"max_resolution_image_height":3000}`

func TestDetectEncoding(t *testing.T) {
	t.Run("declared encoding is lower-cased", func(t *testing.T) {
		enc, err := DetectEncoding(coverFixture("UTF-8", threePageArgs))
		if err != nil {
			t.Fatalf("DetectEncoding returned error: %v", err)
		}
		if enc != "utf-8" {
			t.Errorf("expected utf-8, got %q", enc)
		}
	})

	t.Run("missing declaration falls back to legacy default", func(t *testing.T) {
		enc, err := DetectEncoding(coverFixture("", threePageArgs))
		if err != nil {
			t.Fatalf("DetectEncoding returned error: %v", err)
		}
		if enc != "iso8859-15" {
			t.Errorf("expected iso8859-15, got %q", enc)
		}
	})

	t.Run("declaration without value fails", func(t *testing.T) {
		html := []byte(`<html><body><input type="hidden" name="ie"/></body></html>`)
		_, err := DetectEncoding(html)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %v", err)
		}
	})
}

func TestParseBookInfo(t *testing.T) {
	info, err := ParseBookInfo(coverFixture("UTF-8", threePageArgs))
	if err != nil {
		t.Fatalf("ParseBookInfo returned error: %v", err)
	}

	t.Run("pages sorted by order field", func(t *testing.T) {
		want := []string{"p0", "p1", "p2"}
		if !reflect.DeepEqual(info.PageIDs, want) {
			t.Errorf("expected %v, got %v", want, info.PageIDs)
		}
	})

	t.Run("prefix has unicode escapes resolved", func(t *testing.T) {
		want := "http://books.google.com/books?id=X&lpg=PP1"
		if info.Prefix != want {
			t.Errorf("expected %q, got %q", want, info.Prefix)
		}
	})

	t.Run("title is entity-decoded", func(t *testing.T) {
		if info.Title != "Dogs & Cats" {
			t.Errorf("expected entity-decoded title, got %q", info.Title)
		}
	})

	t.Run("attribution drops the By label", func(t *testing.T) {
		if info.Attribution != "Some Publisher" {
			t.Errorf("expected By prefix stripped, got %q", info.Attribution)
		}
	})

	t.Run("max resolution", func(t *testing.T) {
		if info.MaxWidth != 2000 || info.MaxHeight != 3000 {
			t.Errorf("expected 2000x3000, got %dx%d", info.MaxWidth, info.MaxHeight)
		}
	})
}

func TestParseBookInfoEncodings(t *testing.T) {
	t.Run("declared utf-8 blob decodes as utf-8", func(t *testing.T) {
		// € is three bytes in UTF-8; decoding them as latin-9 would mangle
		// the title.
		args := `{"page":[{"pid":"p0","order":0}],"prefix":"x"},{"title":"5€ book","attribution":"","max_resolution_image_width":800,"max_resolution_image_height":1200}`
		info, err := ParseBookInfo(coverFixture("UTF-8", args))
		if err != nil {
			t.Fatalf("ParseBookInfo returned error: %v", err)
		}
		if info.Title != "5€ book" {
			t.Errorf("expected euro sign preserved, got %q", info.Title)
		}
	})

	t.Run("undeclared blob decodes as latin-9", func(t *testing.T) {
		// 0xA4 is the euro sign in iso8859-15 and an invalid byte in UTF-8.
		args := append([]byte(`{"page":[{"pid":"p0","order":0}],"prefix":"x"},{"title":"5`), 0xA4)
		args = append(args, ` book","attribution":"","max_resolution_image_width":800,"max_resolution_image_height":1200}`...)
		info, err := ParseBookInfo(coverFixture("", string(args)))
		if err != nil {
			t.Fatalf("ParseBookInfo returned error: %v", err)
		}
		if info.Title != "5€ book" {
			t.Errorf("expected euro sign from latin-9 byte, got %q", info.Title)
		}
	})
}

func TestParseBookInfoErrors(t *testing.T) {
	cases := []struct {
		name string
		html []byte
	}{
		{"missing OC_Run call", coverFixture("UTF-8", "")},
		{"fewer than two arguments", coverFixture("UTF-8", `{"page":[{"pid":"p0","order":0}],"prefix":"x"}`)},
		{"malformed arguments", coverFixture("UTF-8", `{"page":`)},
		{"missing page collection", coverFixture("UTF-8", `{"prefix":"x"},{"title":"t","attribution":"a","max_resolution_image_width":1,"max_resolution_image_height":1}`)},
		{"empty page list", coverFixture("UTF-8", `{"page":[],"prefix":"x"},{"title":"t","attribution":"a","max_resolution_image_width":1,"max_resolution_image_height":1}`)},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBookInfo(tt.html)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
		})
	}
}

func TestParseBookInfoIdempotent(t *testing.T) {
	html := coverFixture("UTF-8", threePageArgs)

	first, err := ParseBookInfo(html)
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	second, err := ParseBookInfo(html)
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs: %+v vs %+v", first, second)
	}
}
