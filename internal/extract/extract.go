// Package extract converts HTML markup into normalized plaintext limited
// to content found inside a <main> element.
package extract

import (
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// blockTags emit a line break when opened inside <main>.
var blockTags = map[string]bool{
	"p":       true,
	"div":     true,
	"section": true,
	"article": true,
	"li":      true,
	"br":      true,
	"h1":      true,
	"h2":      true,
	"h3":      true,
	"h4":      true,
	"h5":      true,
	"h6":      true,
}

// closingBlockTags emit an additional line break when closed.
var closingBlockTags = map[string]bool{
	"p":       true,
	"div":     true,
	"section": true,
	"article": true,
	"li":      true,
}

// MainText returns the normalized text content of the <main> element(s)
// in src. Anchor text is followed by the link target in parentheses when
// an href is present. The scan is forward-only and tolerates malformed
// markup; any tokenizer failure or absence of <main> yields the empty
// string rather than an error, since callers treat the result as a
// best-effort enrichment.
func MainText(src string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(src))

	var (
		buf    strings.Builder
		inside bool
		hrefs  []string
	)

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return normalize(buf.String())
			}
			return ""

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			tag := string(name)
			if tag == "main" {
				inside = true
				continue
			}
			if !inside {
				continue
			}
			switch {
			case blockTags[tag]:
				buf.WriteByte('\n')
			case tag == "a":
				hrefs = append(hrefs, hrefAttr(tokenizer, hasAttr))
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if tag == "main" {
				inside = false
				continue
			}
			if !inside {
				continue
			}
			switch {
			case closingBlockTags[tag]:
				buf.WriteByte('\n')
			case tag == "a" && len(hrefs) > 0:
				href := hrefs[len(hrefs)-1]
				hrefs = hrefs[:len(hrefs)-1]
				if href != "" {
					buf.WriteString(" (")
					buf.WriteString(href)
					buf.WriteByte(')')
				}
			}

		case html.TextToken:
			if inside {
				buf.Write(tokenizer.Text())
			}
		}
	}
}

// FromFile reads the file at path and extracts its main-element text.
// Any read failure yields the empty string.
func FromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return MainText(string(data))
}

func hrefAttr(tokenizer *html.Tokenizer, hasAttr bool) string {
	for hasAttr {
		key, value, more := tokenizer.TagAttr()
		if string(key) == "href" {
			return string(value)
		}
		hasAttr = more
	}
	return ""
}

// normalize trims every line, drops the empty ones and rejoins the rest,
// so consecutive block tags never produce blank lines in the output.
func normalize(raw string) string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
