package rss

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	// minAbstractLen is the shortest text accepted from the summary and
	// description fields.
	minAbstractLen = 50
	// minParagraphLen is the shortest standalone paragraph accepted as an
	// abstract when no marked-up abstract exists.
	minParagraphLen = 100
)

var whitespaceExpr = regexp.MustCompile(`\s+`)

// extractAbstract walks the tier chain until one yields usable text:
// a marked abstract section in embedded HTML, text after an "Abstract"
// heading, the first long non-metadata paragraph, the summary field, then
// the description field. Sources known to withhold abstracts get a literal
// placeholder instead of an empty result.
func extractAbstract(item *gofeed.Item) string {
	if item.Content != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(item.Content)); err == nil {
			if text := abstractSection(doc); text != "" {
				return text
			}
			if text := afterAbstractHeading(doc); text != "" {
				return text
			}
			if text := firstLongParagraph(doc); text != "" {
				return text
			}
		}
	}

	if text := cleanHTML(item.Description); usable(text, minAbstractLen) {
		return text
	}

	if text := cleanHTML(item.Content); usable(text, minAbstractLen) {
		return text
	}

	if abstractWithheld(item.Link) {
		return abstractPlaceholder
	}

	return ""
}

// abstractSection finds explicitly marked abstract containers.
func abstractSection(doc *goquery.Document) string {
	for _, selector := range []string{"section.abstract", "div.abstract", "div.abstract-group"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if text := collapse(sel.Text()); usable(text, 1) {
				return text
			}
		}
	}
	return ""
}

// afterAbstractHeading collects text between an "Abstract" heading and the
// next heading.
func afterAbstractHeading(doc *goquery.Document) string {
	var result string
	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.EqualFold(collapse(heading.Text()), "abstract") {
			return true
		}
		text := collapse(heading.NextUntil("h2, h3, h4").Text())
		if usable(text, 1) {
			result = text
			return false
		}
		return true
	})
	return result
}

// firstLongParagraph returns the first paragraph long enough to be article
// prose rather than venue metadata.
func firstLongParagraph(doc *goquery.Document) string {
	var result string
	doc.Find("p").EachWithBreak(func(_ int, para *goquery.Selection) bool {
		text := collapse(para.Text())
		if len(text) > minParagraphLen && !venueMetadata(text) {
			result = text
			return false
		}
		return true
	})
	return result
}

// venueMetadata recognizes "Volume N, Issue M" style boilerplate that some
// feeds place where an abstract belongs.
func venueMetadata(text string) bool {
	return strings.Contains(text, "Volume") && strings.Contains(text, "Issue")
}

func usable(text string, minLen int) bool {
	return len(text) >= minLen && text != "" && !venueMetadata(text)
}

// cleanHTML strips markup and collapses whitespace.
func cleanHTML(raw string) string {
	if raw == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapse(raw)
	}
	return collapse(doc.Text())
}

func collapse(text string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(text, " "))
}
