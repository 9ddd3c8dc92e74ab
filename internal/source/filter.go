package source

import "strings"

// nonResearchKeywords mark journal housekeeping items that carry no research
// content. Matching is case-insensitive substring on the title.
var nonResearchKeywords = []string{
	"issue information",
	"table of contents",
	"cover image",
	"editorial board",
	"masthead",
	"editor",
	"front matter",
	"back matter",
	"volume information",
	"errata",
	"correction",
}

// NonResearchTitle reports whether a title denotes journal boilerplate
// rather than a research article.
func NonResearchTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, keyword := range nonResearchKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
