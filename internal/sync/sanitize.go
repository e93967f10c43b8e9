package sync

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// Removes all html tags from the string, usually an item title.
//
// Also limits the length of the string so a notification isn't a massive
// chunk of text.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	if r := []rune(s); len(r) > 256 {
		s = string(r[:256])
	}

	return s
}
