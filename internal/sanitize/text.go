package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strict removes all HTML tags and attributes. Used for plain-text
	// fields: event titles, locations, registrant names.
	strict = bluemonday.StrictPolicy()

	// ugc allows safe user-generated formatting (<p>, <b>, <em>, lists,
	// links). Used for event descriptions.
	ugc = bluemonday.UGCPolicy()
)

// Text strips all HTML and trims surrounding whitespace.
func Text(input string) string {
	return strings.TrimSpace(strict.Sanitize(input))
}

// Description sanitizes organizer-supplied description HTML, keeping
// basic formatting while removing scripts, iframes and event handlers.
func Description(input string) string {
	return strings.TrimSpace(ugc.Sanitize(input))
}
