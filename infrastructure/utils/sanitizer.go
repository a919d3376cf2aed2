package utils

import (
	"regexp"
	"strings"
)

// MaxCommentLength caps sanitized comment text. YouTube comments top out
// around 10k characters; anything beyond this is cut without regard to word
// boundaries.
const MaxCommentLength = 5000

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe         = regexp.MustCompile(`<[^>]*>`)
)

// Entities produced by escapeSpecial. An ampersand followed by one of these
// is left alone so that sanitizing twice yields the same output.
var knownEntities = []string{"amp;", "lt;", "gt;", "#34;", "#39;"}

// SanitizeComment strips all markup from user-generated comment text and
// escapes what remains. No tags are allowed. The result is safe for storage
// and display, never longer than MaxCommentLength, and sanitizing it again is
// a no-op. Empty or whitespace-only input yields "".
func SanitizeComment(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\x00", "")
	text = scriptBlockRe.ReplaceAllString(text, "")
	text = styleBlockRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, "")
	text = escapeSpecial(text)

	// Collapse runs of whitespace, which also trims.
	text = strings.Join(strings.Fields(text), " ")

	return truncate(text, MaxCommentLength)
}

func escapeSpecial(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '&':
			if startsEntity(text[i+1:]) {
				b.WriteByte(c)
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&#34;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func startsEntity(s string) bool {
	for _, e := range knownEntities {
		if strings.HasPrefix(s, e) {
			return true
		}
	}
	return false
}

// truncate cuts text to max runes. A trailing partial entity left by the cut
// is dropped so the result survives another sanitize pass unchanged.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	runes = runes[:max]
	for i := len(runes) - 1; i >= 0 && i >= len(runes)-5; i-- {
		if runes[i] == ';' {
			break
		}
		if runes[i] == '&' {
			runes = runes[:i]
			break
		}
	}
	return strings.TrimRight(string(runes), " ")
}
