package usecase

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"sentitube/domain/model"
)

// maxURLLength bounds the accepted input before any parsing happens.
const maxURLLength = 2048

var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

var allowedHosts = map[string]struct{}{
	"youtube.com":     {},
	"www.youtube.com": {},
	"youtu.be":        {},
	"www.youtu.be":    {},
}

// ExtractVideoID resolves a user-supplied YouTube URL to the canonical
// 11-character video id. Only http/https URLs on known YouTube hosts are
// accepted; everything else fails with model.ErrInvalidInput.
func ExtractVideoID(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", model.InvalidInput("url is empty")
	}
	if utf8.RuneCountInString(trimmed) > maxURLLength {
		return "", model.InvalidInput("url exceeds %d characters", maxURLLength)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", model.InvalidInput("url is not parseable")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", model.InvalidInput("url scheme must be http or https")
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := allowedHosts[host]; !ok {
		return "", model.InvalidInput("host %q is not a youtube domain", host)
	}

	var candidate string
	if host == "youtu.be" || host == "www.youtu.be" {
		// Short links carry the id as the first path segment.
		candidate = strings.Trim(u.Path, "/")
		if i := strings.IndexByte(candidate, '/'); i >= 0 {
			candidate = candidate[:i]
		}
	} else {
		candidate = u.Query().Get("v")
	}

	if candidate == "" {
		return "", model.InvalidInput("url carries no video id")
	}
	if !videoIDPattern.MatchString(candidate) {
		return "", model.InvalidInput("video id is malformed")
	}
	return candidate, nil
}
