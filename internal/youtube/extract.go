// Package youtube derives canonical YouTube video ids from the reference URLs admins paste in.
package youtube

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// VideoIDLength is the length of every canonical YouTube video id
const VideoIDLength = 11

// ErrInvalidURL is returned when no canonical video id can be derived from a URL
var ErrInvalidURL = errors.New("invalid YouTube URL")

var (
	// The last marker before the query wins: short link, /v/, /u/<channel>/, /embed/ or watch?v=
	referencePattern = regexp.MustCompile(`^[^?#]*(?:youtu\.be/|v/|/u/\w+/|embed/|watch\?v=)([^#&?]*)`)
	videoIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractVideoID returns the 11-character video id referenced by rawURL.
// Recognized shapes are watch?v=<id>, youtu.be/<id>, .../v/<id>, .../embed/<id> and .../u/<channel>/<id>.
func ExtractVideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrInvalidURL
	}

	if m := referencePattern.FindStringSubmatch(rawURL); m != nil && IsVideoID(m[1]) {
		return m[1], nil
	}

	// watch?feature=share&v=<id>: the v parameter is not first
	if id := watchParam(rawURL); IsVideoID(id) {
		return id, nil
	}

	return "", ErrInvalidURL
}

// IsVideoID reports whether s has the shape of a canonical video id
func IsVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}

// WatchURL returns the canonical watch page URL for id
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// EmbedURL returns the player URL for id, autoplaying and looping the single video
func EmbedURL(id string) string {
	q := url.Values{}
	q.Set("autoplay", "1")
	q.Set("controls", "1")
	q.Set("rel", "0")
	q.Set("modestbranding", "1")
	q.Set("loop", "1")
	q.Set("playlist", id)
	return "https://www.youtube.com/embed/" + id + "?" + q.Encode()
}

func watchParam(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.HasSuffix(u.Path, "/watch") {
		return ""
	}
	return u.Query().Get("v")
}
