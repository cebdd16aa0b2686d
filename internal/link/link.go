// Package link turns user input into canonical YouTube references.
package link

import (
	"errors"
	"regexp"
	"strings"

	"github.com/famomatic/ytplay/internal/types"
)

const (
	// WatchBase is prefixed to a video id to build its canonical link.
	WatchBase = "https://www.youtube.com/watch?v="
	// PlaylistBase is prefixed to a playlist id to build its canonical link.
	PlaylistBase = "https://youtube.com/playlist?list="
)

// ErrInvalidInput indicates input that names neither a video, a playlist nor a query.
var ErrInvalidInput = errors.New("invalid input")

var (
	hostPattern      = regexp.MustCompile(`(?:youtube\.com|youtu\.be)`)
	youtubeIDPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)
	watchURLPattern  = regexp.MustCompile(`(?:v=|/shorts/|/embed/|/live/|/v/|youtu\.be/)([0-9A-Za-z_-]{11})`)
	listPattern      = regexp.MustCompile(`[?&]list=([0-9A-Za-z_-]+)`)
)

// Exists reports whether s looks like a YouTube link.
func Exists(s string) bool {
	return hostPattern.MatchString(s)
}

// ExistsID is Exists for a bare video id.
func ExistsID(id string) bool {
	return Exists(WatchBase + id)
}

// Truncate drops everything from the first '&' on. Only the first query
// parameter of a link is kept.
func Truncate(raw string) string {
	if i := strings.IndexByte(raw, '&'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// FromID builds a reference from a bare id.
func FromID(id string, kind types.Kind) (types.CanonicalRef, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return types.CanonicalRef{}, ErrInvalidInput
	}
	switch kind {
	case types.KindVideo:
		return types.CanonicalRef{ID: id, Kind: types.KindVideo, Link: WatchBase + id}, nil
	case types.KindPlaylist:
		return types.CanonicalRef{ID: id, Kind: types.KindPlaylist, Link: PlaylistBase + id}, nil
	default:
		return types.CanonicalRef{}, ErrInvalidInput
	}
}

// Parse normalizes a raw string. YouTube links become video or playlist
// references and any other text is returned as a search query. A bare id
// is indistinguishable from an 11 letter word, so it is a query too; use
// FromID when the caller knows it holds an id.
func Parse(raw string) (types.CanonicalRef, error) {
	s := Truncate(strings.TrimSpace(raw))
	if s == "" {
		return types.CanonicalRef{}, ErrInvalidInput
	}
	if Exists(s) {
		if m := watchURLPattern.FindStringSubmatch(s); len(m) == 2 {
			return FromID(m[1], types.KindVideo)
		}
		if m := listPattern.FindStringSubmatch(s); len(m) == 2 {
			return FromID(m[1], types.KindPlaylist)
		}
		return types.CanonicalRef{}, ErrInvalidInput
	}
	if strings.Contains(s, "://") {
		return types.CanonicalRef{}, ErrInvalidInput
	}
	return types.CanonicalRef{Kind: types.KindQuery, Link: strings.TrimSpace(raw)}, nil
}

// VideoID extracts the video id from a member link or a bare id.
func VideoID(s string) (string, error) {
	if id := strings.TrimSpace(s); youtubeIDPattern.MatchString(id) {
		return id, nil
	}
	ref, err := Parse(s)
	if err != nil {
		return "", err
	}
	if ref.Kind != types.KindVideo {
		return "", ErrInvalidInput
	}
	return ref.ID, nil
}
