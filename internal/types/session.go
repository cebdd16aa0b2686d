package types

import (
	"context"
	"io"
	"net/http"
)

// Session carries the authenticated state for one request. A nil Session
// means anonymous access.
type Session struct {
	// Name identifies the credential bundle, for logs only.
	Name string
	Jar  http.CookieJar
}

// RenditionSource resolves and fetches renditions of one video.
type RenditionSource interface {
	// StreamURL returns a remote URL the caller can stream f from.
	StreamURL(ctx context.Context, f StreamFormat) (string, error)
	// Download writes the bytes of f to w and returns the count written.
	Download(ctx context.Context, f StreamFormat, w io.Writer) (int64, error)
}

// Catalog is the set of renditions offered for one video by a single,
// live provider query. It is never reused across calls.
type Catalog struct {
	VideoID string
	Title   string
	Formats []StreamFormat
	Source  RenditionSource
}

// ByFormatID returns the rendition with the given id.
func (c *Catalog) ByFormatID(id string) (StreamFormat, bool) {
	if c == nil {
		return StreamFormat{}, false
	}
	for _, f := range c.Formats {
		if f.FormatID == id {
			return f, true
		}
	}
	return StreamFormat{}, false
}
