package client

import (
	"context"

	"github.com/famomatic/ytplay/internal/credentials"
	"github.com/famomatic/ytplay/internal/types"
)

// Re-exported domain types.
type (
	CanonicalRef    = types.CanonicalRef
	Kind            = types.Kind
	TrackMetadata   = types.TrackMetadata
	StreamFormat    = types.StreamFormat
	FormatKind      = types.FormatKind
	FormatListing   = types.FormatListing
	RetrievalResult = types.RetrievalResult
	Session         = types.Session
	Catalog         = types.Catalog
	RenditionSource = types.RenditionSource
)

const (
	KindVideo    = types.KindVideo
	KindPlaylist = types.KindPlaylist
	KindQuery    = types.KindQuery

	FormatProgressive   = types.FormatProgressive
	FormatAdaptiveVideo = types.FormatAdaptiveVideo
	FormatAdaptiveAudio = types.FormatAdaptiveAudio
)

// MetadataProvider searches for videos.
type MetadataProvider interface {
	// Search returns at most limit results for query, best match first.
	Search(ctx context.Context, query string, limit int) ([]TrackMetadata, error)
}

// StreamProvider lists the renditions of a video.
type StreamProvider interface {
	// Open performs one live query for the video behind link.
	Open(ctx context.Context, sess *Session, link string) (*Catalog, error)
}

// PlaylistProvider enumerates playlists.
type PlaylistProvider interface {
	// PlaylistMembers returns member links in playlist order.
	PlaylistMembers(ctx context.Context, sess *Session, link string) ([]string, error)
}

// CredentialSource hands out one credential bundle per request.
type CredentialSource interface {
	Acquire() (*credentials.Bundle, error)
}
