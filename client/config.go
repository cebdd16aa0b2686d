package client

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/famomatic/ytplay/internal/store"
	"github.com/famomatic/ytplay/internal/youtube"
)

// DefaultMaxDirectBytes is the largest rendition handed out as a direct URL (250 MiB).
const DefaultMaxDirectBytes int64 = 250 * 1024 * 1024

// Config holds configuration for the client.
type Config struct {
	// Metadata searches for videos. Defaults to a ytsearch backed client.
	Metadata MetadataProvider
	// Streams lists renditions. Defaults to a kkdai/youtube backed client.
	Streams StreamProvider
	// Playlists enumerates playlists. Defaults to Streams when it can, else
	// to the kkdai/youtube backed client.
	Playlists PlaylistProvider

	// Credentials, when set, is consulted before every stream or playlist
	// provider call and its failures are returned to the caller.
	Credentials CredentialSource

	// Store holds downloaded media. Defaults to DownloadDir on the OS filesystem.
	// The Transcoder is handed raw store paths and writes outside afero, so a
	// store used with a Transcoder must be backed by afero.OsFs.
	Store *store.Store
	// DownloadDir is used when Store is nil. Default "downloads".
	DownloadDir string

	// Transcoder normalizes explicit-format audio. Nil disables transcoding,
	// and explicit audio that needs it fails with ErrTranscoderNotConfigured.
	Transcoder Transcoder
	// AudioTarget is the encoding explicit-format audio is normalized to.
	// Zero value means DefaultAudioTarget.
	AudioTarget AudioTarget

	// MaxDirectBytes is the direct-streaming ceiling. Zero means DefaultMaxDirectBytes.
	MaxDirectBytes int64
	// ForceLocalVideo is consulted on every plain video retrieval. When it
	// reports true the video is always downloaded. Nil means false.
	ForceLocalVideo func(ctx context.Context) bool

	// Workers bounds concurrent blocking work. Default 4.
	Workers int

	// HTTPClient is the base client for the default providers.
	// If nil, one is built from ProxyURL and RequestTimeout.
	HTTPClient *http.Client
	// ProxyURL is the optional proxy URL for the default providers.
	// If HTTPClient is provided, this field is ignored.
	ProxyURL string
	// RequestTimeout bounds each HTTP request of the default providers. Zero means none.
	RequestTimeout time.Duration
	// MetadataRetry controls retries of video and playlist lookups.
	MetadataRetry youtube.RetryConfig
	// SearchRequestsPerSecond throttles the default search provider. Zero disables it.
	SearchRequestsPerSecond float64

	// Logger is the base logger. If nil, the package logger is used.
	Logger *zerolog.Logger
	// OnEvent receives progress events.
	OnEvent func(Event)
}

// StaticSwitch returns a ForceLocalVideo func with a fixed answer.
func StaticSwitch(on bool) func(context.Context) bool {
	return func(context.Context) bool { return on }
}

func (c Config) maxDirectBytes() int64 {
	if c.MaxDirectBytes <= 0 {
		return DefaultMaxDirectBytes
	}
	return c.MaxDirectBytes
}

func (c Config) audioTarget() AudioTarget {
	if c.AudioTarget == (AudioTarget{}) {
		return DefaultAudioTarget
	}
	return c.AudioTarget
}

func (c Config) forceLocal(ctx context.Context) bool {
	return c.ForceLocalVideo != nil && c.ForceLocalVideo(ctx)
}
