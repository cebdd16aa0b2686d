package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/famomatic/ytplay/internal/link"
	ytlog "github.com/famomatic/ytplay/internal/log"
	"github.com/famomatic/ytplay/internal/metrics"
	"github.com/famomatic/ytplay/internal/store"
	"github.com/famomatic/ytplay/internal/workpool"
	"github.com/famomatic/ytplay/internal/youtube"
)

// Client resolves references into metadata, renditions and playable media.
// It is safe for concurrent use. Calls share nothing but the store.
type Client struct {
	config    Config
	metadata  MetadataProvider
	streams   StreamProvider
	playlists PlaylistProvider
	store     *store.Store
	pool      *workpool.Pool
	logger    zerolog.Logger
}

// New creates a new client, filling unset providers with the YouTube defaults.
func New(config Config) *Client {
	logger := ytlog.WithComponent("client")
	if config.Logger != nil {
		logger = *config.Logger
	}
	if config.HTTPClient == nil {
		config.HTTPClient = youtube.NewHTTPClient(config.ProxyURL, config.RequestTimeout)
	}

	metadata := config.Metadata
	if metadata == nil {
		metadata = youtube.NewSearchClient(youtube.SearchOptions{
			RequestsPerSecond: config.SearchRequestsPerSecond,
			Logger:            config.Logger,
		})
	}

	var defaultStreams *youtube.StreamClient
	streamClient := func() *youtube.StreamClient {
		if defaultStreams == nil {
			defaultStreams = youtube.NewStreamClient(youtube.StreamOptions{
				HTTPClient: config.HTTPClient,
				Retry:      config.MetadataRetry,
				Logger:     config.Logger,
			})
		}
		return defaultStreams
	}
	streams := config.Streams
	if streams == nil {
		streams = streamClient()
	}
	playlists := config.Playlists
	if playlists == nil {
		if p, ok := streams.(PlaylistProvider); ok {
			playlists = p
		} else {
			playlists = streamClient()
		}
	}

	st := config.Store
	if st == nil {
		st = store.New(nil, config.DownloadDir)
	}

	return &Client{
		config:    config,
		metadata:  metadata,
		streams:   streams,
		playlists: playlists,
		store:     st,
		pool:      workpool.New(config.Workers),
		logger:    logger,
	}
}

// Store returns the content store downloads are written to.
func (c *Client) Store() *store.Store { return c.store }

// Normalize parses raw input into a reference. See link.Parse.
func (c *Client) Normalize(raw string) (CanonicalRef, error) {
	ref, err := link.Parse(raw)
	if err != nil {
		return CanonicalRef{}, &InvalidInputDetailError{Input: raw, Reason: "not a video, playlist or query"}
	}
	return ref, nil
}

// FromID builds a reference from a bare video or playlist id. Normalize
// treats bare ids as search text, so callers holding an id use this instead.
func (c *Client) FromID(id string, kind Kind) (CanonicalRef, error) {
	ref, err := link.FromID(id, kind)
	if err != nil {
		return CanonicalRef{}, &InvalidInputDetailError{Input: id, Reason: "expected a video or playlist id"}
	}
	return ref, nil
}

// Exists reports whether s looks like a YouTube link.
func (c *Client) Exists(s string) bool {
	return link.Exists(s)
}

// begin tags ctx with a request id and returns a logger carrying it.
func (c *Client) begin(ctx context.Context, op string) (context.Context, zerolog.Logger) {
	ctx, _ = ytlog.EnsureRequestID(ctx)
	l := ytlog.WithContext(ctx, c.logger).With().Str("op", op).Logger()
	return ctx, l
}

// session acquires a credential bundle when a pool is configured.
func (c *Client) session() (*Session, error) {
	if c.config.Credentials == nil {
		return nil, nil
	}
	b, err := c.config.Credentials.Acquire()
	if err != nil {
		c.emitEvent("credentials", "failure", "", "", err.Error())
		return nil, fmt.Errorf("acquire credentials: %w", err)
	}
	return b.Session(), nil
}

func (c *Client) open(ctx context.Context, sess *Session, videoLink string) (*Catalog, error) {
	cat, err := workpool.Do(ctx, c.pool, func(ctx context.Context) (*Catalog, error) {
		return c.streams.Open(ctx, sess, videoLink)
	})
	if err != nil {
		metrics.RecordProviderFailure("stream", "open")
		return nil, &ProviderError{Provider: "stream", Op: "open", Err: err}
	}
	if cat == nil || cat.Source == nil {
		metrics.RecordProviderFailure("stream", "open")
		return nil, &ProviderError{Provider: "stream", Op: "open", Err: errors.New("empty catalog")}
	}
	return cat, nil
}

// videoRef turns a query into the video of its first search result.
func (c *Client) videoRef(ctx context.Context, ref CanonicalRef) (CanonicalRef, error) {
	switch ref.Kind {
	case KindVideo:
		if ref.ID == "" {
			return CanonicalRef{}, &InvalidInputDetailError{Input: ref.Link, Reason: "video reference without id"}
		}
		return ref, nil
	case KindQuery:
		results, err := c.search(ctx, ref, 1)
		if err != nil {
			return CanonicalRef{}, err
		}
		return link.FromID(results[0].ID, KindVideo)
	default:
		return CanonicalRef{}, &InvalidInputDetailError{Input: ref.Link, Reason: "expected a video reference"}
	}
}

type fetched struct {
	path  string
	bytes int64
}

// fetch downloads f into key unless key already exists.
func (c *Client) fetch(ctx context.Context, logger zerolog.Logger, cat *Catalog, f StreamFormat, key string) (string, bool, error) {
	if c.store.Exists(key) {
		path := c.store.Path(key)
		c.emitEvent("download", "cached", cat.VideoID, path, "format="+f.FormatID)
		logger.Debug().Str("path", path).Msg("reusing existing file")
		return path, true, nil
	}

	target := c.store.Path(key)
	c.emitEvent("download", "start", cat.VideoID, target, "format="+f.FormatID)
	res, err := workpool.Do(ctx, c.pool, func(ctx context.Context) (fetched, error) {
		p, err := c.store.Create(key)
		if err != nil {
			return fetched{}, err
		}
		n, err := cat.Source.Download(ctx, f, p)
		if err != nil {
			p.Abort()
			return fetched{bytes: n}, err
		}
		path, err := p.Commit()
		return fetched{path: path, bytes: n}, err
	})
	if err != nil {
		metrics.RecordProviderFailure("stream", "download")
		c.emitEvent("download", "failure", cat.VideoID, target, err.Error())
		return "", false, &ProviderError{Provider: "stream", Op: "download", Err: err}
	}
	c.downloaded(logger, cat, f, res)
	return res.path, false, nil
}

// fetchScratch always downloads f, into a private file next to the store
// entries that no key refers to. The caller removes it.
func (c *Client) fetchScratch(ctx context.Context, logger zerolog.Logger, cat *Catalog, f StreamFormat, key string) (string, error) {
	c.emitEvent("download", "start", cat.VideoID, "", "format="+f.FormatID+" scratch")
	res, err := workpool.Do(ctx, c.pool, func(ctx context.Context) (fetched, error) {
		p, err := c.store.Create(key)
		if err != nil {
			return fetched{}, err
		}
		n, err := cat.Source.Download(ctx, f, p)
		if err != nil {
			p.Abort()
			return fetched{bytes: n}, err
		}
		path, err := p.Detach()
		return fetched{path: path, bytes: n}, err
	})
	if err != nil {
		metrics.RecordProviderFailure("stream", "download")
		c.emitEvent("download", "failure", cat.VideoID, "", err.Error())
		return "", &ProviderError{Provider: "stream", Op: "download", Err: err}
	}
	c.downloaded(logger, cat, f, res)
	return res.path, nil
}

func (c *Client) downloaded(logger zerolog.Logger, cat *Catalog, f StreamFormat, res fetched) {
	metrics.AddDownloadedBytes(res.bytes)
	c.emitEvent("download", "complete", cat.VideoID, res.path, "bytes="+humanize.IBytes(uint64(res.bytes)))
	logger.Info().
		Str("video_id", cat.VideoID).
		Str("format", f.FormatID).
		Str("path", res.path).
		Str("size", humanize.IBytes(uint64(res.bytes))).
		Msg("downloaded")
}
