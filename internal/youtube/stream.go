// Package youtube adapts github.com/kkdai/youtube/v2 and
// github.com/raitonoberu/ytsearch to the provider contracts of the client package.
package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"

	yt "github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"

	"github.com/famomatic/ytplay/internal/link"
	ytlog "github.com/famomatic/ytplay/internal/log"
	"github.com/famomatic/ytplay/internal/types"
)

// StreamClient resolves renditions and playlists through kkdai/youtube.
type StreamClient struct {
	http   *http.Client
	retry  RetryConfig
	logger zerolog.Logger
}

// StreamOptions configures a StreamClient.
type StreamOptions struct {
	// HTTPClient is the base client. Session jars are layered on a copy.
	HTTPClient *http.Client
	Retry      RetryConfig
	Logger     *zerolog.Logger
}

// NewStreamClient returns a StreamClient.
func NewStreamClient(opts StreamOptions) *StreamClient {
	c := &StreamClient{
		http:   opts.HTTPClient,
		retry:  opts.Retry,
		logger: ytlog.WithComponent("youtube.stream"),
	}
	if c.http == nil {
		c.http = NewHTTPClient("", 0)
	}
	if opts.Logger != nil {
		c.logger = *opts.Logger
	}
	return c
}

func (c *StreamClient) client(sess *types.Session) *yt.Client {
	var jar http.CookieJar
	if sess != nil {
		jar = sess.Jar
	}
	return &yt.Client{HTTPClient: withJar(c.http, jar)}
}

// Open fetches the rendition catalog of the video behind videoLink.
func (c *StreamClient) Open(ctx context.Context, sess *types.Session, videoLink string) (*types.Catalog, error) {
	ytc := c.client(sess)
	video, err := withRetry(ctx, c.retry, func(ctx context.Context) (*yt.Video, error) {
		return ytc.GetVideoContext(ctx, videoLink)
	})
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	c.logger.Debug().
		Str("video_id", video.ID).
		Int("formats", len(video.Formats)).
		Msg("catalog fetched")
	return &types.Catalog{
		VideoID: video.ID,
		Title:   video.Title,
		Formats: convertFormats(video.Formats),
		Source:  &videoSource{client: ytc, video: video},
	}, nil
}

// PlaylistMembers lists the member links of a playlist in provider order.
// Entries without an id are passed through as empty links.
func (c *StreamClient) PlaylistMembers(ctx context.Context, sess *types.Session, playlistLink string) ([]string, error) {
	ytc := c.client(sess)
	playlist, err := withRetry(ctx, c.retry, func(ctx context.Context) (*yt.Playlist, error) {
		return ytc.GetPlaylistContext(ctx, playlistLink)
	})
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	members := make([]string, 0, len(playlist.Videos))
	for _, entry := range playlist.Videos {
		if entry == nil || entry.ID == "" {
			members = append(members, "")
			continue
		}
		members = append(members, link.WatchBase+entry.ID)
	}
	return members, nil
}

type videoSource struct {
	client *yt.Client
	video  *yt.Video
}

func (s *videoSource) format(f types.StreamFormat) (*yt.Format, error) {
	yf, ok := findFormat(s.video.Formats, f.FormatID)
	if !ok {
		return nil, fmt.Errorf("format %s not offered for %s", f.FormatID, s.video.ID)
	}
	return yf, nil
}

func (s *videoSource) StreamURL(ctx context.Context, f types.StreamFormat) (string, error) {
	yf, err := s.format(f)
	if err != nil {
		return "", err
	}
	u, err := s.client.GetStreamURLContext(ctx, s.video, yf)
	if err != nil {
		return "", fmt.Errorf("stream url: %w", err)
	}
	return u, nil
}

func (s *videoSource) Download(ctx context.Context, f types.StreamFormat, w io.Writer) (int64, error) {
	yf, err := s.format(f)
	if err != nil {
		return 0, err
	}
	stream, _, err := s.client.GetStreamContext(ctx, s.video, yf)
	if err != nil {
		return 0, fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()
	n, err := io.Copy(w, stream)
	if err != nil {
		return n, fmt.Errorf("copy stream: %w", err)
	}
	return n, nil
}
