package youtube

import (
	"context"
	"fmt"
	"strconv"

	"github.com/raitonoberu/ytsearch"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/famomatic/ytplay/internal/link"
	ytlog "github.com/famomatic/ytplay/internal/log"
	"github.com/famomatic/ytplay/internal/types"
)

// searchHit is the subset of a search result the engine consumes.
type searchHit struct {
	ID        string
	Title     string
	Channel   string
	Seconds   int
	Thumbnail string
}

type searchFunc func(ctx context.Context, query string) ([]searchHit, error)

// SearchClient queries YouTube search through raitonoberu/ytsearch.
type SearchClient struct {
	search  searchFunc
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// SearchOptions configures a SearchClient.
type SearchOptions struct {
	// RequestsPerSecond throttles search calls. Zero disables throttling.
	RequestsPerSecond float64
	Burst             int
	Logger            *zerolog.Logger
}

// NewSearchClient returns a SearchClient.
func NewSearchClient(opts SearchOptions) *SearchClient {
	c := &SearchClient{
		search: ytsearchHits,
		logger: ytlog.WithComponent("youtube.search"),
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	if opts.Logger != nil {
		c.logger = *opts.Logger
	}
	return c
}

// Search returns up to limit results for query in provider order.
func (c *SearchClient) Search(ctx context.Context, query string, limit int) ([]types.TrackMetadata, error) {
	if limit <= 0 {
		limit = 1
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	hits, err := c.search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	out := make([]types.TrackMetadata, 0, min(limit, len(hits)))
	for _, h := range hits {
		if len(out) >= limit {
			break
		}
		if h.ID == "" {
			continue
		}
		out = append(out, types.TrackMetadata{
			ID:              h.ID,
			Title:           h.Title,
			DurationDisplay: formatDuration(h.Seconds),
			DurationSeconds: h.Seconds,
			Thumbnail:       h.Thumbnail,
			Link:            link.WatchBase + h.ID,
			Channel:         h.Channel,
		})
	}
	c.logger.Debug().Str("query", query).Int("results", len(out)).Msg("search done")
	return out, nil
}

// ytsearchHits runs one search page. ytsearch has no context support, so
// cancellation only applies before the request starts.
func ytsearchHits(ctx context.Context, query string) ([]searchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results, err := ytsearch.VideoSearch(query).Next()
	if err != nil {
		return nil, err
	}
	hits := make([]searchHit, 0, len(results.Videos))
	for _, v := range results.Videos {
		thumb := ""
		if len(v.Thumbnails) > 0 {
			thumb = v.Thumbnails[0].URL
		}
		hits = append(hits, searchHit{
			ID:        v.ID,
			Title:     v.Title,
			Channel:   v.Channel.Title,
			Seconds:   v.Duration,
			Thumbnail: thumb,
		})
	}
	return hits, nil
}

// formatDuration renders seconds as m:ss or h:mm:ss. Zero means the
// provider reported no duration (live streams, premieres) and renders empty.
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return strconv.Itoa(hours) + ":" + padZero(minutes) + ":" + padZero(secs)
	}
	return strconv.Itoa(minutes) + ":" + padZero(secs)
}

func padZero(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
