package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/famomatic/ytplay/internal/metrics"
	"github.com/famomatic/ytplay/internal/workpool"
)

// SliderSize is how many candidates Slider searches for.
const SliderSize = 10

// Details returns the first search result for ref.
func (c *Client) Details(ctx context.Context, ref CanonicalRef) (TrackMetadata, error) {
	ctx, logger := c.begin(ctx, "details")
	results, err := c.search(ctx, ref, 1)
	if err != nil {
		logger.Warn().Err(err).Str("query", ref.Link).Msg("details lookup failed")
		return TrackMetadata{}, err
	}
	return results[0], nil
}

// Title looks up only the title. It costs a full search.
func (c *Client) Title(ctx context.Context, ref CanonicalRef) (string, error) {
	md, err := c.Details(ctx, ref)
	return md.Title, err
}

// Duration looks up only the display duration. It costs a full search.
func (c *Client) Duration(ctx context.Context, ref CanonicalRef) (string, error) {
	md, err := c.Details(ctx, ref)
	return md.DurationDisplay, err
}

// Thumbnail looks up only the thumbnail URL. It costs a full search.
func (c *Client) Thumbnail(ctx context.Context, ref CanonicalRef) (string, error) {
	md, err := c.Details(ctx, ref)
	return md.Thumbnail, err
}

// Slider searches for SliderSize candidates and returns the one at rank.
func (c *Client) Slider(ctx context.Context, ref CanonicalRef, rank int) (TrackMetadata, error) {
	ctx, logger := c.begin(ctx, "slider")
	results, err := c.search(ctx, ref, SliderSize)
	if err != nil {
		logger.Warn().Err(err).Str("query", ref.Link).Msg("slider lookup failed")
		return TrackMetadata{}, err
	}
	if rank < 0 || rank >= len(results) {
		return TrackMetadata{}, fmt.Errorf("%w: rank %d of %d", ErrNoResults, rank, len(results))
	}
	return results[rank], nil
}

// search issues exactly one provider call and normalizes its results.
func (c *Client) search(ctx context.Context, ref CanonicalRef, limit int) ([]TrackMetadata, error) {
	query := strings.TrimSpace(ref.Link)
	if query == "" {
		return nil, &InvalidInputDetailError{Input: ref.Link, Reason: "empty query"}
	}
	results, err := workpool.Do(ctx, c.pool, func(ctx context.Context) ([]TrackMetadata, error) {
		return c.metadata.Search(ctx, query, limit)
	})
	if err != nil {
		metrics.RecordProviderFailure("search", "search")
		return nil, &ProviderError{Provider: "search", Op: "search", Err: err}
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return lo.Map(results, func(md TrackMetadata, _ int) TrackMetadata {
		return normalizeMetadata(md)
	}), nil
}

func normalizeMetadata(md TrackMetadata) TrackMetadata {
	if i := strings.IndexByte(md.Thumbnail, '?'); i >= 0 {
		md.Thumbnail = md.Thumbnail[:i]
	}
	display := strings.TrimSpace(md.DurationDisplay)
	if display == "" || strings.EqualFold(display, "None") {
		md.DurationDisplay = ""
		md.DurationSeconds = 0
		return md
	}
	if secs, ok := ParseDuration(display); ok {
		md.DurationSeconds = secs
	}
	return md
}

// ParseDuration converts "ss", "m:ss" or "h:mm:ss" to seconds.
// Absent or "None" durations are 0 and reported as parsed.
func ParseDuration(display string) (int, bool) {
	display = strings.TrimSpace(display)
	if display == "" || strings.EqualFold(display, "None") {
		return 0, true
	}
	total := 0
	for _, part := range strings.Split(display, ":") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}
