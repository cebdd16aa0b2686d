package client

import (
	"context"
	"errors"

	"github.com/famomatic/ytplay/internal/link"
	"github.com/famomatic/ytplay/internal/metrics"
	"github.com/famomatic/ytplay/internal/workpool"
)

// Playlist returns the video ids of the first limit members of a playlist,
// in playlist order. Members without a usable id are skipped, so fewer than
// limit ids may come back. Provider faults yield an empty list; only
// invalid references, credential failures and cancellation or expiry of
// ctx are returned as errors.
func (c *Client) Playlist(ctx context.Context, ref CanonicalRef, limit int) ([]string, error) {
	ctx, logger := c.begin(ctx, "playlist")
	if ref.Kind != KindPlaylist || ref.Link == "" {
		return nil, &InvalidInputDetailError{Input: ref.Link, Reason: "expected a playlist reference"}
	}
	ids := []string{}
	if limit <= 0 {
		return ids, nil
	}

	sess, err := c.session()
	if err != nil {
		return nil, err
	}
	members, err := workpool.Do(ctx, c.pool, func(ctx context.Context) ([]string, error) {
		return c.playlists.PlaylistMembers(ctx, sess, ref.Link)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		metrics.RecordProviderFailure("playlist", "members")
		logger.Warn().Err(err).Str("link", ref.Link).Msg("playlist provider failed, returning empty list")
		return ids, nil
	}

	if len(members) > limit {
		members = members[:limit]
	}
	for i, m := range members {
		id, err := link.VideoID(m)
		if err != nil {
			logger.Debug().Int("index", i).Str("member", m).Msg("skipping playlist member without video id")
			continue
		}
		ids = append(ids, id)
	}
	c.emitEvent("playlist", "complete", ref.ID, "", "")
	return ids, nil
}
