package client

import (
	"context"
	"errors"
)

// Formats lists every rendition of ref in provider order. Provider faults
// yield an empty listing, never an error. Errors are returned only for an
// unusable reference or when credentials cannot be acquired.
func (c *Client) Formats(ctx context.Context, ref CanonicalRef) (FormatListing, error) {
	ctx, logger := c.begin(ctx, "formats")
	listing := FormatListing{Link: ref.Link}

	vref, err := c.videoRef(ctx, ref)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return listing, err
		}
		logger.Warn().Err(err).Str("link", ref.Link).Msg("formats: query resolution failed")
		return listing, nil
	}
	sess, err := c.session()
	if err != nil {
		return listing, err
	}
	cat, err := c.open(ctx, sess, vref.Link)
	if err != nil {
		logger.Warn().Err(err).Str("link", vref.Link).Msg("formats: provider failed, returning empty listing")
		return listing, nil
	}
	listing.Formats = cat.Formats
	return listing, nil
}

// FormatByID looks up one rendition on the listing path. An absent id is
// reported as false, with no fallback.
func (c *Client) FormatByID(ctx context.Context, ref CanonicalRef, formatID string) (StreamFormat, bool, error) {
	listing, err := c.Formats(ctx, ref)
	if err != nil {
		return StreamFormat{}, false, err
	}
	f, ok := ByFormatID(listing.Formats, formatID)
	return f, ok, nil
}

// VideoURL returns the remote URL of the best progressive mp4 rendition.
func (c *Client) VideoURL(ctx context.Context, ref CanonicalRef) (string, error) {
	ctx, logger := c.begin(ctx, "video_url")
	vref, err := c.videoRef(ctx, ref)
	if err != nil {
		return "", err
	}
	sess, err := c.session()
	if err != nil {
		return "", err
	}
	cat, err := c.open(ctx, sess, vref.Link)
	if err != nil {
		return "", err
	}
	f, ok := BestProgressive(cat.Formats, "mp4")
	if !ok {
		return "", ErrNoSuitableRendition
	}
	u, err := cat.Source.StreamURL(ctx, f)
	if err != nil {
		return "", &ProviderError{Provider: "stream", Op: "stream_url", Err: err}
	}
	logger.Debug().Str("video_id", vref.ID).Str("format", f.FormatID).Msg("stream url resolved")
	return u, nil
}
