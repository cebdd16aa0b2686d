package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/famomatic/ytplay/internal/metrics"
)

// Mode selects what Retrieve produces.
type Mode int

const (
	// ModeAudio downloads the best audio-only rendition as <id>.<container>.
	ModeAudio Mode = iota + 1
	// ModeVideo streams or downloads the best progressive rendition.
	ModeVideo
	// ModeFormatAudio downloads a chosen rendition as <title>.mp3.
	ModeFormatAudio
	// ModeFormatVideo downloads a chosen rendition as <title>.mp4.
	ModeFormatVideo
)

func (m Mode) String() string {
	switch m {
	case ModeAudio:
		return "audio"
	case ModeVideo:
		return "video"
	case ModeFormatAudio:
		return "format_audio"
	case ModeFormatVideo:
		return "format_video"
	default:
		return "unknown"
	}
}

// Intent says what to retrieve. FormatID and Title apply to the explicit
// format modes only. An empty FormatID in ModeFormatAudio means best audio.
type Intent struct {
	Mode     Mode
	FormatID string
	Title    string
}

const videoContainer = "mp4"

// Retrieve resolves ref into a remote URL or a local file according to intent.
// Downloads are skipped when the target file already exists.
func (c *Client) Retrieve(ctx context.Context, ref CanonicalRef, intent Intent) (RetrievalResult, error) {
	ctx, logger := c.begin(ctx, "retrieve")
	logger = logger.With().Str("mode", intent.Mode.String()).Logger()

	var (
		res  RetrievalResult
		path string
		err  error
	)
	switch intent.Mode {
	case ModeFormatAudio, ModeFormatVideo:
		res, path, err = c.retrieveExplicit(ctx, logger, ref, intent)
	case ModeVideo:
		res, path, err = c.retrieveVideo(ctx, logger, ref)
	case ModeAudio:
		res, path, err = c.retrieveAudio(ctx, logger, ref)
	default:
		err = &InvalidInputDetailError{Input: intent.Mode.String(), Reason: "unknown retrieval mode"}
	}
	if err != nil {
		category := ClassifyError(err)
		metrics.RecordRetrievalFailure(intent.Mode.String(), string(category))
		logger.Warn().Err(err).Str("category", string(category)).Msg("retrieval failed")
		return RetrievalResult{}, err
	}
	metrics.RecordRetrieval(intent.Mode.String(), path)
	logger.Info().
		Bool("direct", res.Direct).
		Str("format", res.FormatID).
		Str("reason", res.Reason).
		Msg("retrieved")
	return res, nil
}

// retrieveExplicit handles both explicit-format modes. The third return
// value is the metrics path label.
func (c *Client) retrieveExplicit(ctx context.Context, logger zerolog.Logger, ref CanonicalRef, intent Intent) (RetrievalResult, string, error) {
	title := strings.TrimSpace(intent.Title)
	if title == "" {
		return RetrievalResult{}, "", &InvalidInputDetailError{Input: intent.Title, Reason: "explicit format retrieval needs a title"}
	}
	audio := intent.Mode == ModeFormatAudio
	target := c.config.audioTarget()
	key := title + "." + videoContainer
	if audio {
		key = title + "." + target.Container
	}
	if c.store.Exists(key) {
		path := c.store.Path(key)
		c.emitEvent("download", "cached", ref.ID, path, "title="+title)
		return RetrievalResult{Location: path, FormatID: intent.FormatID, Reason: "already downloaded"}, "cached", nil
	}

	vref, err := c.videoRef(ctx, ref)
	if err != nil {
		return RetrievalResult{}, "", err
	}
	sess, err := c.session()
	if err != nil {
		return RetrievalResult{}, "", err
	}
	cat, err := c.open(ctx, sess, vref.Link)
	if err != nil {
		return RetrievalResult{}, "", err
	}

	if !audio {
		f, ok := ByFormatID(cat.Formats, intent.FormatID)
		reason := "requested format"
		if !ok {
			f, ok = FirstProgressive(cat.Formats)
			reason = fmt.Sprintf("format %q not offered, first progressive used", intent.FormatID)
		}
		if !ok {
			return RetrievalResult{}, "", ErrNoSuitableRendition
		}
		path, cached, err := c.fetch(ctx, logger, cat, f, key)
		if err != nil {
			return RetrievalResult{}, "", err
		}
		return RetrievalResult{Location: path, FormatID: f.FormatID, Reason: reason}, downloadLabel(cached), nil
	}

	var (
		f  StreamFormat
		ok bool
	)
	if intent.FormatID == "" {
		f, ok = BestAudio(cat.Formats)
	} else {
		f, ok = ByFormatID(cat.Formats, intent.FormatID)
	}
	if !ok {
		return RetrievalResult{}, "", ErrNoSuitableRendition
	}
	if f.Container == target.Container {
		path, cached, err := c.fetch(ctx, logger, cat, f, key)
		if err != nil {
			return RetrievalResult{}, "", err
		}
		return RetrievalResult{Location: path, FormatID: f.FormatID, Reason: "already " + target.Container}, downloadLabel(cached), nil
	}
	if c.config.Transcoder == nil {
		return RetrievalResult{}, "", ErrTranscoderNotConfigured
	}

	intermediate, err := c.fetchScratch(ctx, logger, cat, f, title+"."+f.Ext())
	if err != nil {
		return RetrievalResult{}, "", err
	}
	path, err := c.transcode(ctx, logger, vref.ID, intermediate, key, target)
	if err != nil {
		return RetrievalResult{}, "", err
	}
	return RetrievalResult{
		Location: path,
		FormatID: f.FormatID,
		Reason:   fmt.Sprintf("transcoded %s to %s", f.Container, target.Container),
	}, "transcoded", nil
}

// transcode re-encodes the scratch file intermediate into key. The scratch
// file is removed whatever the outcome.
func (c *Client) transcode(ctx context.Context, logger zerolog.Logger, videoID, intermediate, key string, target AudioTarget) (string, error) {
	defer func() {
		if err := c.store.Fs().Remove(intermediate); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str("path", intermediate).Msg("remove intermediate file")
		}
	}()
	staging := c.store.StagingPath(key)
	c.emitEvent("transcode", "start", videoID, staging, "target="+target.Container)
	err := c.pool.Run(ctx, func(ctx context.Context) error {
		return c.config.Transcoder.Reencode(ctx, intermediate, staging, target)
	})
	if err != nil {
		metrics.RecordTranscode("failure")
		_ = c.store.Fs().Remove(staging)
		c.emitEvent("transcode", "failure", videoID, staging, err.Error())
		return "", &TranscodeError{Input: intermediate, Output: c.store.Path(key), Err: err}
	}
	path, err := c.store.Promote(staging, key)
	if err != nil {
		metrics.RecordTranscode("failure")
		return "", &TranscodeError{Input: intermediate, Output: c.store.Path(key), Err: err}
	}
	metrics.RecordTranscode("success")
	c.emitEvent("transcode", "complete", videoID, path, "")
	return path, nil
}

// retrieveVideo handles plain video: direct when allowed and small enough,
// otherwise a local download.
func (c *Client) retrieveVideo(ctx context.Context, logger zerolog.Logger, ref CanonicalRef) (RetrievalResult, string, error) {
	vref, err := c.videoRef(ctx, ref)
	if err != nil {
		return RetrievalResult{}, "", err
	}
	key := vref.ID + "." + videoContainer

	if c.config.forceLocal(ctx) {
		return c.downloadBestVideo(ctx, logger, vref, key, "local download forced")
	}

	sess, err := c.session()
	if err != nil {
		return RetrievalResult{}, "", err
	}
	c.emitEvent("probe", "start", vref.ID, "", "")
	cat, err := c.open(ctx, sess, vref.Link)
	if err != nil {
		return c.probeFallback(ctx, logger, vref, key, "probe failed: "+err.Error())
	}

	f, ok := BestProgressive(cat.Formats, videoContainer)
	if !ok {
		return c.downloadFrom(ctx, logger, cat, key, "no progressive "+videoContainer+" rendition")
	}
	decision := ChooseRetrievalMode(f, c.config.maxDirectBytes())
	if decision.Mode == RetrievalDownload {
		c.emitEvent("probe", "fallback", vref.ID, "", decision.Reason)
		path, cached, err := c.fetch(ctx, logger, cat, f, key)
		if err != nil {
			return RetrievalResult{}, "", err
		}
		return RetrievalResult{Location: path, FormatID: f.FormatID, Reason: decision.Reason}, downloadLabel(cached), nil
	}

	u, err := cat.Source.StreamURL(ctx, f)
	if err != nil {
		metrics.RecordProviderFailure("stream", "stream_url")
		return c.probeFallback(ctx, logger, vref, key, "stream url failed: "+err.Error())
	}
	c.emitEvent("probe", "complete", vref.ID, "", decision.Reason)
	return RetrievalResult{Location: u, Direct: true, FormatID: f.FormatID, Reason: decision.Reason}, "direct", nil
}

// probeFallback abandons the probe and downloads through a fresh provider query.
func (c *Client) probeFallback(ctx context.Context, logger zerolog.Logger, vref CanonicalRef, key, reason string) (RetrievalResult, string, error) {
	logger.Warn().Str("video_id", vref.ID).Str("reason", reason).Msg("direct probe failed, downloading")
	c.emitEvent("probe", "fallback", vref.ID, "", reason)
	return c.downloadBestVideo(ctx, logger, vref, key, reason)
}

func (c *Client) downloadBestVideo(ctx context.Context, logger zerolog.Logger, vref CanonicalRef, key, reason string) (RetrievalResult, string, error) {
	if c.store.Exists(key) {
		path := c.store.Path(key)
		c.emitEvent("download", "cached", vref.ID, path, reason)
		return RetrievalResult{Location: path, Reason: reason}, "cached", nil
	}
	sess, err := c.session()
	if err != nil {
		return RetrievalResult{}, "", err
	}
	cat, err := c.open(ctx, sess, vref.Link)
	if err != nil {
		return RetrievalResult{}, "", err
	}
	return c.downloadFrom(ctx, logger, cat, key, reason)
}

func (c *Client) downloadFrom(ctx context.Context, logger zerolog.Logger, cat *Catalog, key, reason string) (RetrievalResult, string, error) {
	f, ok := BestVideo(cat.Formats, videoContainer)
	if !ok {
		return RetrievalResult{}, "", ErrNoSuitableRendition
	}
	path, cached, err := c.fetch(ctx, logger, cat, f, key)
	if err != nil {
		return RetrievalResult{}, "", err
	}
	return RetrievalResult{Location: path, FormatID: f.FormatID, Reason: reason}, downloadLabel(cached), nil
}

// retrieveAudio downloads the best audio-only rendition. Audio is never
// handed out as a direct URL.
func (c *Client) retrieveAudio(ctx context.Context, logger zerolog.Logger, ref CanonicalRef) (RetrievalResult, string, error) {
	vref, err := c.videoRef(ctx, ref)
	if err != nil {
		return RetrievalResult{}, "", err
	}
	sess, err := c.session()
	if err != nil {
		return RetrievalResult{}, "", err
	}
	cat, err := c.open(ctx, sess, vref.Link)
	if err != nil {
		return RetrievalResult{}, "", err
	}
	f, ok := BestAudio(cat.Formats)
	if !ok {
		return RetrievalResult{}, "", ErrNoSuitableRendition
	}
	path, cached, err := c.fetch(ctx, logger, cat, f, vref.ID+"."+f.Ext())
	if err != nil {
		return RetrievalResult{}, "", err
	}
	return RetrievalResult{Location: path, FormatID: f.FormatID, Reason: "audio is always downloaded"}, downloadLabel(cached), nil
}

func downloadLabel(cached bool) string {
	if cached {
		return "cached"
	}
	return "download"
}
