// Package cli adapts resolved settings and client results for the command line.
package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/famomatic/ytplay/client"
	"github.com/famomatic/ytplay/internal/config"
	"github.com/famomatic/ytplay/internal/credentials"
	ytlog "github.com/famomatic/ytplay/internal/log"
	"github.com/famomatic/ytplay/internal/store"
	"github.com/famomatic/ytplay/internal/transcoder"
	"github.com/famomatic/ytplay/internal/youtube"
)

// Options carries what the command line adds on top of the settings.
type Options struct {
	// Fs backs the store and the credential pool. Nil means the OS filesystem.
	Fs afero.Fs
	// ForceLocal overrides retrieval.force_local when non-nil. It is
	// consulted on every retrieval.
	ForceLocal func() bool
	OnEvent    func(client.Event)
	Logger     *zerolog.Logger
}

// ToClientConfig converts settings to client.Config.
func ToClientConfig(s config.Settings, opts Options) (client.Config, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	if p := strings.TrimSpace(s.Network.Proxy); p != "" {
		if _, err := url.Parse(p); err != nil {
			return client.Config{}, fmt.Errorf("invalid proxy url: %w", err)
		}
	}

	cfg := client.Config{
		Store:          store.New(fs, s.DownloadDir),
		MaxDirectBytes: s.Retrieval.MaxDirectBytes,
		Workers:        s.Workers,
		ProxyURL:       strings.TrimSpace(s.Network.Proxy),
		RequestTimeout: s.Network.Timeout,
		MetadataRetry: youtube.RetryConfig{
			MaxRetries:     s.Network.Retries,
			InitialBackoff: s.Network.RetryBackoff,
		},
		SearchRequestsPerSecond: s.Search.RequestsPerSecond,
		AudioTarget: transcoder.AudioTarget{
			Container:  s.Transcoder.Container,
			SampleRate: s.Transcoder.SampleRate,
			Channels:   s.Transcoder.Channels,
			Bitrate:    s.Transcoder.Bitrate,
		},
		OnEvent: opts.OnEvent,
		Logger:  opts.Logger,
	}

	if opts.ForceLocal != nil {
		force := opts.ForceLocal
		cfg.ForceLocalVideo = func(context.Context) bool { return force() }
	} else {
		cfg.ForceLocalVideo = client.StaticSwitch(s.Retrieval.ForceLocal)
	}

	// Transcoder check (ffmpeg). It reads and writes real paths, so it only
	// works on a store backed by the OS filesystem.
	if path := strings.TrimSpace(s.Transcoder.FFmpeg); path != "" {
		ff := transcoder.NewFFmpeg(path)
		_, onDisk := fs.(*afero.OsFs)
		switch {
		case !ff.Available():
			ytlog.WithComponent("cli").Warn().Str("ffmpeg", path).Msg("ffmpeg not found, audio transcoding disabled")
		case !onDisk:
			ytlog.WithComponent("cli").Warn().Str("fs", fs.Name()).Msg("store is not on the OS filesystem, audio transcoding disabled")
		default:
			cfg.Transcoder = ff
		}
	}

	if dir := strings.TrimSpace(s.Credentials.Dir); dir != "" {
		poolOpts := []credentials.Option{}
		if opts.Logger != nil {
			poolOpts = append(poolOpts, credentials.WithLogger(*opts.Logger))
		}
		cfg.Credentials = credentials.NewPool(fs, dir, strings.TrimSpace(s.Credentials.AuditLog), poolOpts...)
	}

	return cfg, nil
}
