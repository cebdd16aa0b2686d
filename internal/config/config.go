// Package config loads ytplay settings from defaults, an optional YAML file,
// YTPLAY_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Setting keys. Environment variables are YTPLAY_ plus the key upper-cased
// with dots replaced by underscores.
const (
	KeyDownloadDir      = "download_dir"
	KeyWorkers          = "workers"
	KeyMaxDirectBytes   = "retrieval.max_direct_bytes"
	KeyForceLocal       = "retrieval.force_local"
	KeyCredentialsDir   = "credentials.dir"
	KeyCredentialsAudit = "credentials.audit_log"
	KeyFFmpegPath       = "transcoder.ffmpeg"
	KeyAudioContainer   = "transcoder.container"
	KeyAudioSampleRate  = "transcoder.sample_rate"
	KeyAudioChannels    = "transcoder.channels"
	KeyAudioBitrate     = "transcoder.bitrate"
	KeyProxy            = "network.proxy"
	KeyTimeout          = "network.timeout"
	KeyRetries          = "network.retries"
	KeyRetryBackoff     = "network.retry_backoff"
	KeySearchRate       = "search.requests_per_second"
	KeyLogLevel         = "log.level"
	KeyLogPretty        = "log.pretty"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ytplay"

// EnvKeyReplacer maps setting keys onto environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Defaults holds the factory value of every setting.
var Defaults = map[string]any{
	KeyDownloadDir:      "downloads",
	KeyWorkers:          4,
	KeyMaxDirectBytes:   int64(250 * 1024 * 1024),
	KeyForceLocal:       false,
	KeyCredentialsDir:   "",
	KeyCredentialsAudit: "",
	KeyFFmpegPath:       "ffmpeg",
	KeyAudioContainer:   "mp3",
	KeyAudioSampleRate:  44100,
	KeyAudioChannels:    2,
	KeyAudioBitrate:     "192k",
	KeyProxy:            "",
	KeyTimeout:          30 * time.Second,
	KeyRetries:          2,
	KeyRetryBackoff:     500 * time.Millisecond,
	KeySearchRate:       0.0,
	KeyLogLevel:         "info",
	KeyLogPretty:        false,
}

// Settings is the resolved configuration.
type Settings struct {
	DownloadDir string      `mapstructure:"download_dir" yaml:"download_dir"`
	Workers     int         `mapstructure:"workers" yaml:"workers"`
	Retrieval   Retrieval   `mapstructure:"retrieval" yaml:"retrieval"`
	Credentials Credentials `mapstructure:"credentials" yaml:"credentials"`
	Transcoder  Transcoder  `mapstructure:"transcoder" yaml:"transcoder"`
	Network     Network     `mapstructure:"network" yaml:"network"`
	Search      Search      `mapstructure:"search" yaml:"search"`
	Log         Log         `mapstructure:"log" yaml:"log"`
}

type Retrieval struct {
	MaxDirectBytes int64 `mapstructure:"max_direct_bytes" yaml:"max_direct_bytes"`
	ForceLocal     bool  `mapstructure:"force_local" yaml:"force_local"`
}

// Credentials points at the cookie pool. An empty Dir disables rotation.
type Credentials struct {
	Dir      string `mapstructure:"dir" yaml:"dir"`
	AuditLog string `mapstructure:"audit_log" yaml:"audit_log"`
}

type Transcoder struct {
	FFmpeg     string `mapstructure:"ffmpeg" yaml:"ffmpeg"`
	Container  string `mapstructure:"container" yaml:"container"`
	SampleRate int    `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels   int    `mapstructure:"channels" yaml:"channels"`
	Bitrate    string `mapstructure:"bitrate" yaml:"bitrate"`
}

// Network configures the default providers. Timeout bounds each HTTP
// request, including every chunk request of a download.
type Network struct {
	Proxy        string        `mapstructure:"proxy" yaml:"proxy"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retries      int           `mapstructure:"retries" yaml:"retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" yaml:"retry_backoff"`
}

type Search struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// New returns a viper instance with defaults and environment bindings set
// up, reading files from fs. A nil fs means the OS filesystem.
func New(fs afero.Fs) *viper.Viper {
	v := viper.New()
	if fs != nil {
		v.SetFs(fs)
	}
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}
	return v
}

// Read loads path into v. An empty path searches ytplay.yaml in the working
// directory and tolerates its absence; an explicit path must exist.
func Read(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(EnvPrefix)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Decode resolves v into Settings and validates the result.
func Decode(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the client cannot run with.
func (s Settings) Validate() error {
	var errs []error
	if s.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyWorkers, s.Workers))
	}
	if s.Retrieval.MaxDirectBytes <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyMaxDirectBytes, s.Retrieval.MaxDirectBytes))
	}
	if s.Network.Retries < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", KeyRetries, s.Network.Retries))
	}
	if s.Transcoder.SampleRate <= 0 || s.Transcoder.Channels <= 0 {
		errs = append(errs, fmt.Errorf("transcoder sample_rate and channels must be positive"))
	}
	return errors.Join(errs...)
}
