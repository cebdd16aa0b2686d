package client

import (
	"context"

	"github.com/famomatic/ytplay/internal/transcoder"
)

// AudioTarget describes the container and encoding audio is normalized to.
type AudioTarget = transcoder.AudioTarget

// DefaultAudioTarget is 44.1 kHz stereo MP3 at 192 kbit/s.
var DefaultAudioTarget = transcoder.DefaultAudioTarget

// Transcoder re-encodes a local audio file.
type Transcoder interface {
	// Reencode reads input and writes output encoded as target.
	// It must not remove input.
	Reencode(ctx context.Context, input, output string, target AudioTarget) error
}
