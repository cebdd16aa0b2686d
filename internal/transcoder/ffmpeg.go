// Package transcoder re-encodes downloaded audio with an external ffmpeg binary.
package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrUnavailable is returned when the ffmpeg binary cannot be found.
var ErrUnavailable = errors.New("ffmpeg not available")

// AudioTarget describes the encoding audio is normalized to.
type AudioTarget struct {
	Container  string
	SampleRate int
	Channels   int
	Bitrate    string
}

// DefaultAudioTarget is 44.1 kHz stereo MP3 at 192 kbit/s.
var DefaultAudioTarget = AudioTarget{
	Container:  "mp3",
	SampleRate: 44100,
	Channels:   2,
	Bitrate:    "192k",
}

// FFmpeg runs the ffmpeg command line tool.
type FFmpeg struct {
	Path string
}

// NewFFmpeg returns an FFmpeg transcoder.
// If path is empty, it looks for "ffmpeg" in PATH.
func NewFFmpeg(path string) *FFmpeg {
	if strings.TrimSpace(path) == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{Path: path}
}

// Available checks if ffmpeg is executable.
func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath(f.Path)
	return err == nil
}

// Reencode converts input into output using target. The input file is left
// in place; removing it is up to the caller.
func (f *FFmpeg) Reencode(ctx context.Context, input, output string, target AudioTarget) error {
	if !f.Available() {
		return fmt.Errorf("%w: %s", ErrUnavailable, f.Path)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Path, Args(input, output, target)...) // #nosec G204
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 512 {
			msg = msg[len(msg)-512:]
		}
		if msg != "" {
			return fmt.Errorf("ffmpeg reencode failed: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg reencode failed: %w", err)
	}
	return nil
}

// Args builds the ffmpeg argument list:
// ffmpeg -i in -vn -ar 44100 -ac 2 -b:a 192k -y out
func Args(input, output string, target AudioTarget) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-i", input, "-vn"}
	if target.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(target.SampleRate))
	}
	if target.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(target.Channels))
	}
	if target.Bitrate != "" {
		args = append(args, "-b:a", target.Bitrate)
	}
	return append(args, "-y", output)
}
