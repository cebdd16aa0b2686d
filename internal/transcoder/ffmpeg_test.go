package transcoder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs_DefaultTarget(t *testing.T) {
	got := Args("in.webm", "out.mp3", DefaultAudioTarget)
	want := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", "in.webm", "-vn",
		"-ar", "44100", "-ac", "2", "-b:a", "192k",
		"-y", "out.mp3",
	}
	assert.Equal(t, want, got)
}

func TestArgs_ZeroTargetKeepsSourceSettings(t *testing.T) {
	got := Args("a", "b", AudioTarget{})
	assert.Equal(t, []string{"-hide_banner", "-loglevel", "error", "-i", "a", "-vn", "-y", "b"}, got)
}

func TestReencode_MissingBinary(t *testing.T) {
	f := NewFFmpeg(filepath.Join(t.TempDir(), "no-such-ffmpeg"))
	assert.False(t, f.Available())
	err := f.Reencode(context.Background(), "in", "out", DefaultAudioTarget)
	assert.True(t, errors.Is(err, ErrUnavailable), "err=%v", err)
}

func TestReencode_RunsBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nfor last; do true; done\necho encoded > \"$last\"\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	out := filepath.Join(dir, "out.mp3")
	require.NoError(t, NewFFmpeg(bin).Reencode(context.Background(), filepath.Join(dir, "in.webm"), out, DefaultAudioTarget))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "encoded\n", string(data))
}

func TestReencode_FailureCarriesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho 'Invalid data found' >&2\nexit 1\n"), 0o755))

	err := NewFFmpeg(bin).Reencode(context.Background(), "in", "out.mp3", DefaultAudioTarget)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid data found")
}
