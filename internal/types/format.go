package types

import (
	"mime"
	"strings"
)

// FormatKind tells which tracks a rendition carries.
type FormatKind int

const (
	FormatUnknown FormatKind = iota
	// FormatProgressive carries both audio and video.
	FormatProgressive
	// FormatAdaptiveVideo is video-only.
	FormatAdaptiveVideo
	// FormatAdaptiveAudio is audio-only.
	FormatAdaptiveAudio
)

func (k FormatKind) String() string {
	switch k {
	case FormatProgressive:
		return "progressive"
	case FormatAdaptiveVideo:
		return "video-only"
	case FormatAdaptiveAudio:
		return "audio-only"
	default:
		return "unknown"
	}
}

// StreamFormat is one rendition offered by the stream provider.
type StreamFormat struct {
	FormatID  string
	MimeType  string
	Container string
	Kind      FormatKind
	Width     int
	Height    int
	FPS       int
	Bitrate   int
	Label     string
	// ApproxSize is the byte size reported by the provider, 0 when unknown.
	ApproxSize int64
}

// SizeKnown reports whether the provider reported a size.
func (f StreamFormat) SizeKnown() bool {
	return f.ApproxSize > 0
}

// HasVideo reports whether the rendition carries a video track.
func (f StreamFormat) HasVideo() bool {
	return f.Kind == FormatProgressive || f.Kind == FormatAdaptiveVideo
}

// HasAudio reports whether the rendition carries an audio track.
func (f StreamFormat) HasAudio() bool {
	return f.Kind == FormatProgressive || f.Kind == FormatAdaptiveAudio
}

// Ext is the file extension used when the rendition is stored locally.
func (f StreamFormat) Ext() string {
	if f.Container != "" {
		return f.Container
	}
	if c := MimeContainer(f.MimeType); c != "" {
		return c
	}
	return "bin"
}

// MimeContainer returns the subtype of a mime type such as
// `video/mp4; codecs="avc1.42001E"`, lowercased.
func MimeContainer(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return ""
	}
	parts := strings.SplitN(mediaType, "/", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.ToLower(parts[1])
}

// FormatListing is the result of listing renditions. Link always echoes the
// link that was queried, including when Formats is empty.
type FormatListing struct {
	Formats []StreamFormat
	Link    string
}
