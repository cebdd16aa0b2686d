package client

import (
	"github.com/samber/lo"

	"github.com/famomatic/ytplay/internal/types"
)

// BestProgressive returns the highest resolution rendition carrying both
// audio and video. A non-empty container restricts the candidates.
func BestProgressive(formats []StreamFormat, container string) (StreamFormat, bool) {
	return bestBy(filterKind(formats, types.FormatProgressive, container), resolutionKey)
}

// BestAdaptiveVideo returns the highest resolution video-only rendition,
// preferring container when one matches.
func BestAdaptiveVideo(formats []StreamFormat, container string) (StreamFormat, bool) {
	if f, ok := bestBy(filterKind(formats, types.FormatAdaptiveVideo, container), resolutionKey); ok {
		return f, true
	}
	return bestBy(filterKind(formats, types.FormatAdaptiveVideo, ""), resolutionKey)
}

// BestVideo is BestProgressive, falling back to BestAdaptiveVideo.
func BestVideo(formats []StreamFormat, container string) (StreamFormat, bool) {
	if f, ok := BestProgressive(formats, container); ok {
		return f, true
	}
	return BestAdaptiveVideo(formats, container)
}

// BestAudio returns the audio-only rendition with the highest bitrate.
func BestAudio(formats []StreamFormat) (StreamFormat, bool) {
	return bestBy(filterKind(formats, types.FormatAdaptiveAudio, ""), func(f StreamFormat) []int {
		return []int{f.Bitrate}
	})
}

// FirstProgressive returns the first progressive rendition in provider order.
func FirstProgressive(formats []StreamFormat) (StreamFormat, bool) {
	return lo.Find(formats, func(f StreamFormat) bool {
		return f.Kind == types.FormatProgressive
	})
}

// ByFormatID returns the rendition with the exact format id.
func ByFormatID(formats []StreamFormat, id string) (StreamFormat, bool) {
	return lo.Find(formats, func(f StreamFormat) bool {
		return f.FormatID == id
	})
}

func filterKind(formats []StreamFormat, kind types.FormatKind, container string) []StreamFormat {
	return lo.Filter(formats, func(f StreamFormat, _ int) bool {
		return f.Kind == kind && (container == "" || f.Container == container)
	})
}

func resolutionKey(f StreamFormat) []int {
	return []int{f.Height, f.Width, f.FPS, f.Bitrate}
}

// bestBy keeps the first of equally ranked candidates.
func bestBy(formats []StreamFormat, key func(StreamFormat) []int) (StreamFormat, bool) {
	var best StreamFormat
	hasBest := false
	for _, f := range formats {
		if !hasBest || compareKeys(key(f), key(best)) {
			best = f
			hasBest = true
		}
	}
	return best, hasBest
}

func compareKeys(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		return a[i] > b[i]
	}
	return false
}
