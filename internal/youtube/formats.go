package youtube

import (
	"strconv"
	"strings"

	yt "github.com/kkdai/youtube/v2"

	"github.com/famomatic/ytplay/internal/types"
)

func convertFormat(f yt.Format) types.StreamFormat {
	label := f.QualityLabel
	if label == "" {
		label = f.Quality
	}
	bitrate := f.Bitrate
	if bitrate == 0 {
		bitrate = f.AverageBitrate
	}
	return types.StreamFormat{
		FormatID:   strconv.Itoa(f.ItagNo),
		MimeType:   f.MimeType,
		Container:  types.MimeContainer(f.MimeType),
		Kind:       formatKind(f.MimeType, f.AudioChannels),
		Width:      f.Width,
		Height:     f.Height,
		FPS:        f.FPS,
		Bitrate:    bitrate,
		Label:      label,
		ApproxSize: f.ContentLength,
	}
}

// formatKind classifies by mime type. Video renditions that report audio
// channels carry both tracks.
func formatKind(mimeType string, audioChannels int) types.FormatKind {
	switch {
	case strings.HasPrefix(mimeType, "video/") && audioChannels > 0:
		return types.FormatProgressive
	case strings.HasPrefix(mimeType, "video/"):
		return types.FormatAdaptiveVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return types.FormatAdaptiveAudio
	default:
		return types.FormatUnknown
	}
}

func convertFormats(list yt.FormatList) []types.StreamFormat {
	out := make([]types.StreamFormat, 0, len(list))
	for _, f := range list {
		out = append(out, convertFormat(f))
	}
	return out
}

func findFormat(list yt.FormatList, formatID string) (*yt.Format, bool) {
	itag, err := strconv.Atoi(formatID)
	if err != nil {
		return nil, false
	}
	for i := range list {
		if list[i].ItagNo == itag {
			return &list[i], true
		}
	}
	return nil, false
}
