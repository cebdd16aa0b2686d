package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"

	yt "github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famomatic/ytplay/internal/types"
)

func TestConvertFormat_Kinds(t *testing.T) {
	tests := []struct {
		name string
		in   yt.Format
		want types.FormatKind
	}{
		{name: "progressive", in: yt.Format{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, AudioChannels: 2}, want: types.FormatProgressive},
		{name: "video only", in: yt.Format{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`}, want: types.FormatAdaptiveVideo},
		{name: "audio only", in: yt.Format{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, AudioChannels: 2}, want: types.FormatAdaptiveAudio},
		{name: "unknown", in: yt.Format{ItagNo: 1, MimeType: "text/plain"}, want: types.FormatUnknown},
	}
	for _, tt := range tests {
		got := convertFormat(tt.in)
		assert.Equal(t, tt.want, got.Kind, tt.name)
	}
}

func TestConvertFormat_Fields(t *testing.T) {
	got := convertFormat(yt.Format{
		ItagNo:         22,
		MimeType:       `video/mp4; codecs="avc1.64001F, mp4a.40.2"`,
		Quality:        "hd720",
		QualityLabel:   "720p",
		AverageBitrate: 1500000,
		FPS:            30,
		Width:          1280,
		Height:         720,
		ContentLength:  1 << 20,
		AudioChannels:  2,
	})
	assert.Equal(t, "22", got.FormatID)
	assert.Equal(t, "mp4", got.Container)
	assert.Equal(t, "720p", got.Label)
	assert.Equal(t, 1500000, got.Bitrate)
	assert.Equal(t, int64(1<<20), got.ApproxSize)
	assert.True(t, got.SizeKnown())

	unknown := convertFormat(yt.Format{ItagNo: 140, MimeType: "audio/mp4", Quality: "tiny"})
	assert.False(t, unknown.SizeKnown())
	assert.Equal(t, "tiny", unknown.Label)
}

func TestFindFormat(t *testing.T) {
	list := yt.FormatList{{ItagNo: 18}, {ItagNo: 140}}
	f, ok := findFormat(list, "140")
	require.True(t, ok)
	assert.Equal(t, 140, f.ItagNo)

	_, ok = findFormat(list, "999")
	assert.False(t, ok)
	_, ok = findFormat(list, "abc")
	assert.False(t, ok)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{in: 0, want: ""},
		{in: 5, want: "0:05"},
		{in: 225, want: "3:45"},
		{in: 3725, want: "1:02:05"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Fatalf("formatDuration(%d)=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestSearchClient_MapsAndLimits(t *testing.T) {
	c := NewSearchClient(SearchOptions{})
	c.search = func(_ context.Context, query string) ([]searchHit, error) {
		assert.Equal(t, "lofi", query)
		return []searchHit{
			{ID: "aaaaaaaaaaa", Title: "First", Seconds: 225, Thumbnail: "https://i.ytimg.com/vi/a/hq.jpg?sqp=x", Channel: "Chan"},
			{ID: "", Title: "Channel result"},
			{ID: "bbbbbbbbbbb", Title: "Live", Seconds: 0},
			{ID: "ccccccccccc", Title: "Third"},
		}, nil
	}

	got, err := c.Search(context.Background(), "lofi", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "3:45", got[0].DurationDisplay)
	assert.Equal(t, 225, got[0].DurationSeconds)
	assert.Equal(t, "https://www.youtube.com/watch?v=aaaaaaaaaaa", got[0].Link)
	assert.Equal(t, "Chan", got[0].Channel)
	assert.Equal(t, "", got[1].DurationDisplay)
	assert.Equal(t, 0, got[1].DurationSeconds)
}

func TestSearchClient_Error(t *testing.T) {
	c := NewSearchClient(SearchOptions{})
	boom := errors.New("boom")
	c.search = func(context.Context, string) ([]searchHit, error) { return nil, boom }
	_, err := c.Search(context.Background(), "x", 1)
	assert.ErrorIs(t, err, boom)
}

func TestSearchClient_LimiterHonoursContext(t *testing.T) {
	c := NewSearchClient(SearchOptions{RequestsPerSecond: 0.001, Burst: 1})
	calls := 0
	c.search = func(context.Context, string) ([]searchHit, error) { calls++; return nil, nil }

	_, err := c.Search(context.Background(), "x", 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Search(ctx, "x", 1)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}

	attempts := 0
	v, err := withRetry(context.Background(), cfg, func(context.Context) (int, error) {
		attempts++
		if attempts < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, attempts)

	attempts = 0
	_, err = withRetry(context.Background(), cfg, func(context.Context) (int, error) {
		attempts++
		return 0, yt.ErrVideoPrivate
	})
	assert.ErrorIs(t, err, yt.ErrVideoPrivate)
	assert.Equal(t, 1, attempts)
}

func TestBackoffFor(t *testing.T) {
	cfg := normalizeRetryConfig(RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond})
	assert.Equal(t, 100*time.Millisecond, cfg.backoffFor(0))
	assert.Equal(t, 200*time.Millisecond, cfg.backoffFor(1))
	assert.Equal(t, 300*time.Millisecond, cfg.backoffFor(2))
}

func TestNewHTTPClient_Proxy(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:8080", time.Second)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	req, _ := http.NewRequest(http.MethodGet, "https://www.youtube.com", nil)
	u, err := tr.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", u.Host)

	assert.Nil(t, NewHTTPClient("::bad", 0).Transport)
	assert.Nil(t, NewHTTPClient("", 0).Transport)
}

func TestWithJar_DoesNotMutateBase(t *testing.T) {
	base := &http.Client{}
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	c := withJar(base, jar)
	assert.Nil(t, base.Jar)
	assert.Equal(t, jar, c.Jar)
	assert.Same(t, base, withJar(base, nil))
}
