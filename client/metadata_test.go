package client

import (
	"context"
	"errors"
	"testing"
)

func TestDetails_NormalizesThumbnailAndDuration(t *testing.T) {
	h := newHarness(nil, nil)
	h.search.results = []TrackMetadata{{
		ID:              testVideoID,
		Title:           "Never Gonna Give You Up",
		DurationDisplay: "3:33",
		Thumbnail:       "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg?sqp=abc&rs=xyz",
		Link:            "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}}

	md, err := h.client.Details(context.Background(), CanonicalRef{Kind: KindQuery, Link: "rick astley"})
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if md.Thumbnail != "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Fatalf("thumbnail=%q", md.Thumbnail)
	}
	if md.DurationSeconds != 213 {
		t.Fatalf("duration seconds=%d want=213", md.DurationSeconds)
	}
	if h.search.calls != 1 || h.search.limits[0] != 1 {
		t.Fatalf("search calls=%d limits=%v, want one call with limit 1", h.search.calls, h.search.limits)
	}
}

func TestDetails_MissingDurationIsZero(t *testing.T) {
	for _, display := range []string{"", "None", " none "} {
		h := newHarness(nil, nil)
		h.search.results = []TrackMetadata{{ID: testVideoID, Title: "live", DurationDisplay: display, DurationSeconds: 99}}

		md, err := h.client.Details(context.Background(), videoRef(testVideoID))
		if err != nil {
			t.Fatalf("%q: Details() error = %v", display, err)
		}
		if md.DurationSeconds != 0 || md.DurationDisplay != "" {
			t.Fatalf("%q: got display=%q seconds=%d, want empty and 0", display, md.DurationDisplay, md.DurationSeconds)
		}
	}
}

func TestDetails_NoResults(t *testing.T) {
	h := newHarness(nil, nil)

	_, err := h.client.Details(context.Background(), CanonicalRef{Kind: KindQuery, Link: "nothing"})
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("Details() error = %v, want ErrNoResults", err)
	}
}

func TestDetails_ProviderFailure(t *testing.T) {
	h := newHarness(nil, nil)
	h.search.err = errProvider

	_, err := h.client.Details(context.Background(), CanonicalRef{Kind: KindQuery, Link: "x"})
	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Provider != "search" {
		t.Fatalf("Details() error = %v, want search ProviderError", err)
	}
}

func TestDetails_EmptyQuery(t *testing.T) {
	h := newHarness(nil, nil)

	_, err := h.client.Details(context.Background(), CanonicalRef{Kind: KindQuery, Link: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Details() error = %v, want ErrInvalidInput", err)
	}
	if h.search.calls != 0 {
		t.Fatalf("search called %d times for empty query", h.search.calls)
	}
}

func TestSingleFieldLookups(t *testing.T) {
	h := newHarness(nil, nil)
	h.search.results = []TrackMetadata{{ID: testVideoID, Title: "T", DurationDisplay: "1:00:01", Thumbnail: "https://t/x.jpg?a=1"}}
	ctx := context.Background()
	ref := CanonicalRef{Kind: KindQuery, Link: "q"}

	title, err := h.client.Title(ctx, ref)
	if err != nil || title != "T" {
		t.Fatalf("Title()=%q,%v", title, err)
	}
	dur, err := h.client.Duration(ctx, ref)
	if err != nil || dur != "1:00:01" {
		t.Fatalf("Duration()=%q,%v", dur, err)
	}
	thumb, err := h.client.Thumbnail(ctx, ref)
	if err != nil || thumb != "https://t/x.jpg" {
		t.Fatalf("Thumbnail()=%q,%v", thumb, err)
	}
	if h.search.calls != 3 {
		t.Fatalf("search calls=%d want=3", h.search.calls)
	}
}

func TestSlider(t *testing.T) {
	h := newHarness(nil, nil)
	for _, id := range []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"} {
		h.search.results = append(h.search.results, TrackMetadata{ID: id, Title: id})
	}
	ctx := context.Background()
	ref := CanonicalRef{Kind: KindQuery, Link: "q"}

	md, err := h.client.Slider(ctx, ref, 2)
	if err != nil {
		t.Fatalf("Slider() error = %v", err)
	}
	if md.ID != "ccccccccccc" {
		t.Fatalf("Slider(2) id=%q", md.ID)
	}
	if h.search.limits[0] != SliderSize {
		t.Fatalf("slider limit=%d want=%d", h.search.limits[0], SliderSize)
	}

	if _, err := h.client.Slider(ctx, ref, 3); !errors.Is(err, ErrNoResults) {
		t.Fatalf("Slider(3) error = %v, want ErrNoResults", err)
	}
	if _, err := h.client.Slider(ctx, ref, -1); !errors.Is(err, ErrNoResults) {
		t.Fatalf("Slider(-1) error = %v, want ErrNoResults", err)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "45", want: 45, wantOK: true},
		{in: "3:33", want: 213, wantOK: true},
		{in: "1:02:03", want: 3723, wantOK: true},
		{in: "None", want: 0, wantOK: true},
		{in: "", want: 0, wantOK: true},
		{in: "1:xx", want: 0, wantOK: false},
		{in: "-1:00", want: 0, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseDuration(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("ParseDuration(%q)=(%d,%v) want=(%d,%v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
