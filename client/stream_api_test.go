package client

import (
	"context"
	"errors"
	"testing"
)

func TestFormats_ListsProviderOrder(t *testing.T) {
	h := newHarness(testFormats(), nil)
	ref := videoRef(testVideoID)

	listing, err := h.client.Formats(context.Background(), ref)
	if err != nil {
		t.Fatalf("Formats() error = %v", err)
	}
	if listing.Link != ref.Link {
		t.Fatalf("listing link=%q want=%q", listing.Link, ref.Link)
	}
	if len(listing.Formats) != len(testFormats()) || listing.Formats[0].FormatID != "18" {
		t.Fatalf("unexpected formats: %+v", listing.Formats)
	}
}

func TestFormats_ProviderFailureReturnsEmptyListing(t *testing.T) {
	h := newHarness(testFormats(), nil)
	h.streams.errs = []error{errProvider}
	ref := videoRef(testVideoID)

	listing, err := h.client.Formats(context.Background(), ref)
	if err != nil {
		t.Fatalf("Formats() error = %v, want nil", err)
	}
	if len(listing.Formats) != 0 {
		t.Fatalf("expected empty listing, got %d formats", len(listing.Formats))
	}
	if listing.Link != ref.Link {
		t.Fatalf("listing link=%q want=%q", listing.Link, ref.Link)
	}
}

func TestFormats_InvalidReference(t *testing.T) {
	h := newHarness(testFormats(), nil)

	_, err := h.client.Formats(context.Background(), CanonicalRef{Kind: KindPlaylist, Link: "https://www.youtube.com/playlist?list=PL1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Formats() error = %v, want ErrInvalidInput", err)
	}
}

func TestFormatByID(t *testing.T) {
	h := newHarness(testFormats(), nil)
	ctx := context.Background()

	f, ok, err := h.client.FormatByID(ctx, videoRef(testVideoID), "140")
	if err != nil || !ok {
		t.Fatalf("FormatByID(140)=%v,%v", ok, err)
	}
	if f.Kind != FormatAdaptiveAudio {
		t.Fatalf("kind=%v", f.Kind)
	}

	_, ok, err = h.client.FormatByID(ctx, videoRef(testVideoID), "999")
	if err != nil || ok {
		t.Fatalf("FormatByID(999)=%v,%v want false,nil", ok, err)
	}
}

func TestVideoURL(t *testing.T) {
	h := newHarness(testFormats(), nil)

	u, err := h.client.VideoURL(context.Background(), videoRef(testVideoID))
	if err != nil {
		t.Fatalf("VideoURL() error = %v", err)
	}
	if u != "https://media.example/v?itag=22" {
		t.Fatalf("VideoURL()=%q", u)
	}
}

func TestVideoURL_NoProgressive(t *testing.T) {
	h := newHarness([]StreamFormat{{FormatID: "140", Container: "mp4", Kind: FormatAdaptiveAudio}}, nil)

	_, err := h.client.VideoURL(context.Background(), videoRef(testVideoID))
	if !errors.Is(err, ErrNoSuitableRendition) {
		t.Fatalf("VideoURL() error = %v, want ErrNoSuitableRendition", err)
	}
}
