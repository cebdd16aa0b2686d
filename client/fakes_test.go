package client

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/famomatic/ytplay/internal/credentials"
	"github.com/famomatic/ytplay/internal/store"
)

type fakeSearch struct {
	mu      sync.Mutex
	results []TrackMetadata
	err     error
	calls   int
	queries []string
	limits  []int
}

func (f *fakeSearch) Search(_ context.Context, query string, limit int) ([]TrackMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.queries = append(f.queries, query)
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > limit {
		return f.results[:limit], nil
	}
	return f.results, nil
}

type fakeSource struct {
	mu        sync.Mutex
	url       string
	urlErr    error
	body      string
	dlErr     error
	downloads []string
}

func (s *fakeSource) StreamURL(_ context.Context, f StreamFormat) (string, error) {
	if s.urlErr != nil {
		return "", s.urlErr
	}
	return s.url + "?itag=" + f.FormatID, nil
}

func (s *fakeSource) Download(_ context.Context, f StreamFormat, w io.Writer) (int64, error) {
	s.mu.Lock()
	s.downloads = append(s.downloads, f.FormatID)
	s.mu.Unlock()
	if s.dlErr != nil {
		return 0, s.dlErr
	}
	return io.Copy(w, strings.NewReader(s.body))
}

func (s *fakeSource) downloadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.downloads)
}

// fakeStreams answers Open with a catalog over formats. errs is consumed one
// per call before succeeding.
type fakeStreams struct {
	mu       sync.Mutex
	formats  []StreamFormat
	source   *fakeSource
	errs     []error
	calls    int
	sessions []*Session
	members  []string
	listErr  error
}

func (f *fakeStreams) Open(_ context.Context, sess *Session, link string) (*Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.sessions = append(f.sessions, sess)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	id := link[strings.LastIndex(link, "=")+1:]
	return &Catalog{VideoID: id, Title: "title " + id, Formats: f.formats, Source: f.source}, nil
}

func (f *fakeStreams) PlaylistMembers(_ context.Context, sess *Session, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.sessions = append(f.sessions, sess)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.members, nil
}

func (f *fakeStreams) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeTranscoder writes a marker file at output on the store filesystem.
type fakeTranscoder struct {
	fs     afero.Fs
	err    error
	inputs []string
	target AudioTarget
}

func (t *fakeTranscoder) Reencode(_ context.Context, input, output string, target AudioTarget) error {
	t.inputs = append(t.inputs, input)
	t.target = target
	if t.err != nil {
		return t.err
	}
	return afero.WriteFile(t.fs, output, []byte("mp3"), 0o644)
}

type fakeCredentials struct {
	bundle *credentials.Bundle
	err    error
	calls  int
}

func (c *fakeCredentials) Acquire() (*credentials.Bundle, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.bundle, nil
}

var errProvider = errors.New("provider unavailable")

const (
	testVideoID = "dQw4w9WgXcQ"
	mib         = int64(1024 * 1024)
)

func testFormats() []StreamFormat {
	return []StreamFormat{
		{FormatID: "18", MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Container: "mp4", Kind: FormatProgressive, Width: 640, Height: 360, FPS: 30, Bitrate: 500000, ApproxSize: 20 * mib},
		{FormatID: "22", MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, Container: "mp4", Kind: FormatProgressive, Width: 1280, Height: 720, FPS: 30, Bitrate: 1500000, ApproxSize: 60 * mib},
		{FormatID: "137", MimeType: `video/mp4; codecs="avc1.640028"`, Container: "mp4", Kind: FormatAdaptiveVideo, Width: 1920, Height: 1080, FPS: 30, Bitrate: 4000000, ApproxSize: 300 * mib},
		{FormatID: "140", MimeType: `audio/mp4; codecs="mp4a.40.2"`, Container: "mp4", Kind: FormatAdaptiveAudio, Bitrate: 128000, ApproxSize: 3 * mib},
		{FormatID: "251", MimeType: `audio/webm; codecs="opus"`, Container: "webm", Kind: FormatAdaptiveAudio, Bitrate: 160000, ApproxSize: 4 * mib},
	}
}

type harness struct {
	client     *Client
	fs         afero.Fs
	store      *store.Store
	search     *fakeSearch
	streams    *fakeStreams
	source     *fakeSource
	transcoder *fakeTranscoder
	events     []Event
}

func newHarness(formats []StreamFormat, mutate func(*Config)) *harness {
	fs := afero.NewMemMapFs()
	h := &harness{
		fs:         fs,
		store:      store.New(fs, "downloads"),
		search:     &fakeSearch{},
		source:     &fakeSource{url: "https://media.example/v", body: "media-bytes"},
		transcoder: &fakeTranscoder{fs: fs},
	}
	h.streams = &fakeStreams{formats: formats, source: h.source}
	cfg := Config{
		Metadata:   h.search,
		Streams:    h.streams,
		Store:      h.store,
		Transcoder: h.transcoder,
		Workers:    2,
		OnEvent:    func(e Event) { h.events = append(h.events, e) },
	}
	if mutate != nil {
		mutate(&cfg)
	}
	h.client = New(cfg)
	return h
}

func videoRef(id string) CanonicalRef {
	return CanonicalRef{ID: id, Kind: KindVideo, Link: "https://www.youtube.com/watch?v=" + id}
}
