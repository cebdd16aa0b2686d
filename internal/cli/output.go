package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/famomatic/ytplay/client"
)

// Output formats accepted by Render.
const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// FormatEvent renders a client event as a single log line.
func FormatEvent(evt client.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", evt.Stage, evt.Phase)
	if evt.VideoID != "" {
		fmt.Fprintf(&b, " video_id=%s", evt.VideoID)
	}
	if evt.Path != "" {
		fmt.Fprintf(&b, " path=%s", evt.Path)
	}
	if evt.Detail != "" {
		fmt.Fprintf(&b, " detail=%s", evt.Detail)
	}
	return b.String()
}

// Render writes v to w in the requested format.
func Render(w io.Writer, format string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", OutputText:
		return renderText(w, v)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toDocument(v)); err != nil {
			return err
		}
		return enc.Close()
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toDocument(v))
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

type trackDoc struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Channel  string `yaml:"channel,omitempty" json:"channel,omitempty"`
	Duration string `yaml:"duration" json:"duration"`
	Seconds  int    `yaml:"duration_seconds" json:"duration_seconds"`
	Thumb    string `yaml:"thumbnail" json:"thumbnail"`
	Link     string `yaml:"link" json:"link"`
}

type formatDoc struct {
	ID      string `yaml:"id" json:"id"`
	Kind    string `yaml:"kind" json:"kind"`
	Mime    string `yaml:"mime" json:"mime"`
	Label   string `yaml:"label,omitempty" json:"label,omitempty"`
	Width   int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height  int    `yaml:"height,omitempty" json:"height,omitempty"`
	FPS     int    `yaml:"fps,omitempty" json:"fps,omitempty"`
	Bitrate int    `yaml:"bitrate" json:"bitrate"`
	Size    int64  `yaml:"size,omitempty" json:"size,omitempty"`
}

type listingDoc struct {
	Link    string      `yaml:"link" json:"link"`
	Formats []formatDoc `yaml:"formats" json:"formats"`
}

type resultDoc struct {
	Location string `yaml:"location" json:"location"`
	Direct   bool   `yaml:"direct" json:"direct"`
	FormatID string `yaml:"format_id,omitempty" json:"format_id,omitempty"`
	Reason   string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

func toDocument(v any) any {
	switch x := v.(type) {
	case client.TrackMetadata:
		return trackDoc{
			ID:       x.ID,
			Title:    x.Title,
			Channel:  x.Channel,
			Duration: x.DurationDisplay,
			Seconds:  x.DurationSeconds,
			Thumb:    x.Thumbnail,
			Link:     x.Link,
		}
	case []client.TrackMetadata:
		docs := make([]trackDoc, 0, len(x))
		for _, md := range x {
			docs = append(docs, toDocument(md).(trackDoc))
		}
		return docs
	case client.FormatListing:
		doc := listingDoc{Link: x.Link, Formats: make([]formatDoc, 0, len(x.Formats))}
		for _, f := range x.Formats {
			doc.Formats = append(doc.Formats, formatDoc{
				ID:      f.FormatID,
				Kind:    f.Kind.String(),
				Mime:    f.MimeType,
				Label:   f.Label,
				Width:   f.Width,
				Height:  f.Height,
				FPS:     f.FPS,
				Bitrate: f.Bitrate,
				Size:    f.ApproxSize,
			})
		}
		return doc
	case client.RetrievalResult:
		return resultDoc{Location: x.Location, Direct: x.Direct, FormatID: x.FormatID, Reason: x.Reason}
	default:
		return v
	}
}

func renderText(w io.Writer, v any) error {
	switch x := v.(type) {
	case client.TrackMetadata:
		_, err := fmt.Fprintf(w, "%s\n  id:        %s\n  duration:  %s (%ds)\n  thumbnail: %s\n  link:      %s\n",
			x.Title, x.ID, x.DurationDisplay, x.DurationSeconds, x.Thumbnail, x.Link)
		return err
	case []client.TrackMetadata:
		for i, md := range x {
			if _, err := fmt.Fprintf(w, "%2d. %s [%s] %s\n", i, md.Title, md.DurationDisplay, md.Link); err != nil {
				return err
			}
		}
		return nil
	case client.FormatListing:
		return renderListing(w, x)
	case client.RetrievalResult:
		mode := "local"
		if x.Direct {
			mode = "direct"
		}
		_, err := fmt.Fprintf(w, "%s %s\n  format: %s\n  reason: %s\n", mode, x.Location, x.FormatID, x.Reason)
		return err
	case []string:
		for _, s := range x {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

func renderListing(w io.Writer, l client.FormatListing) error {
	if len(l.Formats) == 0 {
		_, err := fmt.Fprintf(w, "no formats available for %s\n", l.Link)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tCONTAINER\tRESOLUTION\tFPS\tBITRATE\tSIZE")
	for _, f := range l.Formats {
		res := "audio only"
		if f.HasVideo() {
			res = fmt.Sprintf("%dx%d", f.Width, f.Height)
		}
		size := "unknown"
		if f.SizeKnown() {
			size = humanize.IBytes(uint64(f.ApproxSize))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			f.FormatID, f.Kind, f.Ext(), res, f.FPS, humanize.SI(float64(f.Bitrate), "bps"), size)
	}
	return tw.Flush()
}
