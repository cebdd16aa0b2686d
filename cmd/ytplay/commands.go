package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/famomatic/ytplay/client"
	"github.com/famomatic/ytplay/internal/cli"
	"github.com/famomatic/ytplay/internal/link"
)

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize INPUT",
		Short: "Classify input as a video, playlist or search query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.ref(args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", ref.Kind, ref.ID, ref.Link)
			return err
		},
	}
}

func newMessageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "message FILE",
		Short: "Extract the link of a chat message (JSON or YAML, - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				msg *link.Message
				err error
			)
			if args[0] == "-" {
				msg, err = cli.ParseMessage(cmd.InOrStdin())
			} else {
				var f afero.File
				f, err = a.fs.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				msg, err = cli.ParseMessage(f)
			}
			if err != nil {
				return err
			}
			u, ok := link.FromMessage(msg)
			if !ok {
				return errors.New("message carries no link")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), link.Truncate(u))
			return err
		},
	}
}

func newExistsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exists LINK",
		Short: "Report whether LINK is a YouTube link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatBool(a.client.Exists(args[0])))
			return err
		},
	}
}

func newDetailsCmd(a *app) *cobra.Command {
	var field string
	cmd := &cobra.Command{
		Use:   "details INPUT",
		Short: "Show metadata of the first search result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.ref(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var value string
			switch field {
			case "":
				md, err := a.client.Details(ctx, ref)
				if err != nil {
					return err
				}
				return a.render(cmd, md)
			case "title":
				value, err = a.client.Title(ctx, ref)
			case "duration":
				value, err = a.client.Duration(ctx, ref)
			case "thumbnail":
				value, err = a.client.Thumbnail(ctx, ref)
			default:
				return fmt.Errorf("unknown field %q", field)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}
	cmd.Flags().StringVar(&field, "field", "", "Print a single field: title, duration or thumbnail")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var rank int
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Pick one of the top search candidates by rank",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.ref(args)
			if err != nil {
				return err
			}
			md, err := a.client.Slider(cmd.Context(), ref, rank)
			if err != nil {
				return err
			}
			return a.render(cmd, md)
		},
	}
	cmd.Flags().IntVar(&rank, "rank", 0, fmt.Sprintf("Candidate index, 0 to %d", client.SliderSize-1))
	return cmd
}

func newFormatsCmd(a *app) *cobra.Command {
	var formatID string
	cmd := &cobra.Command{
		Use:   "formats INPUT",
		Short: "List the renditions of a video",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.ref(args)
			if err != nil {
				return err
			}
			if formatID != "" {
				f, ok, err := a.client.FormatByID(cmd.Context(), ref, formatID)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("format %s not offered", formatID)
				}
				return a.render(cmd, client.FormatListing{Link: ref.Link, Formats: []client.StreamFormat{f}})
			}
			listing, err := a.client.Formats(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return a.render(cmd, listing)
		},
	}
	cmd.Flags().StringVar(&formatID, "id", "", "Show only the rendition with this format id")
	return cmd
}

func newURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "url INPUT",
		Short: "Print the remote URL of the best progressive mp4",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.ref(args)
			if err != nil {
				return err
			}
			u, err := a.client.VideoURL(cmd.Context(), ref)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	var (
		audio    bool
		formatID string
		title    string
	)
	cmd := &cobra.Command{
		Use:   "get INPUT",
		Short: "Retrieve a video or its audio as a direct URL or a local file",
		Long: "Without --title, video may come back as a direct URL when it is small enough\n" +
			"and audio is always downloaded. With --title the chosen rendition is saved as\n" +
			"<title>.mp4, or <title>.mp3 with --audio, transcoding when needed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.ref(args)
			if err != nil {
				return err
			}
			res, err := a.client.Retrieve(cmd.Context(), ref, intentFor(audio, formatID, title))
			if err != nil {
				return fmt.Errorf("%w (%s)", err, client.ClassifyError(err))
			}
			return a.render(cmd, res)
		},
	}
	cmd.Flags().BoolVar(&audio, "audio", false, "Retrieve audio instead of video")
	cmd.Flags().StringVarP(&formatID, "format", "f", "", "Exact format id (requires --title)")
	cmd.Flags().StringVar(&title, "title", "", "Save under this title instead of the video id")
	return cmd
}

func intentFor(audio bool, formatID, title string) client.Intent {
	explicit := title != "" || formatID != ""
	switch {
	case explicit && audio:
		return client.Intent{Mode: client.ModeFormatAudio, FormatID: formatID, Title: title}
	case explicit:
		return client.Intent{Mode: client.ModeFormatVideo, FormatID: formatID, Title: title}
	case audio:
		return client.Intent{Mode: client.ModeAudio}
	default:
		return client.Intent{Mode: client.ModeVideo}
	}
}

func newPlaylistCmd(a *app) *cobra.Command {
	var (
		limit   int
		details bool
	)
	cmd := &cobra.Command{
		Use:   "playlist INPUT",
		Short: "List the video ids of a playlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.ref(args)
			if err != nil {
				return err
			}
			ids, err := a.client.Playlist(cmd.Context(), ref, limit)
			if err != nil {
				return err
			}
			if !details {
				return a.render(cmd, ids)
			}

			tracks := make([]client.TrackMetadata, len(ids))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.settings.Workers)
			for i, id := range ids {
				g.Go(func() error {
					vref, err := link.FromID(id, client.KindVideo)
					if err != nil {
						return err
					}
					md, err := a.client.Details(ctx, vref)
					if err != nil {
						return fmt.Errorf("details of %s: %w", id, err)
					}
					tracks[i] = md
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			return a.render(cmd, tracks)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Maximum number of members")
	cmd.Flags().BoolVar(&details, "details", false, "Look up metadata of every member")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := a.output
			if format == cli.OutputText {
				format = cli.OutputYAML
			}
			if a.v.ConfigFileUsed() != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "# %s\n", a.v.ConfigFileUsed())
			}
			return cli.Render(cmd.OutOrStdout(), format, a.settings)
		},
	}
}
