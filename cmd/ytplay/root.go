package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/famomatic/ytplay/client"
	"github.com/famomatic/ytplay/internal/cli"
	"github.com/famomatic/ytplay/internal/config"
	ytlog "github.com/famomatic/ytplay/internal/log"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	v        *viper.Viper
	fs       afero.Fs
	settings config.Settings
	client   *client.Client

	configPath string
	output     string
	verbose    bool
	idKind     string

	// configure adjusts the client configuration before the client is built.
	configure func(*client.Config)
}

func newRootCmd(configure func(*client.Config)) *cobra.Command {
	a := &app{fs: afero.NewOsFs(), configure: configure}
	a.v = config.New(a.fs)

	root := &cobra.Command{
		Use:           "ytplay",
		Short:         "Resolve YouTube links and queries into playable media",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file (default ./ytplay.yaml when present)")
	flags.StringVarP(&a.output, "output", "o", cli.OutputText, "Output format: text, yaml or json")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Print progress events to stderr")
	flags.StringVar(&a.idKind, "id-kind", "", "Treat INPUT as a bare id: video or playlist")

	flags.String("download-dir", "downloads", "Directory downloaded media is stored in")
	lo.Must0(a.v.BindPFlag(config.KeyDownloadDir, flags.Lookup("download-dir")))

	flags.String("cookies-dir", "", "Credential pool directory of Netscape cookie files")
	lo.Must0(a.v.BindPFlag(config.KeyCredentialsDir, flags.Lookup("cookies-dir")))

	flags.String("audit-log", "", "File each credential selection is appended to")
	lo.Must0(a.v.BindPFlag(config.KeyCredentialsAudit, flags.Lookup("audit-log")))

	flags.String("ffmpeg", "ffmpeg", "Path to the ffmpeg binary")
	lo.Must0(a.v.BindPFlag(config.KeyFFmpegPath, flags.Lookup("ffmpeg")))

	flags.String("proxy", "", "HTTP, HTTPS or SOCKS proxy URL")
	lo.Must0(a.v.BindPFlag(config.KeyProxy, flags.Lookup("proxy")))

	flags.Duration("timeout", 0, "Per-request HTTP timeout (0 keeps the configured value)")
	lo.Must0(a.v.BindPFlag(config.KeyTimeout, flags.Lookup("timeout")))

	flags.Int64("max-direct-bytes", 250*1024*1024, "Largest video handed out as a direct URL")
	lo.Must0(a.v.BindPFlag(config.KeyMaxDirectBytes, flags.Lookup("max-direct-bytes")))

	flags.Bool("force-local", false, "Always download video instead of returning a direct URL")
	lo.Must0(a.v.BindPFlag(config.KeyForceLocal, flags.Lookup("force-local")))

	flags.Int("workers", 4, "Maximum concurrent provider calls, downloads and transcodes")
	lo.Must0(a.v.BindPFlag(config.KeyWorkers, flags.Lookup("workers")))

	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	lo.Must0(a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")))

	flags.Bool("log-pretty", false, "Human readable log output")
	lo.Must0(a.v.BindPFlag(config.KeyLogPretty, flags.Lookup("log-pretty")))

	root.AddCommand(
		newNormalizeCmd(a),
		newMessageCmd(a),
		newExistsCmd(a),
		newDetailsCmd(a),
		newSearchCmd(a),
		newFormatsCmd(a),
		newURLCmd(a),
		newGetCmd(a),
		newPlaylistCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.Read(a.v, a.configPath); err != nil {
		return err
	}
	s, err := config.Decode(a.v)
	if err != nil {
		return err
	}
	a.settings = s

	ytlog.Configure(ytlog.Config{Level: s.Log.Level, Pretty: s.Log.Pretty, Output: cmd.ErrOrStderr()})
	logger := ytlog.WithComponent("cli")

	opts := cli.Options{
		Fs:         a.fs,
		ForceLocal: func() bool { return a.v.GetBool(config.KeyForceLocal) },
		Logger:     &logger,
	}
	if a.verbose {
		stderr := cmd.ErrOrStderr()
		opts.OnEvent = func(evt client.Event) {
			_, _ = fmt.Fprintln(stderr, cli.FormatEvent(evt))
		}
	}
	cfg, err := cli.ToClientConfig(s, opts)
	if err != nil {
		return err
	}
	if a.configure != nil {
		a.configure(&cfg)
	}
	a.client = client.New(cfg)
	return nil
}

func (a *app) render(cmd *cobra.Command, v any) error {
	return cli.Render(cmd.OutOrStdout(), a.output, v)
}

// ref normalizes the joined arguments, or builds a reference from a bare
// id when --id-kind is set.
func (a *app) ref(args []string) (client.CanonicalRef, error) {
	input := strings.Join(args, " ")
	switch a.idKind {
	case "":
		return a.client.Normalize(input)
	case "video":
		return a.client.FromID(input, client.KindVideo)
	case "playlist":
		return a.client.FromID(input, client.KindPlaylist)
	default:
		return client.CanonicalRef{}, fmt.Errorf("unknown --id-kind %q, want video or playlist", a.idKind)
	}
}
