package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/asciiplay/audio"
	"go.jacobcolvin.com/asciiplay/config"
	"go.jacobcolvin.com/asciiplay/frames"
	"go.jacobcolvin.com/asciiplay/log"
	"go.jacobcolvin.com/asciiplay/player"
	"go.jacobcolvin.com/asciiplay/profile"
	"go.jacobcolvin.com/asciiplay/version"
)

const framesSuffix = "_frames.txt"

var (
	// ErrFileNotFound indicates a required input file does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrRoundTrip indicates a frame file does not survive re-encoding.
	ErrRoundTrip = errors.New("round trip")
)

// app holds the command tree and the state shared by its commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// termWidth reports the width of the output terminal, if there is one.
	termWidth func() (int, bool)

	root      *cobra.Command
	configCfg *config.Config
	logCfg    *log.Config
	profCfg   *profile.Config
	audioCfg  *audio.Config
	playCfg   *player.Config

	logger   *slog.Logger
	logs     *log.Publisher
	profiler *profile.Profiler

	outputDir string
}

func newApp(stdout, stderr io.Writer) *app {
	a := &app{
		stdout:    stdout,
		stderr:    stderr,
		termWidth: stdoutWidth,
		configCfg: config.NewConfig(),
		logCfg:    log.NewConfig(),
		profCfg:   profile.NewConfig(),
		audioCfg:  audio.NewConfig(),
		playCfg:   player.NewConfig(),
		logger:    slog.New(slog.DiscardHandler),
	}

	a.root = &cobra.Command{
		Use:   "asciiplay [flags] <video>",
		Short: "Play ASCII-art frames in sync with a video's audio",
		Long: `asciiplay renders precomputed ASCII-art frames to the terminal while the
audio track of the source video plays. Frames are read from
<output-dir>/<video-stem>_frames.txt.`,
		Args:              cobra.ExactArgs(1),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd.Context(), args[0])
		},
	}

	a.root.SetOut(stdout)
	a.root.SetErr(stderr)

	persistent := a.root.PersistentFlags()
	a.configCfg.RegisterFlags(persistent)
	a.logCfg.RegisterFlags(persistent)
	a.profCfg.RegisterFlags(persistent)

	local := a.root.Flags()
	local.StringVar(&a.outputDir, "output-dir", "output", "directory holding <video-stem>_frames.txt")
	a.audioCfg.RegisterFlags(local)
	a.playCfg.RegisterFlags(local)

	a.root.AddCommand(a.inspectCmd(), a.schemaCmd(), a.versionCmd())

	for _, register := range []func(*cobra.Command) error{
		a.configCfg.RegisterCompletions,
		a.logCfg.RegisterCompletions,
		a.profCfg.RegisterCompletions,
		a.audioCfg.RegisterCompletions,
		a.playCfg.RegisterCompletions,
	} {
		err := register(a.root)
		if err != nil {
			fmt.Fprintf(stderr, "register completions: %v\n", err)
		}
	}

	a.configCfg.Enum(a.logCfg.Flags.Level, log.GetAllLevelStrings()...)
	a.configCfg.Enum(a.logCfg.Flags.Format, log.GetAllFormatStrings()...)
	a.configCfg.Enum(a.audioCfg.Flags.Backend, audio.Backends()...)

	return a
}

// execute runs the command tree with args and stops the profiler afterwards.
func (a *app) execute(ctx context.Context, args []string) error {
	a.root.SetArgs(args)

	err := a.root.ExecuteContext(ctx)

	if a.profiler != nil {
		stopErr := a.profiler.Stop()
		if stopErr != nil {
			a.logger.Error("stop profiler", slog.Any("error", stopErr))
		}
	}

	if a.logs != nil {
		must(a.logs.Close())
	}

	return err
}

// setup applies configuration sources, builds the logger, and starts the
// profiler before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.configCfg.Known = a.root.LocalFlags()

	err := a.configCfg.Load(cmd.Flags())
	if err != nil {
		return err
	}

	if cmd == a.root {
		err = errors.Join(a.audioCfg.Validate(), a.playCfg.Validate())
		if err != nil {
			return err
		}
	}

	var w io.Writer = a.stderr
	if cmd == a.root && a.playCfg.TUI {
		a.logs = log.NewPublisher()
		w = a.logs
	}

	a.logger, err = a.logCfg.NewLogger(w, slog.String("session", uuid.NewString()))
	if err != nil {
		return err
	}

	a.profiler = a.profCfg.NewProfiler(a.logger)

	return a.profiler.Start()
}

// play loads the frames for video and plays them with its audio.
func (a *app) play(ctx context.Context, video string) error {
	framesPath := framesPathFor(a.outputDir, video)

	for _, path := range []string{video, framesPath} {
		err := checkFile(path)
		if err != nil {
			return err
		}
	}

	store, err := frames.Load(framesPath, a.logger)
	if err != nil {
		return err
	}

	a.checkWidth(store)

	opts := append(a.playCfg.Options(), player.WithLogger(a.logger))

	if a.audioCfg.Enabled() {
		pipeline, audioErr := a.audioCfg.NewPipeline(video, a.logger)
		if audioErr != nil {
			a.logger.Warn("open audio device, playing without sound", slog.Any("error", audioErr))
		} else {
			opts = append(opts, player.WithAudio(pipeline))
		}
	}

	var state player.State

	if a.playCfg.TUI {
		state, err = a.playTUI(ctx, store, opts)
	} else {
		sched := player.New(store, append(opts, player.WithRenderer(player.NewTerminal(a.stdout)))...)
		state, err = sched.Run(ctx)
	}

	if err != nil {
		return err
	}

	if state == player.StateCompleted {
		fmt.Fprintln(a.stdout, "Playback complete.")
	}

	return nil
}

// playTUI plays store inside the full-screen terminal UI.
func (a *app) playTUI(ctx context.Context, store *frames.Store, opts []player.Option) (player.State, error) {
	view := player.NewView()
	sched := player.New(store, append(opts, player.WithRenderer(view))...)

	err := sched.Start(ctx)
	if err != nil {
		// Cancelled during the startup delay.
		return sched.State(), nil //nolint:nilerr // Cancellation is a normal outcome.
	}

	var sub *log.Subscription
	if a.logs != nil {
		sub = a.logs.Subscribe()
		defer sub.Close()
	}

	p := tea.NewProgram(player.NewModel(sched, view, sub),
		tea.WithContext(ctx),
		tea.WithOutput(a.stdout),
	)

	_, err = p.Run()

	if sched.State() == player.StatePlaying {
		sched.Cancel()
	}

	if err != nil && ctx.Err() == nil {
		return sched.State(), fmt.Errorf("run terminal UI: %w", err)
	}

	return sched.State(), nil
}

// checkWidth warns when the frames are wider than the output terminal.
func (a *app) checkWidth(store *frames.Store) {
	cols, ok := a.termWidth()
	if !ok {
		return
	}

	if w := store.Width(); w > cols {
		a.logger.Warn("frames are wider than the terminal",
			slog.Int("frame_width", w),
			slog.Int("terminal_width", cols),
		)
	}
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <frames-file>",
		Short: "Print a summary of a frame file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			err := checkFile(args[0])
			if err != nil {
				return err
			}

			store, err := frames.Load(args[0], a.logger)
			if err != nil {
				return err
			}

			err = roundTrip(store)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "frames:   %d\n", store.Len())
			fmt.Fprintf(a.stdout, "duration: %s\n", frames.FormatTimestamp(store.Duration()))
			fmt.Fprintf(a.stdout, "width:    %d\n", store.Width())

			return nil
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			out, err := json.MarshalIndent(a.configCfg.Schema(a.root.LocalFlags()), "", "  ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}

			_, err = fmt.Fprintf(a.stdout, "%s\n", out)

			return err
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(a.stdout, version.Get())

			return err
		},
	}
}

// roundTrip checks that store survives re-encoding unchanged, which holds
// for every file written in the canonical format.
func roundTrip(store *frames.Store) error {
	var buf bytes.Buffer

	err := frames.Encode(&buf, store.Frames())
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrRoundTrip, err)
	}

	again, err := frames.Parse(&buf)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRoundTrip, err)
	}

	if !slices.Equal(again, store.Frames()) {
		return fmt.Errorf("%w: frames differ after re-encoding", ErrRoundTrip)
	}

	return nil
}

// framesPathFor returns <dir>/<video-stem>_frames.txt.
func framesPathFor(dir, video string) string {
	base := filepath.Base(video)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return filepath.Join(dir, stem+framesSuffix)
}

// checkFile returns [ErrFileNotFound] when path does not exist.
func checkFile(path string) error {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	return nil
}

func stdoutWidth() (int, bool) {
	fd := int(os.Stdout.Fd()) //nolint:gosec // File descriptors fit in int.
	if !term.IsTerminal(fd) {
		return 0, false
	}

	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0, false
	}

	return w, true
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
