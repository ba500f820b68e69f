package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chabad360/improtron-osc/config"
	"github.com/chabad360/improtron-osc/hub"
	"github.com/chabad360/improtron-osc/osc"
	"github.com/chabad360/improtron-osc/remote"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Listen for OSC cues",
	Long: `Listen for OSC messages on UDP and publish the resulting actions
on a WebSocket feed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var o config.FlagOverrides
		flags := cmd.Flags()
		if flags.Changed("listen") {
			v, _ := flags.GetString("listen")
			o.OSCListen = &v
		}
		if flags.Changed("events") {
			v, _ := flags.GetBool("events")
			o.EventsEnabled = &v
		}
		if flags.Changed("events-listen") {
			v, _ := flags.GetString("events-listen")
			o.EventsListen = &v
		}

		cfg, err := loadConfig(cmd, o)
		if err != nil {
			return err
		}
		logger, err := setupLogger(os.Stdout, cfg.Logging.Level)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return errors.Wrap(runServe(ctx, cfg, logger), "running server")
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "OSC UDP listen addr (host:port)")
	serveCmd.Flags().Bool("events", true, "publish actions on the WebSocket feed")
	serveCmd.Flags().String("events-listen", "", "WebSocket feed listen addr (host:port)")
	RootCmd.AddCommand(serveCmd)
}

// runServe runs the OSC listener and, if enabled, the WebSocket feed until ctx is done.
// A listener that can't bind is logged and the rest keeps running without remote control.
func runServe(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	sinks := remote.Fanout{cueLog(logger)}

	if cfg.Events.Enabled {
		h := hub.New(logger, hub.Config{
			SendBuf:      cfg.Events.SendBuf,
			BroadcastBuf: cfg.Events.BroadcastBuf,
		})
		sinks = append(sinks, h)

		mux := http.NewServeMux()
		h.Register(ctx, mux, cfg.Events.Path)
		srv := &http.Server{Addr: cfg.Events.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			h.Run(ctx)
			return nil
		})
		g.Go(func() error {
			logger.Info("events listening", "addr", cfg.Events.Listen, "path", cfg.Events.Path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "events server")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	server := &osc.Server{
		Addr:        cfg.OSC.Listen,
		Handler:     remote.NewRouter(logger, sinks),
		Logger:      logger,
		ReadTimeout: time.Duration(cfg.OSC.ReadTimeoutMS) * time.Millisecond,
	}
	g.Go(func() error {
		if err := server.ListenAndServe(ctx); err != nil {
			logger.Error("osc remote control unavailable", "addr", cfg.OSC.Listen, "error", err)
			<-ctx.Done()
		}
		return nil
	})

	return g.Wait()
}

// cueLog logs each action with its own fields.
func cueLog(logger *slog.Logger) *remote.Hooks {
	cue := func(k remote.Kind, args ...any) {
		logger.Info("cue", append([]any{"action", string(k)}, args...)...)
	}
	return &remote.Hooks{
		SoundPlay:     func(a remote.SoundPlay) { cue(a.Kind(), "tag_query", a.TagQuery) },
		SoundStop:     func(a remote.SoundStop) { cue(a.Kind()) },
		SoundSeek:     func(a remote.SoundSeek) { cue(a.Kind(), "seek_seconds", a.SeekSeconds, "tag_query", a.TagQuery) },
		SoundFade:     func(a remote.SoundFade) { cue(a.Kind(), "fade_seconds", a.FadeSeconds) },
		SoundPlaylist: func(a remote.SoundPlaylist) { cue(a.Kind(), "playlist_name", a.PlaylistName) },
		SoundStinger:  func(a remote.SoundStinger) { cue(a.Kind(), "tag_query", a.TagQuery) },
		MediaShow:     func(a remote.MediaShow) { cue(a.Kind(), "monitor", a.Monitor, "tag_query", a.TagQuery) },
		SpinboxChange: func(a remote.SpinboxChange) { cue(a.Kind(), "control", a.ControlID, "delta", a.Delta) },
		ButtonPress:   func(a remote.ButtonPress) { cue(a.Kind(), "control", a.ControlID) },
		SfxPlay:       func(a remote.SfxPlay) { cue(a.Kind(), "tag_query", a.TagQuery) },
		SfxStopAll:    func(a remote.SfxStopAll) { cue(a.Kind()) },
	}
}
