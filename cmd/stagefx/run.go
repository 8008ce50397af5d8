package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/stagefx/app"
	"github.com/lixenwraith/stagefx/audio"
	"github.com/lixenwraith/stagefx/config"
	"github.com/lixenwraith/stagefx/engine"
	"github.com/lixenwraith/stagefx/motion"
	"github.com/lixenwraith/stagefx/telemetry"
)

type runOptions struct {
	reducedMotion bool
	mute          bool
	metricsAddr   string
	watch         bool
	seed          int64
}

var runFlags runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the stage (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, runFlags)
	},
}

func bindRunFlags(cmds ...*cobra.Command) {
	for _, c := range append(cmds, runCmd) {
		f := c.Flags()
		f.BoolVar(&runFlags.reducedMotion, "reduced-motion", false, "force the reduced motion timeline")
		f.BoolVar(&runFlags.mute, "mute", false, "start with transition sounds muted")
		f.StringVar(&runFlags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
		f.BoolVar(&runFlags.watch, "watch", true, "reload the config file when it changes")
		f.Int64Var(&runFlags.seed, "seed", 0, "particle seed override (0 keeps the configured seed)")
	}
}

// taskBuffer bounds timer callbacks waiting for the loop
const taskBuffer = 64

func runStage(cmd *cobra.Command, opts runOptions) error {
	cfg, path, err := config.LoadAuto(configPath)
	if err != nil {
		return err
	}
	if opts.seed != 0 {
		cfg.Particles.Seed = opts.seed
	}
	logger.Info("config loaded", zap.String("source", sourceName(path)))

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	defer screen.Fini()

	// Restore the terminal before reporting a crash
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mSTAGEFX CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	sched := engine.NewLoopScheduler(taskBuffer)
	defer sched.Close()

	var metrics *telemetry.Metrics
	if opts.metricsAddr != "" {
		metrics = telemetry.New(true)
	}

	var capability motion.Capability = motion.EnvCapability{}
	if opts.reducedMotion {
		capability = motion.Static(true)
	}

	var sink audio.Sink
	if cfg.Audio.Enabled {
		if s, err := startSpeaker(cfg.Audio); err != nil {
			logger.Warn("audio unavailable, continuing without sound", zap.Error(err))
		} else {
			sink = s
		}
	}

	show, err := app.New(app.Options{
		Config:     cfg,
		Scheduler:  sched,
		Capability: capability,
		Sink:       sink,
		Metrics:    metrics,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer show.Close()
	if opts.mute {
		show.ToggleMute()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if metrics != nil {
		srv := newMetricsServer(opts.metricsAddr, metrics)
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	var updates <-chan config.Config
	if opts.watch && path != "" {
		w := config.NewWatcher(path, logger)
		updates = w.Updates()
		g.Go(func() error { return w.Run(gctx) })
	}

	events := pollEvents(gctx, screen)
	loop(gctx, screen, show, sched, events, updates)

	cancel()
	return g.Wait()
}

func sourceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

func newMetricsServer(addr string, m *telemetry.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

// pollEvents forwards terminal events until the screen is finalized or ctx ends
// Input polling uses a raw goroutine as it blocks on the terminal
func pollEvents(ctx context.Context, screen tcell.Screen) <-chan tcell.Event {
	events := make(chan tcell.Event, 256)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				screen.Fini()
				fmt.Fprintf(os.Stderr, "\r\n\x1b[31mEVENT POLLER CRASHED: %v\x1b[0m\r\n", r)
				fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
				os.Exit(1)
			}
		}()
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events
}

// loop is the single thread that owns the showcase
func loop(ctx context.Context, screen tcell.Screen, show *app.Showcase, sched *engine.LoopScheduler, events <-chan tcell.Event, updates <-chan config.Config) {
	fps := show.Config().Render.FPS
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	show.Draw(screen, 0)

	for {
		select {
		case <-ctx.Done():
			return

		case fn := <-sched.Tasks():
			fn()

		case ev := <-events:
			switch handleEvent(show, ev) {
			case actionQuit:
				return
			case actionResize:
				screen.Sync()
			}

		case cfg := <-updates:
			if err := show.ApplyConfig(cfg); err != nil {
				logger.Warn("config not applied", zap.Error(err))
				continue
			}
			if next := cfg.Render.FPS; next != fps {
				fps = next
				ticker.Reset(time.Second / time.Duration(fps))
			}

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			show.Draw(screen, dt)
		}
	}
}
