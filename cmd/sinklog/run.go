package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/destination"
	"github.com/philipp01105/sinklog/destination/console"
	"github.com/philipp01105/sinklog/destination/file"
	"github.com/philipp01105/sinklog/destination/zapsink"
	"github.com/philipp01105/sinklog/internal/diag"
	"github.com/philipp01105/sinklog/logger"
	"github.com/philipp01105/sinklog/manager"
)

type runOptions struct {
	configPath string
	watch      bool
	duration   time.Duration
	interval   time.Duration
	debugID    string
	verbose    bool
}

func newRunCmd() *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a demo pipeline",
		Long: `Build the destinations named in the configuration, start a manager and
log demo traffic from several categories until interrupted or until
--duration elapses. Without --config a text console destination at Info
level is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "reload the configuration file when it changes")
	cmd.Flags().DurationVar(&o.duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	cmd.Flags().DurationVar(&o.interval, "interval", 500*time.Millisecond, "time between demo entries")
	cmd.Flags().StringVar(&o.debugID, "debug-id", "", "debug-mode id to activate")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "print pipeline diagnostics")
	return cmd
}

func (o *runOptions) run(ctx context.Context, stdout, stderr io.Writer) error {
	if o.watch && o.configPath == "" {
		return errors.New("--watch needs --config")
	}
	if o.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating diagnostics logger: %w", err)
		}
		prev := diag.SetLogger(l)
		defer diag.SetLogger(prev)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if o.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.duration)
		defer cancel()
	}

	src := o.source()
	settings, err := src.Load(ctx)
	if err != nil {
		return err
	}
	dests, err := buildDestinations(settings, stdout, stderr)
	if err != nil {
		return err
	}

	m := manager.New()
	if err := m.Initialize(ctx, dests, src, o.debugID); err != nil {
		return fmt.Errorf("initializing pipeline: %w", err)
	}
	if o.watch {
		if err := m.Watch(ctx, o.configPath); err != nil {
			_ = m.Dispose()
			return err
		}
	}

	emitDemo(ctx, m, o.interval)
	return m.Dispose()
}

func (o *runOptions) source() config.Source {
	if o.configPath != "" {
		return config.File(o.configPath)
	}
	cfg := config.Default()
	cfg.MinLevel = core.InfoLevel
	cfg.IsThreadSafe = true
	cfg.Options = map[string]string{"format": "text"}
	return config.Static(map[string]config.Configuration{config.Name(console.Type): cfg})
}

// buildDestinations creates one destination per known configuration name.
func buildDestinations(s config.Settings, stdout, stderr io.Writer) ([]destination.Destination, error) {
	names := make([]string, 0, len(s.Destinations))
	for name := range s.Destinations {
		names = append(names, name)
	}
	sort.Strings(names)

	var dests []destination.Destination
	for _, name := range names {
		cfg := s.Destinations[name]
		switch name {
		case config.Name(console.Type):
			w := stdout
			if cfg.Option("stream", "stdout") == "stderr" {
				w = stderr
			}
			dests = append(dests, console.New(console.Config{
				Writer:      w,
				Format:      cfg.Option("format", "text"),
				IncludeTags: cfg.BoolOption("tags", false),
			}))
		case config.Name(file.Type):
			d, err := file.FromConfiguration(cfg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			dests = append(dests, d)
		case config.Name(zapsink.Type):
			d, err := zapsink.FromConfiguration(cfg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			dests = append(dests, d)
		default:
			diag.Warn("sinklog", "Ignoring %s: no destination of that type", name)
		}
	}
	return dests, nil
}

var demoCategories = []string{"Net", "Gameplay", "Audio"}

// emitDemo logs a rotating mix of levels and importances until ctx is
// done.
func emitDemo(ctx context.Context, m *manager.Manager, interval time.Duration) {
	loggers := make([]logger.Logger, len(demoCategories))
	for i, c := range demoCategories {
		loggers[i] = m.CreateLogger(c)
	}
	m.AddGlobalTag("demo")

	m.Panics().Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
			return errors.New("background sync failed")
		}
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		l := loggers[n%len(loggers)]
		attrs := logger.Attrs(core.Importance(n%3), logger.Int("seq", n))
		switch n % 5 {
		case 0:
			l.LogDebug("heartbeat", attrs)
		case 1:
			l.LogInfo("tick", attrs)
		case 2:
			l.LogFormat(core.InfoLevel, "%d entries so far", attrs, n+1)
		case 3:
			l.LogWarning("slow frame", attrs)
		default:
			l.LogError("request failed", attrs)
		}
	}
}
