// Command ramfsctl boots the in-memory file system engine standalone,
// registers it with a local vfshost, and serves its Prometheus metrics over
// HTTP, the same shape as the teacher's cmd.rootCmd wiring a mount command
// to typed cfg.Config via cobra and viper.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kallisti-go/ramfs/cfg"
	"github.com/kallisti-go/ramfs/internal/ramfs"
	"github.com/kallisti-go/ramfs/internal/vfshost"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ramfsctl",
	Short: "Run the in-memory file system engine as a standalone process",
	RunE:  run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	cfg.BindFlags(flags)
	flags.StringVar(&cfgFile, "config", "", "path to a YAML config file")
}

func run(cmd *cobra.Command, args []string) error {
	c, err := cfg.Load(viper.New(), cmd.Flags(), cfgFile)
	if err != nil {
		return err
	}

	logger := newLogger(c.Logging)
	slog.SetDefault(logger)

	var metrics *ramfs.Metrics
	if c.Metrics.Enabled {
		metrics, err = startMetrics(c.Metrics.Addr)
		if err != nil {
			return fmt.Errorf("ramfsctl: starting metrics: %w", err)
		}
	}

	var engineCfg ramfs.Config
	if err := mapstructure.Decode(map[string]any{
		"MaxHandles":                c.Engine.MaxHandles,
		"InitialFileCapacity":       int(c.Engine.InitialFileCapacity),
		"ReallocSlack":              int(c.Engine.ReallocSlack),
		"DetachPlaceholderCapacity": int(c.Engine.DetachPlaceholderCapacity),
		"MountName":                 c.Engine.MountName,
		"StatDeviceTag":             c.Engine.StatDeviceTag,
	}, &engineCfg); err != nil {
		return fmt.Errorf("ramfsctl: translating engine config: %w", err)
	}

	fs := ramfs.New(engineCfg, ramfs.WithLogger(logger), ramfs.WithMetrics(metrics))
	if err := fs.Init(); err != nil {
		return fmt.Errorf("ramfsctl: initializing engine: %w", err)
	}
	defer fs.Shutdown()

	host := vfshost.New()
	if err := host.Register(c.Engine.MountName, ramfs.NewOperationTable(fs)); err != nil {
		return fmt.Errorf("ramfsctl: registering mount: %w", err)
	}
	defer host.Deregister(c.Engine.MountName)

	logger.Info("ramfsctl ready", "mount", c.Engine.MountName, "max_handles", c.Engine.MaxHandles)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("ramfsctl shutting down")
	return nil
}

func newLogger(lc cfg.LoggingConfig) *slog.Logger {
	var w *os.File = os.Stdout
	var handler slog.Handler

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	if lc.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   lc.FilePath,
			MaxSize:    lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
		}
		if lc.Format == "json" {
			handler = slog.NewJSONHandler(rotator, opts)
		} else {
			handler = slog.NewTextHandler(rotator, opts)
		}
		return slog.New(handler)
	}

	if lc.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func startMetrics(addr string) (*ramfs.Metrics, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	metrics, err := ramfs.NewMetrics(provider.Meter("ramfs"))
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server exited", "error", err)
		}
	}()

	return metrics, nil
}
