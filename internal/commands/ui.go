package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// gatherer is implemented by backends that record metrics.
type gatherer interface {
	Gatherer() prometheus.Gatherer
}

// runUI starts the interactive program. Replaced in tests.
var runUI = ui.Run

// UICmd opens the interactive task list.
type UICmd struct {
	metricsAddr string
}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return nil }
func (c *UICmd) Synopsis() string   { return "Open the interactive task list" }
func (c *UICmd) Usage() string      { return "todo ui [--metrics <addr>]" }
func (c *UICmd) NeedsBackend() bool { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.metricsAddr, "metrics", "", "")
}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Log lines would corrupt the alternate screen.
	if cfg.Logger != nil {
		if err := cfg.EnsureDir(); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.ConfigError
		}
		logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			fmt.Fprintf(errOut, "error: open log file: %v\n", err)
			return exitcode.ConfigError
		}
		defer logFile.Close()
		prev := cfg.Logger.Out
		cfg.Logger.SetOutput(logFile)
		defer cfg.Logger.SetOutput(prev)
	}

	addr := c.metricsAddr
	if addr == "" {
		addr = cfg.MetricsAddr
	}
	if g, ok := svc.(gatherer); ok && addr != "" {
		stop, err := serveMetrics(cfg, addr, g.Gatherer())
		if err != nil {
			fmt.Fprintf(errOut, "error: metrics listener: %v\n", err)
			return exitcode.ConfigError
		}
		defer stop()
	}

	if err := runUI(ctx, newStore(cfg, svc)); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

// serveMetrics exposes g on addr until the returned stop function is called.
func serveMetrics(cfg *config.Config, addr string, g prometheus.Gatherer) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && cfg.Logger != nil {
			cfg.Logger.WithError(err).Error("metrics server stopped")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
