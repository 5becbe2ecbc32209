package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/roach88/desk/internal/httpapi"
	"github.com/roach88/desk/internal/report"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for desk front-ends",
		Long: `Serve the ledger and reports over HTTP until interrupted.

Routes live under /api; /healthz reports store health and /metrics exposes
Prometheus counters.

Examples:
  desk serve
  desk serve --addr 127.0.0.1:9090 --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default: server.addr setting)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	period, err := report.ParsePeriod(sess.cfg.Report.Period)
	if err != nil {
		return out.Fail("invalid report.period", err)
	}

	addr := opts.Addr
	if addr == "" {
		addr = sess.cfg.Server.Addr
	}

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := httpapi.NewHandler(sess.ledger, sess.store, httpapi.ReportDefaults{
		Days:     sess.cfg.Report.DefaultDays,
		Period:   period,
		FillGaps: sess.cfg.Report.FillGaps,
		Location: sess.cfg.Location,
		Now:      clockOf(opts.RootOptions).Now,
	})
	server := httpapi.NewServer(httpapi.RouterConfig{
		Handler:  handler,
		Gatherer: sess.registry,
		Logger:   sess.logger,
	})

	// Shut down cleanly on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess.logger.Info("serving", "addr", addr, "database", sess.cfg.DatabasePath())
	if err := server.Run(ctx, addr); err != nil {
		return WrapExitError(ExitCommandError, "server failed", err)
	}
	sess.logger.Info("server stopped")
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
