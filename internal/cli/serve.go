package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/afgraph/internal/server"
	"github.com/matzehuels/afgraph/pkg/observability"
	"github.com/matzehuels/afgraph/pkg/session"
)

type serveOpts struct {
	addr       string
	layout     string
	watch      bool
	metrics    bool
	sessionTTL time.Duration
}

// serveCommand creates the web viewer command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web viewer",
		Long: `Serve the graph viewer over HTTP. Every browser gets its own session
with its own k entry, problem label and index table; all sessions share the
dataset connection.`,
		Example: `  afgraph serve -l reads.fa --addr :8080 --watch`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "node layout (eades, neato, fdp, circle)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload when the FASTA file changes")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", true, "expose Prometheus metrics at /metrics")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", session.DefaultTTL, "drop idle sessions after this long")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	rc := conn.cfg.Render
	override(&rc.Layout, opts.layout)
	renderer, err := newRenderer(rc)
	if err != nil {
		return err
	}

	cfg := server.Config{
		Engine:     conn.engine,
		Renderer:   renderer,
		Logger:     logger,
		SessionTTL: opts.sessionTTL,
	}
	if opts.metrics {
		prom := observability.NewPrometheus()
		prom.Install()
		cfg.Metrics = prom.Handler()
	}
	srv := server.New(cfg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go srv.Cleanup(ctx, time.Minute)

	if opts.watch {
		if path := watchPath(conn.store); path != "" {
			if err := watchFile(ctx, path, srv.Reload); err != nil {
				return err
			}
			printDetail("Watching %s", path)
		} else {
			printWarning("--watch only applies to FASTA files")
		}
	}

	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	printSuccess("Serving %s", conn.store.Scope())
	printKeyValue("URL", StyleHighlight.Render("http://"+ln.Addr().String()))
	if opts.metrics {
		printKeyValue("Metrics", "http://"+ln.Addr().String()+"/metrics")
	}

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.Serve(ln) }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return httpSrv.Shutdown(shutdownCtx)
}
