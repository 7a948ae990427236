package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/semcomply/assessment"
	"github.com/c360studio/semcomply/watch"
)

func watchCmd(g *globals) *cobra.Command {
	var (
		evidence    []string
		debounce    time.Duration
		metricsAddr string
		publish     bool
	)

	cmd := &cobra.Command{
		Use:   "watch <request-file>",
		Short: "Re-assess a system whenever its request or evidence changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			publisher, closeConn, err := connectPublisher(cfg, publish, logger)
			if err != nil {
				return err
			}
			defer closeConn()

			reasoner, err := assessment.FromConfig(cfg, publisher, logger)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				stop := serveMetrics(metricsAddr, logger)
				defer stop()
			}

			request := args[0]
			paths := append([]string{request}, evidence...)
			if req, err := assessment.LoadRequest(request); err == nil {
				for _, f := range req.EvidenceFiles {
					if !filepath.IsAbs(f) {
						f = filepath.Join(filepath.Dir(request), f)
					}
					paths = append(paths, f)
				}
			}

			w, err := watch.New(watch.Config{Paths: paths, DebounceDelay: debounce, Logger: logger})
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer w.Stop()

			out := cmd.OutOrStdout()
			run := func() {
				a, err := assessFile(ctx, reasoner, request, evidence)
				if err != nil {
					logger.Error("Assessment failed", "error", err)
					return
				}
				printSummary(out, a)
			}

			run()
			for ev := range w.Events() {
				logger.Info("Inputs changed", slog.Any("changed", ev.Changed), slog.Any("removed", ev.Removed))
				run()
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&evidence, "evidence", "e", nil, "Evidence file; repeatable")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounceDelay, "Wait this long for more changes before re-assessing")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish each assessment to NATS (nats.url)")
	return cmd
}

func printSummary(w io.Writer, a *assessment.Assessment) {
	fmt.Fprintf(w, "%s  %s  risk=%s gpai=%t requirements=%d missing=%d severity=%s converged=%t\n",
		a.CreatedAt.Format(time.RFC3339),
		a.Classification.SystemID,
		a.Classification.MaxRisk.Name(),
		a.Classification.GPAI,
		len(a.Gaps.Mandatory),
		len(a.Gaps.Missing),
		a.Gaps.Severity,
		a.Inference.Converged)
	for _, c := range a.Gaps.CriticalGaps {
		fmt.Fprintf(w, "    critical: %s (%s)\n", c.RequirementID, c.Reason)
	}
}

// serveMetrics exposes the default Prometheus registry and returns a func
// that shuts the server down.
func serveMetrics(addr string, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
