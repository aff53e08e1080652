package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/moodcheck/internal/logger"
	"github.com/julianstephens/moodcheck/internal/tui"
)

type TuiCmd struct {
	MetricsAddr string `help:"Serve Prometheus metrics on this address while the TUI runs (e.g. 127.0.0.1:9464)." env:"MOODCHECK_METRICS_ADDR"`
}

func (c *TuiCmd) Run(ctx *Context) error {
	ctx.PerformAutomaticBackup()

	if c.MetricsAddr != "" {
		srv := ctx.metricsServer(c.MetricsAddr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("Metrics server stopped", "addr", c.MetricsAddr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	p := tea.NewProgram(tui.NewModel(ctx.Pipeline, ctx.Stats, ctx.Clock), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func (c *Context) metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
