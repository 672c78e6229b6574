package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amirhf/clipfeed/services/search-go/api"
	"github.com/amirhf/clipfeed/services/search-go/models"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		handler := api.NewHandler(a.engine, a.history, a.refresher, models.ClientConfig{
			SearchDebounceMS: cfg.SearchDebounce.Milliseconds(),
			SuggestDelayMS:   cfg.SuggestDelay.Milliseconds(),
			MaxSuggestions:   cfg.MaxSuggestions,
			MaxResults:       cfg.DefaultMaxResults,
		})

		server := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: api.NewRouter(handler),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.WithField("port", cfg.Port).Info("search service running")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			return a.refresher.Run(gctx, cfg.RefreshInterval)
		})
		if cfg.WatchVideos && a.watchPath != "" {
			g.Go(func() error {
				if err := a.refresher.Watch(gctx, a.watchPath); err != nil {
					// search keeps working without live reload
					logger.WithError(err).Warn("catalog watch disabled")
				}
				return nil
			})
		}

		// Graceful Shutdown
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("server shutdown error")
			}
			return nil
		})

		err = g.Wait()
		logger.Info("server stopped")
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
