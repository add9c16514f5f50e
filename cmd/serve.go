package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/careerkitsune/careerkitsune-ai/internal/api"
	"github.com/careerkitsune/careerkitsune-ai/internal/logger"
	"github.com/careerkitsune/careerkitsune-ai/internal/sessions"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("redis-url", "", "keep sessions in redis instead of memory")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.redis-url", serveCmd.Flags().Lookup("redis-url"))
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	cfg := config.Server

	repo, err := openRepository(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening the backend", zap.Error(err), zap.String("backend", config.Backend))
	}
	defer repo.Close()

	g, ctx := errgroup.WithContext(ctx)

	var store sessions.Store
	if cfg.RedisURL != "" {
		rs, err := sessions.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			logger.Fatal("connecting to redis", zap.Error(err))
		}
		defer rs.Close()
		store = rs
		logger.Info("sessions stored in redis", zap.Duration("ttl", cfg.SessionTTL))
	} else {
		ms := sessions.NewMemoryStore(cfg.SessionTTL)
		store = ms
		g.Go(func() error {
			return ms.RunSweeper(ctx, sweepInterval, logger.Named("sessions"))
		})
		logger.Info("sessions stored in memory", zap.Duration("ttl", cfg.SessionTTL))
	}

	server := api.New(newAssistant(repo, config, logger), store, logger.Named("api"), api.Options{
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
	})
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("version", version))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	// A zero TTL keeps sessions forever, and their limiters with them.
	if cfg.SessionTTL > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if n := server.Prune(cfg.SessionTTL); n > 0 {
						logger.Debug("pruned idle session limiters", zap.Int("count", n))
					}
				}
			}
		})
	}

	return g.Wait()
}
