package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nerdwave-nick/pokeview/internal/api"
	"github.com/nerdwave-nick/pokeview/internal/api/health"
	intapi "github.com/nerdwave-nick/pokeview/internal/api/pokeapi"
	"github.com/nerdwave-nick/pokeview/internal/config"
	"github.com/nerdwave-nick/pokeview/internal/moves"
	"github.com/spf13/cobra"
)

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", config.DefaultConfig().Server.Port, "The port to listen on")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve records, sprites, comparisons and move pages over a JSON api",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("incorrect command usage:\n%w", err)
			}
		}
		return serveMain(cmd.Context())
	},
}

func stopServerWithTimeout(server *http.Server) error {
	slog.Debug("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := server.Shutdown(ctx)
	if err != nil {
		slog.Error("shutting down http server", slog.Any("error", err))
		return err
	}
	return nil
}

func serveMain(parentCtx context.Context) error {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	rt, err := openRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	// move pages live as long as the in memory cache entries
	pages, err := moves.NewStore(cfg.Server.MaxSessions, cfg.Cache.L1TTL.Duration, cfg.Parallelism, rt.metrics)
	if err != nil {
		return err
	}
	defer pages.Close()

	mux := http.NewServeMux()
	router := api.MakeRouter(
		mux,
		cfg.Server.CORSOrigins,
		rt.metrics.Registry,
		[]api.Controller{
			health.MakeController(),
			intapi.MakeController(rt.fetcher, pages),
		},
	)
	slog.Debug("router created, proceeding to start backend...")

	server := &http.Server{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
	}

	go func() {
		defer cancel()
		slog.Info("server ready to listen...", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				return
			}
			slog.Error("error in listen and serve", slog.Any("error", err))
		}
	}()

	<-ctx.Done()
	return stopServerWithTimeout(server)
}
