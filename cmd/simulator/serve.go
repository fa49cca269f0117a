package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"prouni-simulator/internal/api"
	"prouni-simulator/internal/common/config"
	"prouni-simulator/internal/common/observability"
	"prouni-simulator/internal/simulation"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		obs := observability.New(cfg.App.Name)
		defer obs.Shutdown()

		a, err := newApp(ctx, obs, 10)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Address
		}

		server := api.NewServer(cfg.Server, a.engine, a.store, log,
			simulation.WithMinProcessing(config.GetDuration(cfg.Simulation.MinProcessing))).
			WithCourses(a.backend)

		srv := &http.Server{
			Addr:              addr,
			Handler:           server.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			log.Info("shutting down server", nil)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		log.Info("starting server", map[string]interface{}{
			"address": addr,
			"engine":  cfg.Engine.Mode,
			"store":   cfg.Store.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
