package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finqa/internal/api"
)

func serveCMD(cfgPath *string) *cobra.Command {
	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.log.Sync()
			if serveAddr == "" {
				serveAddr = a.cfg.Server.Addr
			}

			syn, err := a.synthesizer()
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              serveAddr,
				Handler:           api.NewServer(syn, a.store, a.log.Named("api")),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() {
				a.log.Info("listening", zap.String("addr", serveAddr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.log.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	return serve
}
