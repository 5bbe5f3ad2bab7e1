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

	"github.com/englifish/englifish/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve exercise sets and grammar topics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := cliEnv(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			addr := e.cfg.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}

			srv := server.New(e.lib, server.Options{
				AllowedOrigins: e.cfg.Server.AllowedOrigins,
				Logger:         e.logger,
				Version:        version,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(addr) }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	c.Flags().String("addr", "", "Listen address (overrides server.addr)")
	return c
}
