// Package serve runs the admin API.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/adminapi"
	"noracloud/servicenextcloud/internal/app"
	"noracloud/servicenextcloud/internal/services/auth"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API",
		Long: `Serve the admin API used by the billing platform.

Requests must carry "Authorization: Bearer <token>" with the token stored by
"servicenextcloud auth login". The listen address comes from --listen, the
listen config key, or 127.0.0.1:8080.

Examples:
  servicenextcloud serve
  servicenextcloud serve --listen 0.0.0.0:9000`,
		RunE:         runServe,
		SilenceUsage: true,
	}

	cmd.Flags().String("listen", "", "Address to listen on (overrides the listen config key)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	token, err := auth.DefaultStore().GetToken(auth.AdminTokenKey)
	if err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			return fmt.Errorf("no admin API token stored: run 'servicenextcloud auth login --generate' first")
		}
		return err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	a, err := app.Open(cmdutil.Context(cmd), app.Options{Debug: debug})
	if err != nil {
		return err
	}
	defer a.Close()

	addr, _ := cmd.Flags().GetString("listen")
	if addr = strings.TrimSpace(addr); addr == "" {
		addr = a.Config.ListenAddr()
	}

	e := adminapi.New(adminapi.NewApp(a.Log.Named("adminapi"), a.Registry, a.Provisioning), token)

	ctx, stop := signal.NotifyContext(cmdutil.Context(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, e, addr, a.Log)
}

// serve runs e on addr until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, e *echo.Echo, addr string, l *zap.Logger) error {
	e.Server.ReadHeaderTimeout = adminapi.ReadHeaderTimeout

	errCh := make(chan error, 1)
	go func() {
		l.Info("admin api listening", zap.String("addr", addr))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	l.Info("shutting down admin api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
