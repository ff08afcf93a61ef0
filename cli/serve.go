// ABOUTME: HTTP server subcommand
// ABOUTME: Serves the JSON API until the context is cancelled
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/prospect/config"
	"github.com/harperreed/prospect/service"
	"github.com/harperreed/prospect/web"
)

// ServeCommand runs the HTTP API.
func ServeCommand(ctx context.Context, svc *service.Service, cfg config.Config, logger *log.Logger, args []string) error {
	fs := newFlagSet("serve")
	addr := fs.String("addr", cfg.HTTPAddr, "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	server := web.NewServer(svc, logger)
	logger.Info("starting HTTP server", "addr", *addr)
	return server.ListenAndServe(ctx, *addr, cfg.ShutdownTimeout)
}
