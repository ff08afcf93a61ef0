// ABOUTME: Screenshot inbox watcher subcommand
// ABOUTME: Turns images dropped into the inbox directory into activities
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/prospect/config"
	"github.com/harperreed/prospect/inbox"
	"github.com/harperreed/prospect/service"
)

// WatchCommand ingests existing inbox files, then watches for new ones.
func WatchCommand(ctx context.Context, svc *service.Service, cfg config.Config, logger *log.Logger, args []string) error {
	fs := newFlagSet("watch")
	dir := fs.String("dir", cfg.InboxDir, "Inbox directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := inbox.New(*dir, svc, logger)
	if err != nil {
		return err
	}

	logger.Info("watching inbox", "dir", *dir)
	return w.Run(ctx)
}
