// ABOUTME: Entry point for the prospect CRM server and CLI
// ABOUTME: Routes to the HTTP API, MCP server, TUI, inbox watcher or CLI commands
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/harperreed/prospect/apperr"
	"github.com/harperreed/prospect/cli"
	"github.com/harperreed/prospect/config"
	"github.com/harperreed/prospect/db"
	"github.com/harperreed/prospect/service"
	"github.com/harperreed/prospect/tui"
)

const version = "0.2.0"

type crmCommand func(ctx context.Context, svc *service.Service, args []string) error

var crmCommands = map[string]crmCommand{
	"add-lead":        cli.AddLeadCommand,
	"add-contact":     cli.AddContactCommand,
	"list-leads":      cli.ListLeadsCommand,
	"list-contacts":   cli.ListContactsCommand,
	"log-attempt":     cli.LogAttemptCommand,
	"convert-lead":    cli.ConvertLeadCommand,
	"set-cadence":     cli.SetCadenceCommand,
	"history":         cli.HistoryCommand,
	"followups":       cli.FollowupsCommand,
	"add-activity":    cli.AddActivityCommand,
	"list-activities": cli.ListActivitiesCommand,
	"link-activity":   cli.LinkActivityCommand,
	"analytics":       cli.AnalyticsCommand,
	"dashboard":       cli.DashboardCommand,
	"graph":           cli.GraphCommand,
}

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path or postgres:// URL (default: ~/.local/share/prospect/prospect.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("prospect version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	if err := run(args, *dbPath, *initOnly); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", apperr.PublicMessage(err))
		os.Exit(1)
	}
}

func run(args []string, dbPath string, initOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DatabaseURL = dbPath
	}

	// stdout belongs to the MCP transport and to CLI output
	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()
	logger.Debug("database open", "dialect", store.Dialect())

	if initOnly {
		logger.Info("database initialized", "path", cfg.DatabaseURL)
		return nil
	}

	opts, err := service.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	svc := service.New(store, opts, logger)

	command, rest := args[0], args[1:]
	switch command {
	case "serve":
		return cli.ServeCommand(ctx, svc, cfg, logger, rest)
	case "mcp":
		return cli.MCPCommand(ctx, svc, version, logger)
	case "tui":
		return tui.Run(ctx, svc)
	case "watch":
		return cli.WatchCommand(ctx, svc, cfg, logger, rest)
	case "crm":
		return runCRM(ctx, svc, logger, rest)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runCRM(ctx context.Context, svc *service.Service, logger *log.Logger, args []string) error {
	if len(args) == 0 {
		printUsage()
		return errors.New("crm requires a subcommand")
	}
	cmd, ok := crmCommands[args[0]]
	if !ok {
		printUsage()
		return fmt.Errorf("unknown crm command: %s", args[0])
	}
	logger.Debug("running", "command", args[0])
	return cmd(ctx, svc, args[1:])
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `prospect v%s - lead and contact follow-up tracker

USAGE:
  prospect [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       SQLite path or postgres:// URL (overrides PROSPECT_DATABASE_URL)
  --init                 Initialize database and exit

COMMANDS:
  serve                  Start the HTTP JSON API (--addr, default PROSPECT_HTTP_ADDR)
  mcp                    Start the MCP server on stdio
  tui                    Interactive follow-up queue
  watch                  Watch the screenshot inbox (--dir, default PROSPECT_INBOX_DIR)
  crm                    CRM management commands

CRM COMMANDS:
  prospect crm add-lead       Add a new lead
    --name <name>               Name (required)
    --email, --phone, --company, --notes
    --cadence <days>            Follow-up interval override

  prospect crm add-contact    Add a contact directly (same flags as add-lead)
  prospect crm list-leads     List leads (--query, --limit)
  prospect crm list-contacts  List contacts (--query, --limit)

  prospect crm log-attempt [flags] <lead-id>   Log a contact attempt for today
    --channel <channel>         meeting, call, email, message or event
    --notes <text>              What happened

  prospect crm convert-lead <lead-id>          Convert a lead into a contact
  prospect crm set-cadence --days N <id>       Override follow-up interval (0 resets)
  prospect crm history <id>                    Contact attempt log
  prospect crm followups [--type lead|contact] Records due for follow-up

  prospect crm add-activity   Capture an activity
    --content <text>            What happened
    --screenshot <path>         Screenshot file
    --at <RFC3339>              When (default now)

  prospect crm list-activities [--status organized|unorganized]
  prospect crm link-activity <activity-id> <contact-id>

  prospect crm analytics [--days N]   Activity metrics and streak
  prospect crm dashboard [--days N]   Text dashboard
  prospect crm graph [--output file]  Engagement graph (DOT)

Output is a table on a terminal and JSON when piped.

EXAMPLES:
  prospect crm add-lead --name "Jane Smith" --company "Acme Corp"
  prospect crm log-attempt --channel email 1
  prospect crm followups --type contact
  prospect serve
`, version)
}
