// ABOUTME: Migration utility for applying embedded schema migrations
// ABOUTME: Provides dry-run and backup capabilities for safe schema upgrades

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/prospect/config"
	"github.com/harperreed/prospect/db"
)

func main() {
	dbPath := flag.String("db", "", "SQLite path or postgres:// URL (default: PROSPECT_DATABASE_URL)")
	dryRun := flag.Bool("dry-run", false, "Show pending migrations without applying them")
	backup := flag.Bool("backup", true, "Copy the SQLite file before migrating")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "migrate"})

	dsn := *dbPath
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			logger.Fatal("load config", "err", err)
		}
		dsn = cfg.DatabaseURL
	}

	if err := migrate(logger, dsn, *dryRun, *backup); err != nil {
		logger.Fatal("migration failed", "err", err)
	}
	logger.Info("migration completed successfully")
}

func migrate(logger *log.Logger, dsn string, dryRun, createBackup bool) error {
	dialect := db.DialectSQLite
	driver := "sqlite3"
	if db.IsPostgresDSN(dsn) {
		dialect = db.DialectPostgres
		driver = "pgx"
	} else if _, err := os.Stat(dsn); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", dsn)
	}

	database, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	pending, err := db.PendingMigrations(database, dialect)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		logger.Info("schema is up to date")
		return nil
	}

	for _, m := range pending {
		if dryRun {
			logger.Info("[DRY RUN] would apply", "migration", m.Name)
		} else {
			logger.Info("pending", "migration", m.Name)
		}
	}
	if dryRun {
		return nil
	}

	if createBackup && dialect == db.DialectSQLite {
		backupPath := fmt.Sprintf("%s.backup.%s", dsn, time.Now().Format("20060102-150405"))
		if err := copyFile(dsn, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		logger.Info("backup created", "path", backupPath)
	}

	if err := db.InitSchema(database, dialect); err != nil {
		return err
	}
	logger.Info("applied migrations", "count", len(pending))
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
