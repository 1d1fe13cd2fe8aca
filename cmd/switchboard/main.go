// switchboard is a headless driver for the dashboard sandbox switcher.
// It operates the same catalog the host page renders: a SQLite-backed
// key-value file holding the two persisted sandbox tables, plus a YAML
// organization directory that is reloaded while it changes on disk.
//
// Commands:
//
//	list    show the catalog visible for a switcher context
//	create  append a sandbox to an account's or organization's catalog
//	delete  remove every sandbox with the given name from a catalog
//	enter   stamp a sandbox as used and fire the entry hook
//	stats   summarize a catalog
//	sweep   drop organization entries keyed by leaked invalid ids
//	watch   re-render the visible catalog whenever the directory changes
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	_ "modernc.org/sqlite"

	"switchboard/internal/adapters/config"
	"switchboard/internal/adapters/storage"
	sandboxStore "switchboard/internal/adapters/storage/sandbox"
	"switchboard/internal/application/orchestrators"
	"switchboard/internal/application/projections"
	"switchboard/internal/domain/sandbox"
	"switchboard/internal/domain/viewctx"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dbPath        string
		directoryPath string
		accountName   string
		orgID         string
		allAccounts   bool
		inSandbox     bool
		originalAcct  string
		originalOrg   string
		showVersion   bool
	)

	flagSet := pflag.NewFlagSet("switchboard", pflag.ContinueOnError)
	flagSet.StringVar(&dbPath, "db", envOrDefault("SWITCHBOARD_DB", "switchboard.db"), "path to the key-value storage file")
	flagSet.StringVar(&directoryPath, "directory", envOrDefault(config.DefaultDirectoryEnv, "directory.yaml"), "path to the organization directory file")
	flagSet.StringVar(&accountName, "account", "", "current account name")
	flagSet.StringVar(&orgID, "org", "", "current organization id")
	flagSet.BoolVar(&allAccounts, "all-accounts", false, "aggregate all-accounts view")
	flagSet.BoolVar(&inSandbox, "in-sandbox", false, "a sandbox session is active")
	flagSet.StringVar(&originalAcct, "original-account", "", "account active when sandbox mode was entered")
	flagSet.StringVar(&originalOrg, "original-org", "", "organization active when sandbox mode was entered")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Println("switchboard", version)
		return nil
	}

	args := flagSet.Args()
	if len(args) == 0 {
		flagSet.Usage()
		return fmt.Errorf("a command is required")
	}

	// Open storage the same way the host service does: WAL and a busy
	// timeout so a concurrently open dashboard does not trip writes.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("storage unreachable: %w", err)
	}
	if err := storage.InitDB(db); err != nil {
		return err
	}

	kv := storage.NewTimedKV(storage.NewSQLiteKV(db))
	store := sandboxStore.NewKVStore(kv)

	watcher, err := config.NewDirectoryWatcher(directoryPath)
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Opportunistic cleanup of entries keyed by leaked invalid ids.
	if _, err := orchestrators.ExecuteSweepInvalidKeys(ctx, orchestrators.SweepInvalidKeysDeps{Store: store}); err != nil {
		log.Printf("startup sweep failed: %v", err)
	}

	deps := projections.VisibleSandboxesDeps{
		Store:     store,
		Directory: watcher.Current(),
		Now:       time.Now,
	}
	vctx := viewctx.Context{
		CurrentAccountName:     accountName,
		CurrentOrganizationID:  orgID,
		ViewingAllAccounts:     allAccounts,
		InSandboxMode:          inSandbox,
		OriginalAccountName:    originalAcct,
		OriginalOrganizationID: originalOrg,
	}

	switch cmd := args[0]; cmd {
	case "list":
		return cmdList(ctx, vctx, deps)
	case "create":
		return cmdCreate(ctx, accountName, orgID, args[1:], store, watcher)
	case "delete":
		return cmdDelete(ctx, accountName, orgID, args[1:], store, watcher)
	case "enter":
		return cmdEnter(ctx, vctx, args[1:], deps, store)
	case "stats":
		return cmdStats(ctx, accountName, orgID, deps)
	case "sweep":
		removed, err := orchestrators.ExecuteSweepInvalidKeys(ctx, orchestrators.SweepInvalidKeysDeps{Store: store})
		if err != nil {
			return err
		}
		fmt.Printf("removed %d invalid entries\n", removed)
		return nil
	case "watch":
		return cmdWatch(ctx, vctx, deps, watcher)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdList(ctx context.Context, vctx viewctx.Context, deps projections.VisibleSandboxesDeps) error {
	records, err := projections.QueryVisibleSandboxes(ctx, vctx, deps)
	if err != nil {
		return err
	}
	printCatalog(records)
	return nil
}

func cmdCreate(ctx context.Context, accountName, orgID string, args []string, store sandboxStore.Store, watcher *config.DirectoryWatcher) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: create <name>")
	}
	deps := orchestrators.CreateSandboxDeps{
		Store:      store,
		Directory:  watcher.Current(),
		GenerateID: func() string { return uuid.New().String() },
		Now:        time.Now,
	}
	var record sandbox.Record
	var err error
	if orgID != "" {
		record, err = orchestrators.ExecuteCreateOrganizationSandbox(ctx, orgID, args[0], deps)
	} else {
		record, err = orchestrators.ExecuteCreateAccountSandbox(ctx, accountName, args[0], deps)
	}
	if err != nil {
		return err
	}
	fmt.Printf("created %q (%s)\n", record.Name, record.ID)
	return nil
}

func cmdDelete(ctx context.Context, accountName, orgID string, args []string, store sandboxStore.Store, watcher *config.DirectoryWatcher) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <name>")
	}
	deps := orchestrators.DeleteSandboxDeps{
		Store:     store,
		Directory: watcher.Current(),
		Now:       time.Now,
	}
	if orgID != "" {
		return orchestrators.ExecuteDeleteOrganizationSandbox(ctx, orgID, args[0], deps)
	}
	return orchestrators.ExecuteDeleteAccountSandbox(ctx, accountName, args[0], deps)
}

func cmdEnter(ctx context.Context, vctx viewctx.Context, args []string, deps projections.VisibleSandboxesDeps, store sandboxStore.Store) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: enter <name>")
	}
	records, err := projections.QueryVisibleSandboxes(ctx, vctx, deps)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.Name != args[0] {
			continue
		}
		_, err := orchestrators.ExecuteEnterSandbox(ctx, r, orchestrators.EnterSandboxDeps{
			Store: store,
			Now:   time.Now,
			OnEnterSandbox: func(name, kind, organizationID, accountName string) {
				fmt.Printf("entered %q kind=%s org=%q account=%q\n", name, kind, organizationID, accountName)
			},
		})
		return err
	}
	return fmt.Errorf("no visible sandbox named %q", args[0])
}

func cmdStats(ctx context.Context, accountName, orgID string, deps projections.VisibleSandboxesDeps) error {
	var stats sandbox.Stats
	var err error
	if orgID != "" {
		stats, err = projections.QueryOrganizationStats(ctx, orgID, deps)
	} else {
		stats, err = projections.QueryAccountStats(ctx, accountName, deps)
	}
	if err != nil {
		return err
	}
	fmt.Printf("total=%d recently_used=%d created_today=%d\n", stats.Total, stats.RecentlyUsed, stats.CreatedToday)
	return nil
}

func cmdWatch(ctx context.Context, vctx viewctx.Context, deps projections.VisibleSandboxesDeps, watcher *config.DirectoryWatcher) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	render := func() {
		deps.Directory = watcher.Current()
		records, err := projections.QueryVisibleSandboxes(ctx, vctx, deps)
		if err != nil {
			log.Printf("render failed: %v", err)
			return
		}
		printCatalog(records)
	}

	watcher.OnReload = func() { render() }
	render()

	if err := watcher.Watch(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func printCatalog(records []sandbox.Record) {
	rows := projections.QueryCatalogView(records)
	for _, row := range rows {
		used := "never"
		if row.Record.WasUsed() {
			used = row.Record.LastUsedAt.Local().Format(time.RFC3339)
		}
		fmt.Printf("%-4s %-8s %-45s last_used=%s\n", row.Initials, row.ColorTag, row.Record.Name, used)
	}
	if len(rows) == 0 {
		fmt.Println("(no sandboxes)")
	}
}

// envOrDefault returns the value of the environment variable or a default.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
