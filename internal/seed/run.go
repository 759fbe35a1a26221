package seed

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	database "food-ordering/internal/storefront/adapter/db"
	"food-ordering/internal/xpkg/config"
	"food-ordering/internal/xpkg/db"
	xerrors "food-ordering/internal/xpkg/errors"
	"food-ordering/internal/xpkg/logger"
)

// Execute loads the demo stores into the database
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, close := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer close()

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")
	adminPassword := fs.String("admin-password", "admin", "Password for the admins of newly created demo stores")

	if err := fs.Parse(args); err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return xerrors.ErrParseCmd
	}
	if *showHelp {
		fs.Usage()
		return xerrors.ErrHelp
	}
	if *adminPassword == "" {
		err := errors.New("admin password must not be empty")
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}

	pg, err := db.Start(newCtx, cfg.DB, mylog)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	defer pg.Close()

	seeder := NewSeeder(database.NewStoreRepo(pg, mylog), database.NewItemRepo(pg, mylog), *adminPassword, mylog)
	if err := seeder.Run(newCtx); err != nil {
		mylog.Action("seed_failed").Error("Seeding failed", err)
		return err
	}
	mylog.Action("seed_completed").Info("Demo data is in place")
	return nil
}
