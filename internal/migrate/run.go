package migrate

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	database "food-ordering/internal/storefront/adapter/db"
	"food-ordering/internal/storefront/app/services"
	"food-ordering/internal/xpkg/config"
	"food-ordering/internal/xpkg/db"
	xerrors "food-ordering/internal/xpkg/errors"
	"food-ordering/internal/xpkg/logger"
)

type params struct {
	configPath    string
	adminUser     string
	adminPassword string
	cfg           *config.Config
}

// Execute applies the schema and bootstraps the super admin
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, close := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer close()

	params, err := parseParams(args)
	if err != nil {
		if !errors.Is(err, xerrors.ErrHelp) {
			mylog.Action("command_parse_failed").Error("Invalid command received", err)
		}
		return err
	}
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	params.cfg = cfg

	pg, err := db.Start(newCtx, cfg.DB, mylog)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	defer pg.Close()

	users := database.NewUserRepo(pg, mylog)
	directory := services.NewDirectoryService(database.NewStoreRepo(pg, mylog), users, mylog)

	if err := NewMigrator(pg.GetConn(), directory, mylog).Run(newCtx, params.adminUser, params.adminPassword); err != nil {
		mylog.Action("migration_failed").Error("Migration failed", err)
		return err
	}
	return nil
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")
	adminUser := fs.String("admin-user", "superadmin", "Username of the super admin created when none exists")
	adminPassword := fs.String("admin-password", "", "Password of the super admin created when none exists")

	if err := fs.Parse(args); err != nil {
		return nil, xerrors.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, xerrors.ErrHelp
	}

	return &params{
		configPath:    *configPath,
		adminUser:     *adminUser,
		adminPassword: *adminPassword,
	}, nil
}
