package storefront

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"food-ordering/internal/storefront/api/http"
	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/xpkg/config"
	xerrors "food-ordering/internal/xpkg/errors"
	"food-ordering/internal/xpkg/logger"
)

type params struct {
	webParams  *core.WebParams
	configPath string
	cfg        *config.Config
}

// Execute starts the web service
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, close := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer close()

	params, err := parseParams(args)
	if err != nil {
		if !errors.Is(err, core.ErrHelp) {
			mylog.Action("command_parse_failed").Error("Invalid command received", err)
		}
		return err
	}
	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_validation_completed").Info("Successfully validate params")

	server := http.NewServer(newCtx, context.Background(), params.cfg, params.webParams, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("web_service_failed").Error("Server failed unexpectedly", err)
			if stopErr := server.Stop(context.Background()); stopErr != nil {
				mylog.Action("web_service_failed").Error("Cleanup after failure failed", stopErr)
			}
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return nil
	}
}

// parseParams parse params from terminal
func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")
	port := fs.Int("port", 3000, "Port to run the web service")

	if err := fs.Parse(args); err != nil {
		return nil, xerrors.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, core.ErrHelp
	}

	return &params{
		webParams: &core.WebParams{
			Port: *port,
		},
		configPath: *configPath,
	}, nil
}

// validateParams loads the config and checks the flags
func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	params.cfg = cfg

	if params.webParams.Port <= 0 || params.webParams.Port >= 65536 {
		return fmt.Errorf("port must be in [1: 65,535]: %d", params.webParams.Port)
	}
	return nil
}
