package notify

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"food-ordering/internal/xpkg/config"
	xerrors "food-ordering/internal/xpkg/errors"
	"food-ordering/internal/xpkg/logger"
	"food-ordering/internal/xpkg/rabbitmq"
)

type params struct {
	configPath string
	prefetch   int
	name       string
	cfg        *config.Config
}

// Execute starts the notification subscriber
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
	mylog.Action("command_parse_completed").Debug("Received params", "config_path", params.configPath)

	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_validation_completed").Info("Successfully validate params")

	mb, err := rabbitmq.New(context.Background(), *params.cfg.RMQ, mylog, params.prefetch)
	if err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	mylog.Action("mb_connected").Info("Successful message broker connection")

	sub := NewSubscriber(mb, params.name, params.prefetch, mylog)
	runErr := sub.Run(newCtx)
	if runErr != nil {
		mylog.Action("subscriber_run_failed").Error("Notification subscriber stopped with error", runErr)
	}

	if err := sub.Close(); err != nil {
		mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
		return errors.Join(runErr, err)
	}
	mylog.Action("graceful_shutdown_completed").Info("Successfully shutted down")
	return runErr
}

// parseParams parse params from terminal
func parseParams(args []string) (*params, error) {
	hostname, _ := os.Hostname()

	fs := flag.NewFlagSet("notification-subscriber", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")
	prefetch := fs.Int("prefetch", 4, "Unacknowledged messages per consumer, also the number of handlers")
	name := fs.String("name", "notify-"+hostname, "Consumer tag prefix")

	if err := fs.Parse(args); err != nil {
		return nil, xerrors.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, xerrors.ErrHelp
	}

	return &params{
		configPath: *configPath,
		prefetch:   *prefetch,
		name:       *name,
	}, nil
}

// validateParams validates params
func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	if cfg.RMQ == nil {
		return fmt.Errorf("%w: rabbitmq section is required", xerrors.ErrRMQConn)
	}
	params.cfg = cfg

	if params.prefetch <= 0 {
		return fmt.Errorf("prefetch must be positive: %d", params.prefetch)
	}
	return nil
}
