package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"food-ordering/internal/migrate"
	"food-ordering/internal/notify"
	"food-ordering/internal/seed"
	"food-ordering/internal/storefront"
	xerrors "food-ordering/internal/xpkg/errors"
	"food-ordering/internal/xpkg/logger"
)

type executor func(ctx context.Context, mylog logger.Logger, args []string) error

var modes = map[string]executor{
	"web":                     storefront.Execute,
	"notification-subscriber": notify.Execute,
	"migrate":                 migrate.Execute,
	"seed":                    seed.Execute,
}

var aliases = map[string]string{
	"ns": "notification-subscriber",
}

func main() {
	mylogger := logger.New("food-ordering", logger.ParseLevel(os.Getenv("LOG_LEVEL")), os.Stdout)

	// Global flags for selecting the mode
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	mode := fs.String("mode", "", "mode to run: web | notification-subscriber | migrate | seed")

	// Only parse the args up to --mode, the rest go to the mode
	args := os.Args[1:]
	modeArgs := []string{}
	for i, arg := range args {
		if strings.HasPrefix(arg, "--mode") || strings.HasPrefix(arg, "-mode") {
			modeArgs = args[:i+1]
			if !strings.Contains(arg, "=") && i+1 < len(args) {
				modeArgs = args[:i+2]
			}
			break
		}
	}
	if err := fs.Parse(modeArgs); err != nil {
		mylogger.Action("food_ordering_failed").Error("Failed to parse flags", err)
		help(fs)
		os.Exit(2)
	}

	if *mode == "" {
		mylogger.Action("food_ordering_failed").Error("Failed to start", xerrors.ErrModeFlag)
		help(fs)
		os.Exit(2)
	}

	name := *mode
	if full, ok := aliases[name]; ok {
		name = full
	}
	run, ok := modes[name]
	if !ok {
		mylogger.Action("food_ordering_failed").Error("Failed to start", xerrors.ErrUnknownService, "mode", *mode)
		help(fs)
		os.Exit(2)
	}

	l := mylogger.With("mode", name)
	l.Action("mode_started").Info("Successfully started")
	if err := run(context.Background(), l, args[len(modeArgs):]); err != nil {
		if errors.Is(err, xerrors.ErrHelp) {
			return
		}
		l.Action("mode_failed").Error("Mode exited with error", err)
		os.Exit(1)
	}
	l.Action("mode_completed").Info("Successfully completed")
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nExample:")
	fmt.Println("  ./food-ordering --mode=migrate --admin-password=secret")
	fmt.Println("  ./food-ordering --mode=seed")
	fmt.Println("  ./food-ordering --mode=web --port=3000")
	fmt.Println("  ./food-ordering --mode=notification-subscriber --prefetch=4")
}
