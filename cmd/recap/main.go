package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	app "github.com/okian/wrapped/internal/app"
	"github.com/okian/wrapped/internal/config"
	"github.com/okian/wrapped/internal/render"
	"github.com/okian/wrapped/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", os.Getenv(config.EnvPrefix+"CONFIG"), "YAML config file (default: $WRAPPED_CONFIG)")
		manager    = flag.String("manager", "", "Manager whose season to print")
		asJSON     = flag.Bool("json", false, "Print the recap as JSON")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, *configPath, *manager, *asJSON); err != nil {
		os.Stderr.WriteString("recap failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, configPath, manager string, asJSON bool) error {
	cfg, err := config.LoadFile(ctx, configPath)
	if err != nil {
		return err
	}

	// Logs go to stderr so stdout stays clean for the recap.
	if err := logger.InitWithFormat(cfg.LogFormat, os.Stderr); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(logger.Named("recap")),
		app.WithGameweeks(cfg.Gameweeks),
		app.WithSources(cfg.Managers),
		app.WithCaptainPoints(cfg.CaptainTable()),
		app.WithCaptainSource(cfg.CaptainPointsFile),
		app.WithChartImage(cfg.ChartImage),
	)

	if !asJSON {
		recap, err := svc.Run(ctx)
		if err != nil {
			return err
		}
		return render.Text(out, recap, manager)
	}

	var v any
	if manager != "" {
		report, err := svc.Manager(ctx, manager)
		if err != nil {
			return err
		}
		v = report
	} else {
		recap, err := svc.Run(ctx)
		if err != nil {
			return err
		}
		v = recap
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode recap: %w", err)
	}
	return nil
}
