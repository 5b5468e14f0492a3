package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/football-sync/internal/app"
	"github.com/riskibarqy/football-sync/internal/config"
	"github.com/riskibarqy/football-sync/internal/observability"
	"github.com/riskibarqy/football-sync/internal/platform/logging"
	"github.com/spf13/cobra"
)

// runtime is built once per invocation by the root pre-run hook.
type runtime struct {
	logger   *logging.Logger
	app      *app.App
	shutdown func(context.Context) error
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "football-sync",
		Short:         "Synchronize football players from the sports provider",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.start(cmd.Context())
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return rt.stop()
		},
	}

	root.AddCommand(
		newRunCmd(rt),
		newInitialCmd(rt),
		newTopScorersCmd(rt),
		newNationalCmd(rt),
		newCursorCmd(rt),
	)
	return root
}

func (rt *runtime) start(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rt.logger = logging.NewConsole(os.Stderr, cfg.LogLevel).Named("sync-cli")
	logging.SetDefault(rt.logger)

	if err := cfg.RequireSportsAPI(); err != nil {
		rt.logger.Error("sync cannot start", "error", err)
		return err
	}

	shutdown, err := observability.InitUptrace(cfg, rt.logger)
	if err != nil {
		rt.logger.Error("init uptrace", "error", err)
		return err
	}
	rt.shutdown = shutdown

	a, err := app.New(ctx, cfg, rt.logger)
	if err != nil {
		rt.logger.Error("build app", "error", err)
		return err
	}
	rt.app = a
	return nil
}

func (rt *runtime) stop() error {
	var firstErr error
	if rt.app != nil {
		if err := rt.app.Close(); err != nil {
			firstErr = err
		}
	}
	if rt.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
	return firstErr
}

// fail logs a command error; cobra's PostRun is skipped on error, so it also releases resources.
func (rt *runtime) fail(msg string, err error) error {
	rt.logger.Error(msg, "error", err)
	_ = rt.stop()
	return err
}

func writeReport(w io.Writer, v any) error {
	enc := sonic.ConfigStd.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
