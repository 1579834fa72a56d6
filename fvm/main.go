package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/fuel-go/fvm/fvm/cmd"
)

func main() {
	app := cli.NewApp()
	app.Name = "fvm"
	app.Usage = "Fuel VM interpreter"
	app.Description = "Run, assemble and inspect Fuel VM bytecode"
	app.Commands = []*cli.Command{
		cmd.RunCommand,
		cmd.AsmCommand,
		cmd.DisasmCommand,
		cmd.WitnessCommand,
	}
	l := cmd.Logger(os.Stderr, slog.LevelInfo)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		cancel()
		if errors.Is(err, context.Canceled) {
			l.Warn("Command interrupted")
			os.Exit(130)
		}
		l.Error("Command failed", "cmd", os.Args[1:], "err", err)
		os.Exit(1)
	}
}
