package main

import (
	"os"

	"github.com/hbjs97/nix-shell-wrapper/internal/cli"
	"github.com/hbjs97/nix-shell-wrapper/internal/cmdexec"
)

func main() {
	app := &cli.App{Commander: &cmdexec.RealCommander{}}
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(int(cli.MapExitCode(err)))
	}
}
