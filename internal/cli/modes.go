package cli

import (
	"github.com/spf13/cobra"

	"github.com/hbjs97/nix-shell-wrapper/internal/dispatch"
	"github.com/hbjs97/nix-shell-wrapper/internal/nixexpr"
)

func (a *App) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell [PATH]",
		Short: "shell.nix로 nix-shell을 실행한다",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dispatch.DefaultShellPath
			if len(args) == 1 {
				path = args[0]
			}
			return a.run(cmd, dispatch.Shell{Path: path})
		},
	}
}

func (a *App) newFlakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flake [PATH]",
		Short: "flake의 devShell로 nix develop을 실행한다",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dispatch.DefaultFlakePath
			if len(args) == 1 {
				path = args[0]
			}
			return a.run(cmd, dispatch.Flake{Path: path})
		},
	}
}

func (a *App) newDerivationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "derivation DERIV [ARGS]",
		Short: "callPackage DERIV ARGS를 포함한 셸을 실행한다",
		Long:  "ARGS의 기본값은 {}이며 식에 그대로 삽입된다.",
		Args:  usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := dispatch.Derivation{Deriv: args[0], Args: dispatch.DefaultDerivationArgs}
			if len(args) == 2 {
				inv.Args = args[1]
			}
			return a.run(cmd, inv)
		},
	}
}

func (a *App) newExprsCmd() *cobra.Command {
	var flakes []nixexpr.NamedFlake
	cmd := &cobra.Command{
		Use:   "exprs [--flake NAME=PATH]... EXPR...",
		Short: "패키지 식 목록을 포함한 셸을 실행한다",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatch.Exprs{Flakes: flakes, Exprs: args})
		},
	}
	cmd.Flags().Var(newFlakeRefsValue(&flakes), "flake", "식에서 NAME으로 참조할 flake (반복 가능)")
	return cmd
}
