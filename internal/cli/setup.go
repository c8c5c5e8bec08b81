package cli

import (
	"github.com/spf13/cobra"

	"github.com/hbjs97/nix-shell-wrapper/internal/setup"
)

func (a *App) newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "설정 파일을 대화형으로 생성하거나 수정한다",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &setup.Runner{
				CfgPath:    a.CfgPath,
				Commander:  a.Commander,
				FormRunner: a.formRunner(),
				Out:        cmd.OutOrStdout(),
				LookupEnv:  a.lookupEnv(),
			}
			return runner.Run(cmd.Context())
		},
	}
}

func (a *App) formRunner() setup.FormRunner {
	if a.FormRunner != nil {
		return a.FormRunner
	}
	return &setup.HuhFormRunner{}
}
