package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hbjs97/nix-shell-wrapper/internal/config"
	"github.com/hbjs97/nix-shell-wrapper/internal/doctor"
)

func (a *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "환경 설정을 진단한다",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDoctor(cmd)
		},
	}
}

func (a *App) runDoctor(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(a.CfgPath)
	configFailed := err != nil
	if configFailed {
		fmt.Fprintf(out, "  [FAIL] config: %v\n", err)
		fmt.Fprintln(out, "      Fix: nix-shell-wrapper setup 실행 또는 설정 파일 확인")
		cfg = config.Default()
	} else {
		fmt.Fprintf(out, "  [OK] config: %s\n", a.CfgPath)
	}

	results := doctor.RunAll(cmd.Context(), a.Commander, doctor.Options{
		Config:      cfg,
		SystemFlake: cfg.ResolveSystemFlake(a.lookupEnv()),
		System:      cfg.ResolveSystem(),
	})
	doctor.Print(out, results)
	if configFailed || doctor.HasFailure(results) {
		return fmt.Errorf("cli.doctor: %w", doctor.ErrCheckFailed)
	}
	return nil
}
