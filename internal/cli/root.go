package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hbjs97/nix-shell-wrapper/internal/cmdexec"
	"github.com/hbjs97/nix-shell-wrapper/internal/config"
	"github.com/hbjs97/nix-shell-wrapper/internal/dispatch"
	"github.com/hbjs97/nix-shell-wrapper/internal/logging"
	"github.com/hbjs97/nix-shell-wrapper/internal/nixexpr"
	"github.com/hbjs97/nix-shell-wrapper/internal/setup"
)

// Version은 빌드 시 -ldflags로 주입되는 버전 문자열이다.
var Version = "dev"

// App은 CLI 명령이 공유하는 의존성을 보관한다.
type App struct {
	Commander cmdexec.Commander
	CfgPath   string
	// Logger가 nil이면 --verbose에 맞춰 생성한다.
	Logger *zap.Logger
	// FormRunner가 nil이면 huh 기반 구현을 사용한다.
	FormRunner setup.FormRunner
	// LookupEnv가 nil이면 os.LookupEnv를 사용한다.
	LookupEnv func(string) (string, bool)

	verbose bool
	dryRun  bool
}

// NewRootCmd는 nix-shell-wrapper CLI의 루트 명령을 생성한다.
// 첫 번째 인자가 하위 명령이 아니면 모든 인자를 exprs의 EXPR로 취급한다.
func (a *App) NewRootCmd() *cobra.Command {
	var flakes []nixexpr.NamedFlake

	cmd := &cobra.Command{
		Use:   "nix-shell-wrapper [EXPR...]",
		Short: "nix-shell, nix develop, nix shell을 하나로 감싸는 래퍼",
		Long: `인자가 없으면 ./shell.nix, 없으면 ./flake.nix의 셸에 들어간다.
하위 명령이 아닌 인자는 패키지 식으로 취급한다 (nix-shell-wrapper hello == nix-shell-wrapper exprs hello).
shell, flake, derivation, exprs, doctor, prompt, setup, help는 예약어다.
같은 이름의 패키지는 exprs로 지정한다 (nix-shell-wrapper exprs prompt).`,
		Version:      Version,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.run(cmd, dispatch.Auto{})
			}
			return a.run(cmd, dispatch.Fallback{Flakes: flakes, Args: args})
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	defaultCfg := a.CfgPath
	if defaultCfg == "" {
		defaultCfg = config.DefaultPath()
	}
	cmd.PersistentFlags().StringVar(&a.CfgPath, "config", defaultCfg, "설정 파일 경로")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "상세 로그 출력")
	cmd.PersistentFlags().BoolVarP(&a.dryRun, "dry-run", "n", false, "실행하지 않고 명령만 출력")
	cmd.Flags().Var(newFlakeRefsValue(&flakes), "flake", "식에서 NAME으로 참조할 flake (반복 가능)")

	cmd.AddCommand(
		a.newShellCmd(),
		a.newFlakeCmd(),
		a.newDerivationCmd(),
		a.newExprsCmd(),
		a.newDoctorCmd(),
		a.newPromptCmd(),
		a.newSetupCmd(),
	)
	return cmd
}

func (a *App) initLogger() error {
	if a.Logger != nil {
		return nil
	}
	logger, err := logging.New(a.verbose)
	if err != nil {
		return err
	}
	a.Logger = logger
	return nil
}

func (a *App) logger() *zap.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return zap.NewNop()
}

func (a *App) lookupEnv() func(string) (string, bool) {
	if a.LookupEnv != nil {
		return a.LookupEnv
	}
	return os.LookupEnv
}

// usageArgs는 인자 검증 실패를 ErrUsage로 감싼다.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}
