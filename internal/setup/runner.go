package setup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hbjs97/nix-shell-wrapper/internal/cmdexec"
	"github.com/hbjs97/nix-shell-wrapper/internal/config"
	"github.com/hbjs97/nix-shell-wrapper/internal/doctor"
)

// Runner는 interactive setup의 진입점이다.
type Runner struct {
	CfgPath    string
	Commander  cmdexec.Commander
	FormRunner FormRunner
	Out        io.Writer
	// ShellType과 RCPath는 테스트용. 비어 있으면 $SHELL에서 감지한다.
	ShellType string
	RCPath    string
	// LookupEnv는 환경변수 조회 함수다. nil이면 os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Run은 기존 설정을 기본값으로 폼을 실행하고, 저장 후 환경 진단을 출력한다.
func (r *Runner) Run(ctx context.Context) error {
	cfg, err := config.Load(r.CfgPath)
	if err != nil {
		return err
	}

	settings, err := r.FormRunner.RunSettingsForm(Settings{
		SystemFlake: cfg.SystemFlake,
		System:      cfg.System,
		InstallHook: true,
	})
	if err != nil {
		return err
	}

	cfg.SystemFlake = settings.SystemFlake
	cfg.System = settings.System
	if err := config.Save(r.CfgPath, cfg); err != nil {
		return err
	}
	fmt.Fprintf(r.out(), "설정 파일이 저장되었습니다: %s\n", r.CfgPath)

	if settings.InstallHook {
		r.installHook()
	}

	r.runDoctor(ctx, cfg)
	return nil
}

func (r *Runner) installHook() {
	shellType := r.ShellType
	if shellType == "" {
		shellType = DetectShell()
	}
	rcPath := r.RCPath
	if rcPath == "" {
		rcPath = ShellRCPath(shellType)
	}
	if rcPath == "" {
		fmt.Fprintf(r.out(), "경고: 지원하지 않는 셸이라 hook을 설치하지 않았습니다: %q\n", shellType)
		return
	}

	installed, err := InstallShellHook(shellType, rcPath)
	switch {
	case err != nil:
		fmt.Fprintf(r.out(), "경고: 셸 hook 설치 실패: %v\n", err)
	case installed:
		fmt.Fprintf(r.out(), "셸 hook이 설치되었습니다: %s\n", rcPath)
	default:
		fmt.Fprintf(r.out(), "셸 hook이 이미 설치되어 있습니다: %s\n", rcPath)
	}
}

// runDoctor는 설정 완료 후 환경 진단을 실행한다.
func (r *Runner) runDoctor(ctx context.Context, cfg *config.Config) {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	fmt.Fprintln(r.out(), "\n환경 진단 실행 중...")
	results := doctor.RunAll(ctx, r.Commander, doctor.Options{
		Config:      cfg,
		SystemFlake: cfg.ResolveSystemFlake(lookup),
		System:      cfg.ResolveSystem(),
	})
	doctor.Print(r.out(), results)
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}
