package setup

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/huh"

	"github.com/hbjs97/nix-shell-wrapper/internal/pathutil"
)

// HuhFormRunner는 charmbracelet/huh 기반의 FormRunner 구현이다.
type HuhFormRunner struct{}

var _ FormRunner = (*HuhFormRunner)(nil)

var systemRegex = regexp.MustCompile(`^[a-z0-9_]+-[a-z0-9_]+$`)

// RunSettingsForm은 설정 입력 폼을 실행한다.
func (h *HuhFormRunner) RunSettingsForm(defaults Settings) (Settings, error) {
	s := defaults

	fields := []huh.Field{
		huh.NewInput().
			Title("시스템 flake 경로").
			Description("비워 두면 nixpkgs registry를 사용합니다").
			Value(&s.SystemFlake).
			Validate(ValidateSystemFlake),
		huh.NewInput().
			Title("system").
			Description("비워 두면 현재 플랫폼을 사용합니다 (예: x86_64-linux)").
			Value(&s.System).
			Validate(ValidateSystem),
		huh.NewConfirm().
			Title("셸 프롬프트 hook을 설치할까요?").
			Value(&s.InstallHook),
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return Settings{}, fmt.Errorf("setup.RunSettingsForm: %w", err)
	}
	return s, nil
}

// ValidateSystemFlake는 빈 값이거나 flake.nix가 있는 디렉토리인지 확인한다.
func ValidateSystemFlake(path string) error {
	if path == "" {
		return nil
	}
	if !pathutil.Exists(filepath.Join(pathutil.ExpandHome(path), "flake.nix")) {
		return fmt.Errorf("%s에 flake.nix가 없습니다", path)
	}
	return nil
}

// ValidateSystem은 빈 값이거나 arch-os 형식인지 확인한다.
func ValidateSystem(system string) error {
	if system == "" || systemRegex.MatchString(system) {
		return nil
	}
	return fmt.Errorf("arch-os 형식이 아닙니다: %s", system)
}
