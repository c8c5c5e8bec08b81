package cli

import (
	"errors"

	"github.com/hbjs97/nix-shell-wrapper/internal/config"
	"github.com/hbjs97/nix-shell-wrapper/internal/dispatch"
	"github.com/hbjs97/nix-shell-wrapper/internal/doctor"
	"github.com/hbjs97/nix-shell-wrapper/internal/label"
	"github.com/hbjs97/nix-shell-wrapper/internal/nixexpr"
	"github.com/hbjs97/nix-shell-wrapper/internal/pathutil"
)

// ErrUsage는 잘못된 플래그나 인자 조합을 나타내는 sentinel error다.
var ErrUsage = errors.New("usage error")

// 각 도메인 패키지의 sentinel error를 CLI 레이어에서 편의상 re-export한다.
var (
	// ErrInvalidFlakeRef는 --flake 값이 NAME=PATH 형식이 아닐 때의 sentinel error다.
	ErrInvalidFlakeRef = nixexpr.ErrInvalidFlakeRef
	// ErrCanonicalize는 경로가 존재하지 않아 canonicalize할 수 없을 때의 sentinel error다.
	ErrCanonicalize = pathutil.ErrCanonicalize
	// ErrHomeDir는 홈 디렉토리를 알 수 없을 때의 sentinel error다.
	ErrHomeDir = label.ErrHomeDir
	// ErrInternal은 내부 불변식 위반이다.
	ErrInternal = label.ErrInternal
	// ErrNoShell은 인자 없이 실행했는데 shell.nix와 flake.nix가 모두 없을 때의 sentinel error다.
	ErrNoShell = dispatch.ErrNoShell
	// ErrExec는 자식 프로세스 실행 실패다.
	ErrExec = dispatch.ErrExec
	// ErrCheckFailed는 doctor 진단 중 FAIL이 있을 때의 sentinel error다.
	ErrCheckFailed = doctor.ErrCheckFailed
	// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
	ErrConfig = config.ErrConfig
)
