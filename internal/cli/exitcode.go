package cli

import (
	"errors"
)

// ExitCode는 nix-shell-wrapper의 종료 코드다.
// exec가 성공하면 자식 프로세스의 종료 코드가 그대로 쓰인다.
type ExitCode int

const (
	// ExitSuccess는 정상 종료다.
	ExitSuccess ExitCode = 0
	// ExitGeneral는 일반 에러다.
	ExitGeneral ExitCode = 1
	// ExitUsage는 잘못된 플래그나 인자다.
	ExitUsage ExitCode = 2
	// ExitEnvironment는 경로, 홈 디렉토리 등 실행 환경 문제다.
	ExitEnvironment ExitCode = 3
	// ExitConfigError는 설정 파일 오류다.
	ExitConfigError ExitCode = 4
	// ExitExec는 자식 프로세스 실행 실패다.
	ExitExec ExitCode = 5
	// ExitInternal은 내부 불변식 위반이다 (sysexits EX_SOFTWARE).
	ExitInternal ExitCode = 70
)

// MapExitCode는 sentinel error를 기반으로 적절한 종료 코드를 반환한다.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, ErrInternal):
		return ExitInternal
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrUsage), errors.Is(err, ErrInvalidFlakeRef):
		return ExitUsage
	case errors.Is(err, ErrCanonicalize), errors.Is(err, ErrHomeDir), errors.Is(err, ErrNoShell):
		return ExitEnvironment
	case errors.Is(err, ErrExec):
		return ExitExec
	default:
		return ExitGeneral
	}
}
