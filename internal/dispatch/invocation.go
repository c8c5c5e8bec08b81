// Package dispatch는 파싱된 Invocation을 래퍼 프로세스를 대체할 nix 명령줄과
// 함께 내보낼 breadcrumb으로 바꾼다.
package dispatch

import "github.com/hbjs97/nix-shell-wrapper/internal/nixexpr"

const (
	// DefaultShellPath는 경로 없이 shell을 실행할 때의 기본값이다.
	DefaultShellPath = "./shell.nix"
	// DefaultFlakePath는 경로 없이 flake를 실행할 때의 기본값이다.
	DefaultFlakePath = "."
	// DefaultDerivationArgs는 ARGS가 없을 때의 callPackage 인자다.
	DefaultDerivationArgs = "{}"
)

// Invocation은 Shell, Flake, Derivation, Exprs, Fallback, Auto 중 하나다.
type Invocation interface {
	invocation()
}

// Shell은 nix-shell로 shell 파일에 들어간다.
type Shell struct {
	Path string
}

// Flake는 nix develop으로 flake의 dev shell에 들어간다.
type Flake struct {
	Path string
}

// Derivation은 Deriv를 callPackage로 빌드한 셸에 들어간다.
// Args는 식에 그대로 삽입된다.
type Derivation struct {
	Deriv string
	Args  string
}

// Exprs는 모든 패키지 식을 포함한 셸에 들어간다.
type Exprs struct {
	Flakes []nixexpr.NamedFlake
	Exprs  []string
}

// Fallback은 첫 인자가 하위 명령이 아닌 명령줄의 위치 인자다. Exprs와 똑같이 계획된다.
type Fallback struct {
	Flakes []nixexpr.NamedFlake
	Args   []string
}

// Auto는 ./shell.nix, ./flake.nix 중 먼저 존재하는 것을 고른다.
type Auto struct{}

func (Shell) invocation()      {}
func (Flake) invocation()      {}
func (Derivation) invocation() {}
func (Exprs) invocation()      {}
func (Fallback) invocation()   {}
func (Auto) invocation()       {}
