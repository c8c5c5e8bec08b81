package dispatch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/hbjs97/nix-shell-wrapper/internal/cmdexec"
	"github.com/hbjs97/nix-shell-wrapper/internal/label"
	"github.com/hbjs97/nix-shell-wrapper/internal/nixexpr"
	"github.com/hbjs97/nix-shell-wrapper/internal/pathutil"
)

// EnvDescriptions는 지금까지 들어온 래퍼 셸의 breadcrumb을 담는 환경변수다.
const EnvDescriptions = "NIX_SHELL_WRAPPER_DESCRIPTIONS"

var (
	// ErrNoShell은 Auto에서 현재 디렉토리에 shell.nix도 flake.nix도 없을 때의 sentinel error다.
	ErrNoShell = errors.New("cannot find a nix shell to run")
	// ErrExec는 자식 프로세스를 시작하지 못했을 때의 sentinel error다.
	ErrExec = errors.New("unable to exec")
)

// nixPathRegex는 Nix path 리터럴로 그대로 쓸 수 있는 경로다.
var nixPathRegex = regexp.MustCompile(`^/[a-zA-Z0-9._+\-/]*$`)

// Command는 계획된 자식 프로세스다.
type Command struct {
	Program string
	Args    []string
	// Labels는 경로 또는 식마다 하나씩, 순서대로 들어 있다.
	Labels []string
	// Descriptions는 EnvDescriptions로 내보낼 값이다.
	Descriptions string
}

// Planner는 Invocation을 Command로 바꾼다.
type Planner struct {
	Assembler nixexpr.Assembler
	// Flakes는 모든 Exprs, Fallback 식에 바인딩된다. 같은 이름이면 Invocation의 flake가 우선한다.
	Flakes []nixexpr.NamedFlake
	// LookupEnv는 부모 환경변수 조회 함수다. nil이면 os.LookupEnv.
	LookupEnv func(string) (string, bool)
	Logger    *zap.Logger
}

// Plan은 inv의 Command를 만든다. 실패할 수 있는 단계는 모두 여기서 끝나므로
// exec 이후에는 실패할 일이 없다.
func (p *Planner) Plan(inv Invocation) (*Command, error) {
	inv, err := resolveAuto(inv)
	if err != nil {
		return nil, err
	}

	var cmd *Command
	switch v := inv.(type) {
	case Shell:
		cmd, err = planPath("nix-shell", nil, v.Path)
	case Flake:
		cmd, err = planPath("nix", []string{"develop"}, v.Path)
	case Derivation:
		cmd, err = p.planDerivation(v)
	case Exprs:
		cmd, err = p.planExprs(v.Flakes, v.Exprs)
	case Fallback:
		cmd, err = p.planExprs(v.Flakes, v.Args)
	default:
		return nil, fmt.Errorf("dispatch.Plan: unknown invocation %T: %w", inv, label.ErrInternal)
	}
	if err != nil {
		return nil, err
	}

	prev, hasPrev := p.lookupEnv()(EnvDescriptions)
	cmd.Descriptions = Descriptions(prev, hasPrev, cmd.Labels)

	p.logger().Debug("planned command",
		zap.String("mode", modeName(inv)),
		zap.String("program", cmd.Program),
		zap.Strings("args", cmd.Args),
		zap.String("descriptions", cmd.Descriptions))
	return cmd, nil
}

// Descriptions는 labels를 "+"로 잇고, 부모에 breadcrumb이 있으면 공백을 두고 prev 뒤에 붙인다.
func Descriptions(prev string, hasPrev bool, labels []string) string {
	current := strings.Join(labels, "+")
	if hasPrev {
		return prev + " " + current
	}
	return current
}

// Exec는 현재 프로세스를 cmd로 교체한다.
func Exec(c cmdexec.Commander, cmd *Command) error {
	env := map[string]string{EnvDescriptions: cmd.Descriptions}
	if err := c.Exec(cmd.Program, cmd.Args, env); err != nil {
		return fmt.Errorf("dispatch.Exec: %w %s: %w", ErrExec, cmd.Program, err)
	}
	return nil
}

func resolveAuto(inv Invocation) (Invocation, error) {
	if _, ok := inv.(Auto); !ok {
		return inv, nil
	}
	if pathutil.Exists("shell.nix") {
		return Shell{Path: "shell.nix"}, nil
	}
	if pathutil.Exists("flake.nix") {
		return Flake{Path: DefaultFlakePath}, nil
	}
	return nil, fmt.Errorf("dispatch.Plan: %w", ErrNoShell)
}

func planPath(program string, args []string, path string) (*Command, error) {
	l, err := label.Path(path)
	if err != nil {
		return nil, err
	}
	return &Command{
		Program: program,
		Args:    append(args, path),
		Labels:  []string{l},
	}, nil
}

func (p *Planner) planDerivation(v Derivation) (*Command, error) {
	l, err := label.Compress(v.Deriv)
	if err != nil {
		return nil, err
	}
	args := v.Args
	if args == "" {
		args = DefaultDerivationArgs
	}
	expr := p.Assembler.Full(nil, []string{nixexpr.Derivation(derivationRef(v.Deriv), args)})
	return &Command{
		Program: "nix",
		Args:    []string{"shell", "--impure", "--expr", expr},
		Labels:  []string{l},
	}, nil
}

func (p *Planner) planExprs(flakes []nixexpr.NamedFlake, exprs []string) (*Command, error) {
	labels := make([]string, 0, len(exprs))
	for _, e := range exprs {
		l, err := label.Compress(e)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	expr := p.Assembler.Full(nixexpr.MergeFlakes(p.Flakes, flakes), exprs)
	return &Command{
		Program: "nix",
		Args:    []string{"shell", "--impure", "--expr", expr},
		Labels:  labels,
	}, nil
}

// derivationRef는 존재하는 derivation 파일을 절대 경로로 바꿔 nix의 상대 경로 해석에
// 의존하지 않게 한다. "/"를 포함하거나 ".nix"로 끝나는 인자만 경로로 본다.
// 그 밖의 인자(pkgs.hello 등)는 같은 이름의 파일이 있어도 식으로 보고 그대로 반환한다.
func derivationRef(deriv string) string {
	if !looksLikePath(deriv) {
		return deriv
	}
	info, err := os.Stat(deriv)
	if err != nil || info.IsDir() && !pathutil.Exists(filepath.Join(deriv, "default.nix")) {
		return deriv
	}
	abs, err := filepath.Abs(deriv)
	if err != nil {
		return deriv
	}
	if nixPathRegex.MatchString(abs) {
		return abs
	}
	return "(/. + " + nixexpr.Quote(abs) + ")"
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.HasSuffix(s, ".nix")
}

func modeName(inv Invocation) string {
	switch inv.(type) {
	case Shell:
		return "shell"
	case Flake:
		return "flake"
	case Derivation:
		return "derivation"
	case Exprs:
		return "exprs"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

func (p *Planner) lookupEnv() func(string) (string, bool) {
	if p.LookupEnv != nil {
		return p.LookupEnv
	}
	return os.LookupEnv
}

func (p *Planner) logger() *zap.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return zap.NewNop()
}
