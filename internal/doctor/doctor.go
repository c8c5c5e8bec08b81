package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hbjs97/nix-shell-wrapper/internal/cmdexec"
	"github.com/hbjs97/nix-shell-wrapper/internal/config"
	"github.com/hbjs97/nix-shell-wrapper/internal/nix"
	"github.com/hbjs97/nix-shell-wrapper/internal/nixexpr"
	"github.com/hbjs97/nix-shell-wrapper/internal/pathutil"
)

const installURL = "https://nixos.org/download/"

// ErrCheckFailed는 FAIL 상태의 진단이 하나 이상 있을 때의 sentinel error다.
var ErrCheckFailed = errors.New("doctor check failed")

// Status는 진단 결과 상태다.
type Status string

const (
	// StatusOK는 정상 상태다.
	StatusOK Status = "OK"
	// StatusWarn는 경고 상태다.
	StatusWarn Status = "WARN"
	// StatusFail는 실패 상태다.
	StatusFail Status = "FAIL"
)

// DiagResult는 하나의 진단 결과다.
type DiagResult struct {
	Name    string
	Status  Status
	Message string
	Fix     string
}

// Options는 RunAll에 필요한 입력이다.
type Options struct {
	Config      *config.Config
	SystemFlake string
	System      string
}

// CheckBinaries는 필수 바이너리(nix, nix-shell) 존재 여부를 확인한다.
func CheckBinaries(ctx context.Context, cmd cmdexec.Commander) []DiagResult {
	adapter := nix.NewAdapter(cmd)

	var results []DiagResult
	for _, name := range []string{"nix", "nix-shell"} {
		version, err := adapter.Version(ctx, name)
		if err != nil {
			results = append(results, DiagResult{
				Name:    name,
				Status:  StatusFail,
				Message: fmt.Sprintf("%s 없음", name),
				Fix:     "설치: " + installURL,
			})
			continue
		}
		results = append(results, DiagResult{
			Name:    name,
			Status:  StatusOK,
			Message: version,
		})
	}
	return results
}

// CheckSystem은 nix가 보고하는 현재 시스템과 식에 들어갈 system이 같은지 확인한다.
func CheckSystem(ctx context.Context, cmd cmdexec.Commander, system string) DiagResult {
	current, err := nix.NewAdapter(cmd).CurrentSystem(ctx)
	if err != nil {
		return DiagResult{
			Name:    "system",
			Status:  StatusWarn,
			Message: fmt.Sprintf("현재 시스템 확인 실패 (사용 중: %s)", system),
			Fix:     "nix eval --impure --raw --expr builtins.currentSystem 실행 확인",
		}
	}
	if current != system {
		return DiagResult{
			Name:    "system",
			Status:  StatusWarn,
			Message: fmt.Sprintf("system %s 사용 중, nix는 %s 보고", system, current),
			Fix:     fmt.Sprintf("config.toml에 system = %q 설정", current),
		}
	}
	return DiagResult{
		Name:    "system",
		Status:  StatusOK,
		Message: system,
	}
}

// CheckSystemFlake는 시스템 flake 경로를 확인한다. 빈 경로는 nixpkgs registry 사용을 뜻한다.
func CheckSystemFlake(path string) DiagResult {
	if path == "" {
		return DiagResult{
			Name:    "system_flake",
			Status:  StatusOK,
			Message: "nixpkgs registry 사용",
		}
	}
	if !pathutil.Exists(filepath.Join(path, "flake.nix")) {
		return DiagResult{
			Name:    "system_flake",
			Status:  StatusFail,
			Message: fmt.Sprintf("%s에 flake.nix 없음", path),
			Fix:     fmt.Sprintf("%s 또는 system_flake 설정 확인", config.EnvSystemFlake),
		}
	}
	return DiagResult{
		Name:    "system_flake",
		Status:  StatusOK,
		Message: fmt.Sprintf("%s (%s 필요)", path, nixexpr.SystemFlakeAttr),
	}
}

// CheckNamedFlakes는 설정 파일의 [flakes] 경로를 확인한다.
func CheckNamedFlakes(cfg *config.Config) DiagResult {
	flakes, err := cfg.NamedFlakes()
	if err != nil {
		return DiagResult{
			Name:    "flakes",
			Status:  StatusFail,
			Message: err.Error(),
			Fix:     "config.toml의 [flakes] 경로 확인",
		}
	}
	names := make([]string, 0, len(flakes))
	for _, f := range flakes {
		names = append(names, f.Name)
	}
	msg := "없음"
	if len(names) > 0 {
		msg = strings.Join(names, ", ")
	}
	return DiagResult{
		Name:    "flakes",
		Status:  StatusOK,
		Message: msg,
	}
}

// RunAll은 모든 진단을 실행한다.
func RunAll(ctx context.Context, cmd cmdexec.Commander, opts Options) []DiagResult {
	var results []DiagResult
	results = append(results, CheckBinaries(ctx, cmd)...)
	results = append(results, CheckSystem(ctx, cmd, opts.System))
	results = append(results, CheckSystemFlake(opts.SystemFlake))
	if opts.Config != nil {
		results = append(results, CheckNamedFlakes(opts.Config))
	}
	return results
}

// HasFailure는 결과 중 FAIL이 있는지 확인한다.
func HasFailure(results []DiagResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// Print는 진단 결과 목록을 출력한다.
func Print(w io.Writer, results []DiagResult) {
	for _, r := range results {
		fmt.Fprintf(w, "  [%s] %s: %s\n", statusIcon(r.Status), r.Name, r.Message)
		if r.Fix != "" {
			fmt.Fprintf(w, "      Fix: %s\n", r.Fix)
		}
	}
}

func statusIcon(s Status) string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarn:
		return "!!"
	case StatusFail:
		return "FAIL"
	default:
		return "??"
	}
}
