// Package nix wraps the read-only nix CLI queries used by doctor.
package nix

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbjs97/nix-shell-wrapper/internal/cmdexec"
)

// Adapter는 nix CLI를 Commander를 통해 실행한다.
type Adapter struct {
	cmd cmdexec.Commander
}

// NewAdapter는 새 nix Adapter를 생성한다.
func NewAdapter(cmd cmdexec.Commander) *Adapter {
	return &Adapter{cmd: cmd}
}

// Version은 binary --version의 출력을 반환한다 (예: "nix (Nix) 2.24.9").
func (a *Adapter) Version(ctx context.Context, binary string) (string, error) {
	out, err := a.cmd.Run(ctx, binary, "--version")
	if err != nil {
		return "", fmt.Errorf("nix.Version: %s: %w", binary, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentSystem은 nix가 보고하는 builtins.currentSystem을 반환한다.
func (a *Adapter) CurrentSystem(ctx context.Context) (string, error) {
	out, err := a.cmd.Run(ctx, "nix", "eval", "--impure", "--raw", "--expr", "builtins.currentSystem")
	if err != nil {
		return "", fmt.Errorf("nix.CurrentSystem: %w", err)
	}
	return strings.Trim(strings.TrimSpace(string(out)), `"`), nil
}
