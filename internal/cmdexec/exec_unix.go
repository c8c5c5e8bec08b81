//go:build unix

package cmdexec

import (
	"fmt"
	"os/exec"
	"syscall"
)

// Exec looks name up in PATH and replaces the current process image with it.
func (c *RealCommander) Exec(name string, args []string, env map[string]string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("cmdexec.Exec: %w", err)
	}
	argv := append([]string{name}, args...)
	if err := syscall.Exec(path, argv, processEnv(env)); err != nil {
		return fmt.Errorf("cmdexec.Exec: %s: %w", path, err)
	}
	return nil
}
