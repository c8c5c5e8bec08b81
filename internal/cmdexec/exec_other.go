//go:build !unix

package cmdexec

import (
	"errors"
	"fmt"
)

// Exec is unavailable where the process image cannot be replaced.
func (c *RealCommander) Exec(name string, _ []string, _ map[string]string) error {
	return fmt.Errorf("cmdexec.Exec: %s: %w", name, errors.ErrUnsupported)
}
