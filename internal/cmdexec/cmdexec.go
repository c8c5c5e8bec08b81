// Package cmdexec abstracts external command execution for testability.
// Production code uses the Commander interface; tests inject FakeCommander from testutil.
package cmdexec

import (
	"context"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Commander abstracts external command execution.
type Commander interface {
	// Run executes an external command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// Exec replaces the current process with name. The env map is merged on
	// top of the current process environment. On success Exec does not return.
	Exec(name string, args []string, env map[string]string) error
}

// RealCommander executes actual external commands.
type RealCommander struct{}

// Run executes the command using os/exec.CommandContext.
func (c *RealCommander) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// MergeEnv returns base with every key in overrides replaced or appended.
// Overridden keys are removed from base so the child sees exactly one value.
func MergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	result := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[key]; ok {
			continue
		}
		result = append(result, kv)
	}
	return append(result, mapToEnvSlice(overrides)...)
}

// mapToEnvSlice converts a map of environment variables to a sorted slice of "KEY=VALUE" strings.
func mapToEnvSlice(env map[string]string) []string {
	if env == nil {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make([]string, 0, len(env))
	for _, k := range keys {
		result = append(result, k+"="+env[k])
	}
	return result
}

func processEnv(overrides map[string]string) []string {
	return MergeEnv(os.Environ(), overrides)
}
