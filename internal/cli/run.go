package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hbjs97/nix-shell-wrapper/internal/config"
	"github.com/hbjs97/nix-shell-wrapper/internal/dispatch"
	"github.com/hbjs97/nix-shell-wrapper/internal/nixexpr"
)

var shellSafeRegex = regexp.MustCompile(`^[a-zA-Z0-9_@%+=:,./-]+$`)

// run은 설정을 읽어 inv를 계획하고, --dry-run이면 출력, 아니면 exec한다.
// exec가 성공하면 반환하지 않는다.
func (a *App) run(cmd *cobra.Command, inv dispatch.Invocation) error {
	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		return err
	}
	a.logger().Debug("loaded config", zap.String("path", a.CfgPath))

	var flakes []nixexpr.NamedFlake
	switch inv.(type) {
	case dispatch.Exprs, dispatch.Fallback:
		if flakes, err = cfg.NamedFlakes(); err != nil {
			return err
		}
	}

	planner := &dispatch.Planner{
		Assembler: nixexpr.Assembler{
			System:      cfg.ResolveSystem(),
			SystemFlake: cfg.ResolveSystemFlake(a.lookupEnv()),
		},
		Flakes:    flakes,
		LookupEnv: a.lookupEnv(),
		Logger:    a.logger(),
	}
	c, err := planner.Plan(inv)
	if err != nil {
		return err
	}

	if a.dryRun {
		printCommand(cmd.OutOrStdout(), c)
		return nil
	}

	a.logger().Debug("exec", zap.String("program", c.Program), zap.Strings("args", c.Args))
	_ = a.logger().Sync() // stderr sync는 플랫폼에 따라 실패할 수 있다
	return dispatch.Exec(a.Commander, c)
}

// printCommand는 환경변수와 argv를 한 줄에 하나씩 셸 인용하여 출력한다.
func printCommand(w io.Writer, c *dispatch.Command) {
	fmt.Fprintf(w, "%s=%s\n", dispatch.EnvDescriptions, shellQuote(c.Descriptions))
	fmt.Fprintln(w, shellQuote(c.Program))
	for _, arg := range c.Args {
		fmt.Fprintln(w, shellQuote(arg))
	}
}

func shellQuote(s string) string {
	if shellSafeRegex.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
