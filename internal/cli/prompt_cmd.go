package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hbjs97/nix-shell-wrapper/internal/setup"
	"github.com/hbjs97/nix-shell-wrapper/internal/shell"
)

func (a *App) newPromptCmd() *cobra.Command {
	var (
		shellType string
		hook      bool
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "NIX_SHELL_WRAPPER_DESCRIPTIONS를 표시하는 프롬프트 스니펫을 출력한다",
		Long: `rc 파일에 다음을 추가한다:
  eval "$(nix-shell-wrapper prompt --shell zsh)"`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if shellType == "" {
				shellType = setup.DetectShell()
			}
			snippet := shell.Prompt(shellType)
			if hook {
				snippet = shell.HookSnippet(shellType)
			}
			if snippet == "" {
				return fmt.Errorf("cli.prompt: %w: 지원하지 않는 셸: %q", ErrUsage, shellType)
			}
			fmt.Fprint(cmd.OutOrStdout(), snippet)
			return nil
		},
	}
	cmd.Flags().StringVar(&shellType, "shell", "", "셸 종류 (zsh, bash, fish). 비어 있으면 $SHELL에서 감지")
	cmd.Flags().BoolVar(&hook, "hook", false, "rc 파일에 추가할 hook 스니펫을 출력")
	return cmd
}
