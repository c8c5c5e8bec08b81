package shell

import (
	"fmt"
)

// HookMarker는 rc 파일에 hook이 이미 설치되었는지 판별하는 주석이다.
const HookMarker = "nix-shell-wrapper prompt integration"

// Prompt는 NIX_SHELL_WRAPPER_DESCRIPTIONS를 프롬프트 앞에 표시하는 셸 스니펫을 생성한다.
// 지원하지 않는 셸이면 빈 문자열을 반환한다.
func Prompt(shellType string) string {
	switch shellType {
	case "zsh":
		return `_nsw_prompt() {
  [[ -n "$NIX_SHELL_WRAPPER_DESCRIPTIONS" ]] && print -rn -- "[$NIX_SHELL_WRAPPER_DESCRIPTIONS] "
}
if [[ -z "$_NSW_PROMPT_INSTALLED" ]]; then
  _NSW_PROMPT_INSTALLED=1
  setopt PROMPT_SUBST
  PROMPT='$(_nsw_prompt)'"$PROMPT"
fi
`
	case "bash":
		return `_nsw_prompt() {
  [ -n "$NIX_SHELL_WRAPPER_DESCRIPTIONS" ] && printf '[%s] ' "$NIX_SHELL_WRAPPER_DESCRIPTIONS"
}
if [ -z "$_NSW_PROMPT_INSTALLED" ]; then
  _NSW_PROMPT_INSTALLED=1
  PS1='$(_nsw_prompt)'"$PS1"
fi
`
	case "fish":
		return `if not functions -q _nsw_original_prompt
  functions -c fish_prompt _nsw_original_prompt
  function fish_prompt
    if set -q NIX_SHELL_WRAPPER_DESCRIPTIONS; and test -n "$NIX_SHELL_WRAPPER_DESCRIPTIONS"
      printf '[%s] ' "$NIX_SHELL_WRAPPER_DESCRIPTIONS"
    end
    _nsw_original_prompt
  end
end
`
	default:
		return ""
	}
}

// HookSnippet는 rc 파일에 추가할 hook 스니펫을 반환한다.
func HookSnippet(shellType string) string {
	switch shellType {
	case "zsh", "bash":
		return fmt.Sprintf("# %s (%s)\neval \"$(nix-shell-wrapper prompt --shell %s)\"\n", HookMarker, shellType, shellType)
	case "fish":
		return fmt.Sprintf("# %s (fish)\nnix-shell-wrapper prompt --shell fish | source\n", HookMarker)
	default:
		return ""
	}
}
