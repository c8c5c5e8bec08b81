// Package shell provides shell integration for the descriptions breadcrumb.
// It generates prompt snippets (PROMPT for Zsh, PS1 for Bash, fish_prompt for
// Fish) that show NIX_SHELL_WRAPPER_DESCRIPTIONS in front of the prompt, and
// the rc-file hook that loads them.
package shell
