// Package pathutil은 사용자가 넘긴 파일시스템 경로를 해석한다.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrCanonicalize는 경로를 존재하는 절대 경로로 풀 수 없을 때의 sentinel error다.
var ErrCanonicalize = errors.New("unable to canonicalize")

// Canonicalize는 path를 절대 경로로 만들고 모든 symlink를 해석한다.
// path는 존재해야 한다.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrCanonicalize, path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrCanonicalize, path, err)
	}
	return resolved, nil
}

// ExpandHome은 앞의 "~" 또는 "~/"를 홈 디렉토리로 바꾼다.
// 설정 파일의 경로는 셸이 확장해 주지 않는다.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Exists는 path가 존재하는 파일이나 디렉토리인지 확인한다.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
