package label

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hbjs97/nix-shell-wrapper/internal/pathutil"
)

// pathBudget은 Path 라벨의 byte 상한이다. MaxLen보다 느슨하다.
const pathBudget = 25

// ErrHomeDir는 홈 디렉토리를 알 수 없을 때의 sentinel error다.
var ErrHomeDir = errors.New("could not get home directory")

// Path는 현재 사용자의 홈 디렉토리를 기준으로 경로 라벨을 만든다.
func Path(path string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("label.Path: %w: %w", ErrHomeDir, err)
	}
	return PathIn(path, home)
}

// PathIn은 home을 "~"로 접어 path의 라벨을 만든다.
//
// 경로를 canonicalize한 뒤 마지막 구성요소부터 루트 방향으로 25 byte 미만인 동안
// 이어 붙인다. 앞쪽 구성요소가 빠진 라벨은 Ellipsis로 표시한다.
func PathIn(path, home string) (string, error) {
	canonical, err := pathutil.Canonicalize(path)
	if err != nil {
		return "", fmt.Errorf("label.Path: %w", err)
	}

	rel, inHome := stripHome(canonical, home)
	components, err := splitComponents(rel)
	if err != nil {
		return "", err
	}

	if len(components) == 0 {
		if inHome {
			return "~", nil
		}
		return "/", nil
	}

	last := len(components) - 1
	pretty := "/" + components[last]
	truncated := false
	for i := last - 1; i >= 0; i-- {
		next := "/" + components[i] + pretty
		if len(next) >= pathBudget {
			truncated = true
			break
		}
		pretty = next
	}

	switch {
	case truncated && inHome:
		return "~/" + Ellipsis + pretty, nil
	case truncated:
		return Ellipsis + pretty, nil
	case inHome:
		return "~" + pretty, nil
	default:
		return pretty, nil
	}
}

func stripHome(path, home string) (string, bool) {
	if home == "" {
		return path, false
	}
	home = filepath.Clean(home)
	if path == home {
		return "", true
	}
	prefix := home
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if strings.HasPrefix(path, prefix) {
		return path[len(prefix):], true
	}
	return path, false
}

// splitComponents는 루트와 빈 구성요소를 버린다. canonical 경로에 "."이나 ".."이
// 남아 있으면 ErrInternal이다.
func splitComponents(path string) ([]string, error) {
	var components []string
	for _, c := range strings.Split(path, string(filepath.Separator)) {
		switch c {
		case "":
			continue
		case ".", "..":
			return nil, fmt.Errorf("label.Path: unexpected %q component in canonical path %s: %w", c, path, ErrInternal)
		}
		components = append(components, c)
	}
	return components, nil
}
