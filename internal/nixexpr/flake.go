package nixexpr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hbjs97/nix-shell-wrapper/internal/pathutil"
)

// ErrInvalidFlakeRef는 "name=path" 형식이 잘못된 flake 참조의 sentinel error다.
var ErrInvalidFlakeRef = errors.New("invalid flake reference")

var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_'-]*$`)

var keywords = map[string]bool{
	"assert": true, "else": true, "if": true, "in": true, "inherit": true,
	"let": true, "or": true, "rec": true, "then": true, "with": true,
}

// reserved는 prefix가 직접 바인딩하는 이름이다.
var reserved = map[string]bool{
	systemFlakeBinding: true, "nixpkgs": true, pkgsBinding: true,
}

// NamedFlake는 canonical 경로의 flake를 사용자 식에서 참조할 이름에 묶는다.
type NamedFlake struct {
	Name string
	Path string
}

// String은 명령줄 형식(name=path)으로 반환한다.
func (f NamedFlake) String() string {
	return f.Name + "=" + f.Path
}

// ParseNamedFlake는 "name=path"를 파싱한다. 경로는 존재해야 하며 canonicalize된다.
func ParseNamedFlake(s string) (NamedFlake, error) {
	name, path, ok := strings.Cut(s, "=")
	if !ok || path == "" {
		return NamedFlake{}, fmt.Errorf("nixexpr.ParseNamedFlake: %q is not NAME=PATH: %w", s, ErrInvalidFlakeRef)
	}
	return NewNamedFlake(name, path)
}

// NewNamedFlake는 name을 검증하고 path를 canonicalize한다.
func NewNamedFlake(name, path string) (NamedFlake, error) {
	if err := ValidateName(name); err != nil {
		return NamedFlake{}, err
	}
	canonical, err := pathutil.Canonicalize(pathutil.ExpandHome(path))
	if err != nil {
		return NamedFlake{}, fmt.Errorf("nixexpr.NewNamedFlake: %w", err)
	}
	return NamedFlake{Name: name, Path: canonical}, nil
}

// ValidateName은 name이 keyword나 prefix의 바인딩과 겹치지 않고
// let 식에 바인딩될 수 있는지 확인한다.
func ValidateName(name string) error {
	switch {
	case !identifierRegex.MatchString(name):
		return fmt.Errorf("nixexpr.ValidateName: %q is not a valid identifier: %w", name, ErrInvalidFlakeRef)
	case keywords[name]:
		return fmt.Errorf("nixexpr.ValidateName: %q is a keyword: %w", name, ErrInvalidFlakeRef)
	case reserved[name]:
		return fmt.Errorf("nixexpr.ValidateName: %q is reserved: %w", name, ErrInvalidFlakeRef)
	}
	return nil
}

// MergeFlakes는 base 위에 overrides를 적용한 목록을 반환한다.
// 같은 이름은 제자리에서 교체하고 새 이름은 순서대로 뒤에 붙인다.
func MergeFlakes(base, overrides []NamedFlake) []NamedFlake {
	merged := make([]NamedFlake, 0, len(base)+len(overrides))
	index := make(map[string]int, len(base)+len(overrides))
	for _, f := range append(append([]NamedFlake{}, base...), overrides...) {
		if i, ok := index[f.Name]; ok {
			merged[i] = f
			continue
		}
		index[f.Name] = len(merged)
		merged = append(merged, f)
	}
	return merged
}
