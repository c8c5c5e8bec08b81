package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/hbjs97/nix-shell-wrapper/internal/nixexpr"
)

// flakeRefsValue는 반복 가능한 --flake NAME=PATH 플래그다.
// 경로는 파싱 시점에 canonicalize된다.
type flakeRefsValue struct {
	flakes *[]nixexpr.NamedFlake
}

var _ pflag.Value = (*flakeRefsValue)(nil)

func newFlakeRefsValue(flakes *[]nixexpr.NamedFlake) *flakeRefsValue {
	return &flakeRefsValue{flakes: flakes}
}

func (v *flakeRefsValue) String() string {
	refs := make([]string, 0, len(*v.flakes))
	for _, f := range *v.flakes {
		refs = append(refs, f.String())
	}
	return strings.Join(refs, ",")
}

func (v *flakeRefsValue) Set(s string) error {
	f, err := nixexpr.ParseNamedFlake(s)
	if err != nil {
		return err
	}
	*v.flakes = append(*v.flakes, f)
	return nil
}

func (v *flakeRefsValue) Type() string {
	return "NAME=PATH"
}
