// Package nixexpr는 `nix shell --expr`에 넘길 Nix 식을 만든다.
//
// 기본 패키지 셋과 named flake를 let으로 바인딩하고 `with`로 패키지 셋을 연 뒤
// 사용자 식을 나열한다:
//
//	let
//	  nixpkgs = builtins.getFlake "nixpkgs";
//	  pkgs = import nixpkgs { system = "x86_64-linux"; };
//	in
//	with pkgs; [(hello) (cowsay) ]
package nixexpr

import (
	"strings"
)

const (
	systemFlakeBinding = "systemFlake"
	pkgsBinding        = "pkgs"

	// SystemFlakeAttr는 시스템 flake가 system별로 제공해야 하는 attribute다.
	SystemFlakeAttr = "nix-shell-wrapper-pkgs"
)

// Assembler는 하나의 target system에 대한 식을 만든다.
type Assembler struct {
	// System은 target triple이다 (예: "x86_64-linux").
	System string
	// SystemFlake는 nix-shell-wrapper-pkgs.<system>.default를 제공하는 flake 경로다.
	// 비어 있으면 nixpkgs registry를 사용한다.
	SystemFlake string
}

// Prefix는 let 바인딩과 with scope, 리스트 여는 괄호까지를 반환한다.
// named flake는 바인딩만 되고 with scope에는 들어가지 않는다.
func (a Assembler) Prefix(flakes []NamedFlake) string {
	var b strings.Builder
	b.WriteString("let\n")

	var scope string
	if a.SystemFlake != "" {
		writeBinding(&b, systemFlakeBinding, getFlake(a.SystemFlake))
		scope = systemFlakeBinding + "." + SystemFlakeAttr + "." + Quote(a.System) + ".default"
	} else {
		writeBinding(&b, "nixpkgs", getFlake("nixpkgs"))
		writeBinding(&b, pkgsBinding, "import nixpkgs { system = "+Quote(a.System)+"; }")
		scope = pkgsBinding
	}
	for _, f := range flakes {
		writeBinding(&b, f.Name, getFlake(f.Path))
	}

	b.WriteString("in\n")
	b.WriteString("with " + scope + "; [")
	return b.String()
}

// Full은 Prefix 뒤에 각 식을 괄호로 감싸 이어 붙이고 리스트를 닫은 전체 식을 반환한다.
// 식은 그대로 삽입된다.
func (a Assembler) Full(flakes []NamedFlake, exprs []string) string {
	var b strings.Builder
	b.WriteString(a.Prefix(flakes))
	for _, e := range exprs {
		b.WriteString("(")
		b.WriteString(e)
		b.WriteString(") ")
	}
	b.WriteString("]")
	return b.String()
}

// Derivation은 deriv를 callPackage로 빌드하는 식을 반환한다.
// args는 그대로 삽입된다.
func Derivation(deriv, args string) string {
	return "callPackage " + deriv + " " + args
}

// Quote는 s를 큰따옴표 Nix 문자열 리터럴로 만든다.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '$':
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func getFlake(ref string) string {
	return "builtins.getFlake " + Quote(ref)
}

func writeBinding(b *strings.Builder, name, value string) {
	b.WriteString("  ")
	b.WriteString(name)
	b.WriteString(" = ")
	b.WriteString(value)
	b.WriteString(";\n")
}
