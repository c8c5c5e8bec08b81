// Package label은 NIX_SHELL_WRAPPER_DESCRIPTIONS breadcrumb을 이루는 짧은 라벨을 만든다.
//
// 길이는 extended grapheme cluster 단위로 세고, 자를 때는 Unicode 단어 경계를 우선한다.
package label

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

const (
	// MaxLen은 라벨의 최대 길이다 (grapheme 단위).
	MaxLen = 18
	// MinLen은 잘린 라벨의 최소 길이다 (grapheme 단위). 단어 경계로 이보다 짧아지면
	// 단어 내부의 grapheme 경계에서 자른다.
	MinLen = 12

	// Ellipsis는 잘린 라벨 끝에 붙는다.
	Ellipsis = "…"
	// Space는 라벨 안의 공백 grapheme을 대체한다.
	Space = "·"
)

// ErrInternal은 내부 불변식이 깨졌을 때의 sentinel error다.
var ErrInternal = errors.New("internal error")

type segment struct {
	start int
	text  string
}

// Compress는 s를 MaxLen grapheme 이하의 라벨로 줄인다.
//
// 앞뒤 공백은 제거하고 안쪽 공백은 Space로 바꾼다. 그래도 길면 결과가
// [MinLen, MaxLen]에 들어가는 마지막 단어 뒤에서 자르고 Ellipsis를 붙인다.
// 맞는 단어 경계가 없으면 grapheme 경계에서 자른다.
func Compress(s string) (string, error) {
	s = strings.TrimSpace(s)

	attempt := replaceWhitespace(s)
	if uniseg.GraphemeClusterCount(attempt) <= MaxLen {
		return attempt, nil
	}

	words := wordSegments(s)
	for i := len(words) - 1; i >= 0; i-- {
		if l, ok := fit(s[:words[i].start] + words[i].text); ok {
			return l, nil
		}
	}

	graphemes := graphemeSegments(s)
	for i := len(graphemes) - 1; i >= 0; i-- {
		if l, ok := fit(s[:graphemes[i].start] + graphemes[i].text); ok {
			return l, nil
		}
	}

	return "", fmt.Errorf("label.Compress: no cut of %q fits %d..%d graphemes: %w", s, MinLen, MaxLen, ErrInternal)
}

// GraphemeCount는 s의 extended grapheme cluster 개수를 반환한다.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

func fit(prefix string) (string, bool) {
	l := replaceWhitespace(prefix) + Ellipsis
	n := uniseg.GraphemeClusterCount(l)
	return l, n >= MinLen && n <= MaxLen
}

func replaceWhitespace(s string) string {
	var b strings.Builder
	g := uniseg.NewGraphemes(strings.TrimSpace(s))
	for g.Next() {
		cluster := strings.TrimSpace(g.Str())
		if cluster == "" {
			b.WriteString(Space)
			continue
		}
		b.WriteString(cluster)
	}
	return b.String()
}

// wordSegments는 문자나 숫자를 포함하는 UAX #29 단어와 byte offset을 반환한다.
// 구두점과 공백은 단어가 아니라 경계로 본다.
func wordSegments(s string) []segment {
	var words []segment
	state := -1
	offset := 0
	rest := s
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if strings.IndexFunc(word, isAlphanumeric) >= 0 {
			words = append(words, segment{start: offset, text: word})
		}
		offset += len(word)
	}
	return words
}

func graphemeSegments(s string) []segment {
	var clusters []segment
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		start, _ := g.Positions()
		clusters = append(clusters, segment{start: start, text: g.Str()})
	}
	return clusters
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
