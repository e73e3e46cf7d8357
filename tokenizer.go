package hyperdata

import (
	"strings"
	"unicode"
)

// A Tokenizer splits query and candidate strings into word
// tokens.
//
// By default, tokens are converted to lowercase and
// punctuation is stripped. A Tokenizer only covers the
// word-level step; subword tokenizers are wrapped behind the
// Encoder interface instead.
type Tokenizer struct {
	// PreserveCase, if true, indicates that tokens should
	// not automatically be converted to lowercase.
	PreserveCase bool

	// KeepPunct, if true, indicates that punctuation should
	// be kept as part of tokens rather than stripped.
	KeepPunct bool
}

// Tokenize produces tokens for the string.
func (t *Tokenizer) Tokenize(s string) []string {
	var res []string
	for _, field := range strings.Fields(s) {
		if !t.PreserveCase {
			field = strings.ToLower(field)
		}
		if !t.KeepPunct {
			field = strings.Map(dropPunct, field)
			if field == "" {
				continue
			}
		}
		res = append(res, field)
	}
	return res
}

func dropPunct(ch rune) rune {
	if unicode.IsPunct(ch) {
		return -1
	}
	return ch
}
