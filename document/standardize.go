package document

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf16"

	"github.com/tailscale/hujson"
)

// standardize turns a JSON document that may carry comments and trailing
// commas into text yaml.v3 reads as the same values. Comments are blanked
// rather than removed, so parser line numbers still match the source.
func standardize(src []byte) ([]byte, error) {
	// Standardize may rewrite its input in place; the caller's bytes stay intact.
	std, err := hujson.Standardize(append([]byte(nil), src...))
	if err != nil {
		return nil, err
	}
	return yamlEscapes(std), nil
}

// yamlEscapes rewrites the parts of standard JSON that a YAML flow parser
// rejects: tabs between tokens, the "\/" escape, and UTF-16 surrogate
// escapes. Surrogate pairs become a single \U escape; a lone surrogate
// becomes U+FFFD, as encoding/json decodes it.
func yamlEscapes(src []byte) []byte {
	out := make([]byte, 0, len(src))
	inString := false

	for i := 0; i < len(src); i++ {
		c := src[i]
		if !inString {
			switch c {
			case '"':
				inString = true
			case '\t':
				c = ' '
			}
			out = append(out, c)
			continue
		}

		switch {
		case c == '"':
			inString = false
			out = append(out, c)
		case c == '\\' && i+1 < len(src) && src[i+1] == '/':
			out = append(out, '/')
			i++
		case c == '\\' && i+5 < len(src) && src[i+1] == 'u':
			r1 := hexRune(src[i+2 : i+6])
			if !utf16.IsSurrogate(r1) {
				out = append(out, src[i:i+6]...)
				i += 5
				break
			}
			r := utf16.DecodeRune(r1, 0)
			n := 6
			if i+11 < len(src) && src[i+6] == '\\' && src[i+7] == 'u' {
				if r2 := hexRune(src[i+8 : i+12]); utf16.IsSurrogate(r2) {
					r = utf16.DecodeRune(r1, r2)
					if r != unicode.ReplacementChar {
						n = 12
					}
				}
			}
			out = fmt.Appendf(out, `\U%08X`, r)
			i += n - 1
		case c == '\\' && i+1 < len(src):
			out = append(out, c, src[i+1])
			i++
		default:
			out = append(out, c)
		}
	}
	return out
}

func hexRune(h []byte) rune {
	v, err := strconv.ParseUint(string(h), 16, 32)
	if err != nil {
		return unicode.ReplacementChar
	}
	return rune(v)
}
