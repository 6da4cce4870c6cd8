package regex

import (
	"strings"

	"github.com/ajitpratap0/rxpool/pkg/pool"
)

// Config holds the compile-time options of a Regex.
type Config struct {
	// Caseless enables case-insensitive matching (flag i).
	Caseless bool `yaml:"caseless" mapstructure:"caseless" json:"caseless"`
	// DotAll lets . match \n (flag s).
	DotAll bool `yaml:"dotall" mapstructure:"dotall" json:"dotall"`
	// Extended ignores whitespace and #-comments in the pattern.
	Extended bool `yaml:"extended" mapstructure:"extended" json:"extended"`
	// MultiLine makes ^ and $ match at line boundaries (flag m).
	MultiLine bool `yaml:"multi_line" mapstructure:"multi_line" json:"multi_line"`
	// Ungreedy swaps the meaning of x* and x*? (flag U).
	Ungreedy bool `yaml:"ungreedy" mapstructure:"ungreedy" json:"ungreedy"`
	// Longest switches to leftmost-longest matching.
	Longest bool `yaml:"longest" mapstructure:"longest" json:"longest"`

	// Pool tunes the scratch pool. A zero value means pool defaults.
	Pool pool.Config `yaml:"pool" mapstructure:"pool" json:"pool"`
}

// flags renders the inline flag group body, e.g. "ims".
func (c Config) flags() string {
	var b strings.Builder
	if c.Caseless {
		b.WriteByte('i')
	}
	if c.MultiLine {
		b.WriteByte('m')
	}
	if c.DotAll {
		b.WriteByte('s')
	}
	if c.Ungreedy {
		b.WriteByte('U')
	}
	return b.String()
}

// stripExtended removes what extended mode ignores: whitespace and
// #-comments, except inside character classes, escapes and \Q...\E.
func stripExtended(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))

	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\':
			if !inClass && strings.HasPrefix(pattern[i:], `\Q`) {
				end := strings.Index(pattern[i+2:], `\E`)
				if end < 0 {
					b.WriteString(pattern[i:])
					return b.String()
				}
				b.WriteString(pattern[i : i+end+4])
				i += end + 3
				continue
			}
			b.WriteByte(c)
			if i+1 < len(pattern) {
				i++
				b.WriteByte(pattern[i])
			}
		case inClass:
			b.WriteByte(c)
			if c == ']' {
				inClass = false
			}
		case c == '[':
			b.WriteByte(c)
			inClass = true
			// A ']' first in the class, after an optional '^', is literal.
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				i++
				b.WriteByte('^')
			}
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				i++
				b.WriteByte(']')
			}
		case c == '#':
			for i+1 < len(pattern) && pattern[i+1] != '\n' {
				i++
			}
		case c == ' ', c == '\t', c == '\n', c == '\r', c == '\f', c == '\v':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Escape quotes every metacharacter in s so the result matches s
// literally.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '.', '+', '*', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$', '#', '-':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
