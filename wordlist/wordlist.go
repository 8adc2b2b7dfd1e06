// Package wordlist implements ladderwatch.ProfanityChecker over a list of
// objectionable words matched against normalized character names.
package wordlist

import (
	"bufio"
	_ "embed"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/fwojciec/ladderwatch"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//go:embed words.txt
var defaultWords string

//go:embed allow.txt
var defaultAllow string

// Ensure Checker implements ladderwatch.ProfanityChecker at compile time.
var _ ladderwatch.ProfanityChecker = (*Checker)(nil)

// leet maps common character substitutions back to letters.
var leet = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'8': 'b',
	'@': 'a',
	'$': 's',
	'!': 'i',
}

// minSuffixLen is the shortest listed word also matched at the end of a token.
// Shorter words end too many ordinary words (grape, parse).
const minSuffixLen = 5

// Checker flags names with a token that is, starts with or ends with a listed
// word. Names are split into tokens at separators and camelCase boundaries
// before normalization, so a word buried inside an ordinary word does not match.
type Checker struct {
	words   []string
	allowed []string
}

// Option configures a Checker.
type Option func(*Checker)

// WithAllowed exempts tokens starting with any of the given words.
func WithAllowed(words ...string) Option {
	return func(c *Checker) {
		for _, w := range words {
			if n := Normalize(w); n != "" {
				c.allowed = append(c.allowed, n)
			}
		}
	}
}

// NewChecker creates a Checker for the given words. Blank entries are ignored.
func NewChecker(words []string, opts ...Option) *Checker {
	c := &Checker{}
	for _, w := range words {
		if n := Normalize(w); n != "" {
			c.words = append(c.words, n)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Default returns a Checker over the built-in word and allow lists.
func Default() *Checker {
	words, _ := parse(strings.NewReader(defaultWords))
	return NewChecker(words, defaultAllowed())
}

// Load reads a word list file: one word per line, '#' starts a comment.
// The built-in allow list applies.
func Load(path string) (*Checker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words, err := parse(f)
	if err != nil {
		return nil, err
	}
	return NewChecker(words, defaultAllowed()), nil
}

func defaultAllowed() Option {
	allowed, _ := parse(strings.NewReader(defaultAllow))
	return WithAllowed(allowed...)
}

// Len returns the number of words in the list.
func (c *Checker) Len() int {
	return len(c.words)
}

// IsObjectionable reports whether any token of name matches a listed word.
func (c *Checker) IsObjectionable(name string) bool {
	for _, tok := range Tokens(name) {
		if c.matches(Normalize(tok)) {
			return true
		}
	}
	return false
}

func (c *Checker) matches(tok string) bool {
	if tok == "" {
		return false
	}
	for _, a := range c.allowed {
		if strings.HasPrefix(tok, a) {
			return false
		}
	}
	for _, w := range c.words {
		if strings.HasPrefix(tok, w) {
			return true
		}
		if len(w) >= minSuffixLen && strings.HasSuffix(tok, w) {
			return true
		}
	}
	return false
}

// Tokens splits a raw name at separators and camelCase boundaries.
// Digits and substitution symbols stay inside their token.
func Tokens(name string) []string {
	rs := []rune(name)
	var toks []string
	start := -1
	for i, r := range rs {
		if !partOfWord(r) {
			if start >= 0 {
				toks = append(toks, string(rs[start:i]))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		if unicode.IsUpper(r) && wordBoundary(rs, i) {
			toks = append(toks, string(rs[start:i]))
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, string(rs[start:]))
	}
	return toks
}

func partOfWord(r rune) bool {
	_, sub := leet[r]
	return sub || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// wordBoundary reports whether the upper-case rune at i starts a new word:
// after a lower-case letter or digit (darnIt), or as the last capital of an
// acronym followed by lower case (XDarn).
func wordBoundary(rs []rune, i int) bool {
	prev := rs[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	if unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
		return true
	}
	return false
}

// Normalize folds case, strips diacritics, undoes digit and symbol
// substitutions and drops everything that is not a letter.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)

	var b strings.Builder
	for _, r := range folded {
		if l, ok := leet[r]; ok {
			r = l
		}
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parse(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}
