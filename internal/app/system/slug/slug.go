// Package slug generates and normalizes document slugs.
//
// A generated slug is three dictionary words joined by hyphens, for example
// "quiet-amber-heron". Slugs are meant to be easy to share, not unique:
// collisions are expected and resolved by the slug allocator, which probes the
// store before handing a candidate out.
package slug

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AashishRichhariya/openleaf/internal/app/system/normalize"
)

// Separator joins the words of a generated slug.
const Separator = "-"

// MaxNameLength bounds a caller-chosen slug, in runes.
const MaxNameLength = 128

var (
	invalidChars = regexp.MustCompile(`[^a-z-]`)
	validSlug    = regexp.MustCompile(`^[a-z-]+$`)
)

// Codec produces slugs from a fixed set of dictionaries.
type Codec struct {
	dicts [][]string
	intn  func(n int) int
}

// NewCodec builds a codec that takes one word from each dictionary in order.
// Every word must survive Sanitize non-empty; a dictionary that would let
// Generate produce an empty segment is rejected here rather than at
// generation time.
func NewCodec(dicts ...[]string) (*Codec, error) {
	if len(dicts) == 0 {
		return nil, fmt.Errorf("slug: at least one dictionary is required")
	}
	for i, d := range dicts {
		if len(d) == 0 {
			return nil, fmt.Errorf("slug: dictionary %d is empty", i)
		}
		for _, w := range d {
			if Sanitize(w) == "" {
				return nil, fmt.Errorf("slug: dictionary %d word %q has no usable characters", i, w)
			}
		}
	}
	return &Codec{dicts: dicts, intn: rand.IntN}, nil
}

// Default returns a codec over the bundled adjective, color, and animal lists.
func Default() *Codec {
	c, err := NewCodec(Adjectives, Colors, Animals)
	if err != nil {
		// The bundled lists are covered by TestBundledDictionariesAreClean.
		panic(err)
	}
	return c
}

// Generate returns a new random slug. It never fails; the result matches
// ^[a-z-]+$ for any codec built by NewCodec.
func (c *Codec) Generate() string {
	words := make([]string, len(c.dicts))
	for i, d := range c.dicts {
		words[i] = d[c.intn(len(d))]
	}
	return Sanitize(strings.Join(words, Separator))
}

// Sanitize lowercases s and strips every character outside [a-z-].
func Sanitize(s string) string {
	return invalidChars.ReplaceAllString(strings.ToLower(s), "")
}

// Normalize returns the canonical lookup form of a caller-supplied slug.
func Normalize(s string) string {
	return normalize.Slug(s)
}

// Valid reports whether s is a non-empty slug made only of [a-z-].
func Valid(s string) bool {
	return validSlug.MatchString(s)
}

// ValidName reports whether s can name a document in a URL path: non-empty,
// at most MaxNameLength runes, and made of letters, digits, '-' and '_'.
// Generated slugs always pass; named ones such as "meeting-2024" do too.
func ValidName(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > MaxNameLength {
		return false
	}
	for _, r := range s {
		if r != '-' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
