package swift

import (
	"iter"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// String is an immutable text value whose equality, ordering and hash use
// canonical equivalence, and whose count is in extended grapheme clusters.
// It is comparable, so it can key a Dictionary; the Hashable methods make
// "é" and "é" the same key.
type String struct {
	s string
}

// NewString wraps a Go string as is.
func NewString(s string) String {
	return String{s: s}
}

// String returns the underlying Go string.
func (s String) String() string { return s.s }

// Normalized returns the NFC form.
func (s String) Normalized() string { return norm.NFC.String(s.s) }

// IsEmpty reports whether the string has no characters.
func (s String) IsEmpty() bool { return s.s == "" }

// Count returns the number of characters.
func (s String) Count() int {
	return uniseg.GraphemeClusterCount(s.s)
}

// All iterates the characters.
func (s String) All() iter.Seq[Character] {
	return func(yield func(Character) bool) {
		g := uniseg.NewGraphemes(s.s)
		for g.Next() {
			if !yield(Character(g.Str())) {
				return
			}
		}
	}
}

// Characters returns the characters as an Array.
func (s String) Characters() *Array[Character] {
	return ArrayFrom[Character](s)
}

// HasPrefix reports whether s starts with the characters of prefix.
func (s String) HasPrefix(prefix String) bool {
	return strings.HasPrefix(s.Normalized(), prefix.Normalized())
}

// Compare orders strings by their NFC bytes.
func (s String) Compare(o String) int {
	return strings.Compare(s.Normalized(), o.Normalized())
}

// EqualTo implements Equatable by canonical equivalence.
func (s String) EqualTo(other any) bool {
	switch o := other.(type) {
	case String:
		return s.s == o.s || s.Normalized() == o.Normalized()
	case string:
		return s.s == o || s.Normalized() == norm.NFC.String(o)
	}
	return false
}

// HashInto implements Hashable over the NFC form.
func (s String) HashInto(h *Hasher) {
	h.h.WriteString(s.Normalized())
}

// Character is one extended grapheme cluster.
type Character string

// EqualTo implements Equatable by canonical equivalence.
func (c Character) EqualTo(other any) bool {
	o, ok := other.(Character)
	return ok && (c == o || norm.NFC.String(string(c)) == norm.NFC.String(string(o)))
}

// HashInto implements Hashable over the NFC form.
func (c Character) HashInto(h *Hasher) {
	h.h.WriteString(norm.NFC.String(string(c)))
}

// String returns the cluster text.
func (c Character) String() string { return string(c) }
