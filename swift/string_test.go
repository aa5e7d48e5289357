package swift_test

import (
	"testing"

	"swiftcore/swift"
)

func TestStringCanonicalEquivalence(t *testing.T) {
	composed := swift.NewString("caf\u00e9")
	decomposed := swift.NewString("cafe\u0301")
	if composed.String() == decomposed.String() {
		t.Fatalf("test strings should differ in bytes")
	}
	if !composed.EqualTo(decomposed) || composed.Compare(decomposed) != 0 {
		t.Fatalf("canonically equivalent strings differ")
	}
	if swift.HashValue(composed) != swift.HashValue(decomposed) {
		t.Fatalf("canonically equivalent strings hash differently")
	}
	if composed.Count() != 4 || decomposed.Count() != 4 {
		t.Fatalf("character counts %d, %d", composed.Count(), decomposed.Count())
	}

	d := swift.NewDictionary[swift.String, int]()
	d.Set(composed, 1)
	d.Set(decomposed, 2)
	if d.Count() != 1 {
		t.Fatalf("equivalent keys stored twice: %v", d)
	}
	if v, _ := d.Get(composed); v != 2 {
		t.Fatalf("lookup = %d", v)
	}
}

func TestStringCharacters(t *testing.T) {
	s := swift.NewString("a\U0001F1EF\U0001F1F5e\u0301")
	chars := s.Characters()
	if chars.Count() != 3 {
		t.Fatalf("characters = %v", chars)
	}
	if !chars.At(2).EqualTo(swift.Character("\u00e9")) {
		t.Fatalf("last character %q not equivalent to U+00E9", chars.At(2))
	}
	if !s.HasPrefix(swift.NewString("a")) || s.IsEmpty() {
		t.Fatalf("HasPrefix/IsEmpty wrong")
	}
}
