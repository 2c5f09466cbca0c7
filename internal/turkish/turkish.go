// Package turkish holds the fixed character tables of Turkish diacritics.
package turkish

// accented maps an ambiguous ASCII letter to its accented variant.
var accented = map[rune]rune{
	'c': 'ç', 'C': 'Ç',
	'g': 'ğ', 'G': 'Ğ',
	'i': 'ı', 'I': 'İ',
	'o': 'ö', 'O': 'Ö',
	's': 'ş', 'S': 'Ş',
	'u': 'ü', 'U': 'Ü',
}

// ascii maps every Turkish diacritic to its base Latin letter. Circumflex
// forms are stripped too, though they are never produced by Accent.
var ascii = map[rune]rune{
	'ç': 'c', 'Ç': 'C',
	'ğ': 'g', 'Ğ': 'G',
	'ı': 'i', 'İ': 'I',
	'ö': 'o', 'Ö': 'O',
	'ş': 's', 'Ş': 'S',
	'ü': 'u', 'Ü': 'U',
	'â': 'a', 'Â': 'A',
	'î': 'i', 'Î': 'I',
	'û': 'u', 'Û': 'U',
}

// Letters lists the lowercase ambiguous letters in table order.
const Letters = "cgiosu"

// IsAmbiguous reports whether r is an ASCII letter with a Turkish accented
// variant.
func IsAmbiguous(r rune) bool {
	_, ok := accented[r]
	return ok
}

// Accent returns the accented variant of an ambiguous letter.
func Accent(r rune) (rune, bool) {
	a, ok := accented[r]
	return a, ok
}

// Asciify returns the base Latin letter for a diacritic, or r unchanged.
func Asciify(r rune) rune {
	if a, ok := ascii[r]; ok {
		return a
	}
	return r
}

// HasDiacritic reports whether Asciify would change r.
func HasDiacritic(r rune) bool {
	_, ok := ascii[r]
	return ok
}

// Toggle swaps an ambiguous letter with its accented counterpart in either
// direction. Circumflex forms do not toggle.
func Toggle(r rune) (rune, bool) {
	if a, ok := accented[r]; ok {
		return a, true
	}
	switch r {
	case 'â', 'Â', 'î', 'Î', 'û', 'Û':
		return r, false
	}
	if a, ok := ascii[r]; ok {
		return a, true
	}
	return r, false
}

// Key returns the lowercase ASCII letter a pattern rule is filed under, for
// both cases of an ambiguous letter.
func Key(r rune) (rune, bool) {
	if !IsAmbiguous(r) {
		return 0, false
	}
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	return r, true
}
