package correction

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casers are stateful, so each helper builds its own.

func lower(s string) string { return cases.Lower(language.Turkish).String(s) }

func upper(s string) string { return cases.Upper(language.Turkish).String(s) }

func title(s string) string { return cases.Title(language.Turkish).String(s) }

type caseShape uint8

const (
	shapeLower caseShape = iota
	shapeTitle
	shapeUpper
	shapeMixed
)

func shapeOf(word string) caseShape {
	switch {
	case word == lower(word):
		return shapeLower
	case len([]rune(word)) > 1 && word == upper(word):
		return shapeUpper
	case word == title(word):
		return shapeTitle
	}
	return shapeMixed
}

// recase gives s the case shape of a word. Mixed-case words leave s alone.
func recase(s string, shape caseShape) string {
	switch shape {
	case shapeLower:
		return lower(s)
	case shapeTitle:
		return title(s)
	case shapeUpper:
		return upper(s)
	}
	return s
}
