package ddl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaseStyle is a naming transformation applied to identifiers before emission.
type CaseStyle string

const (
	// CaseCamel upper-cases the first letter of every underscore-separated
	// segment and keeps the separators, so my_col becomes My_Col.
	CaseCamel CaseStyle = "camel"
	CaseUpper CaseStyle = "upper"
	CaseLower CaseStyle = "lower"
	CaseAsIs  CaseStyle = "as_is"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// ApplyCase transforms name according to style. Unknown styles leave the
// name unchanged.
func ApplyCase(name string, style CaseStyle) string {
	switch style {
	case CaseCamel:
		words := strings.Split(name, "_")
		for i, w := range words {
			words[i] = capitalize(w)
		}
		return strings.Join(words, "_")
	case CaseUpper:
		return upperCaser.String(name)
	case CaseLower:
		return lowerCaser.String(name)
	default:
		return name
	}
}

// capitalize title-cases the first rune and leaves the rest untouched.
func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if size == 0 || r == utf8.RuneError {
		return w
	}
	return string(unicode.ToTitle(r)) + w[size:]
}
