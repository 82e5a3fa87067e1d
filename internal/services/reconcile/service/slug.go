package service

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.English)

// NameFromSlug derives (first, last) from a politician slug like
// pat-martin or marie-claude-bibeau. The last token is taken as the
// surname, which is wrong for multi word surnames; the later chain
// stages catch those
func NameFromSlug(slug string) (first, last string) {
	toks := strings.Split(strings.Trim(slug, "-"), "-")
	if len(toks) == 0 || toks[0] == "" {
		return "", ""
	}
	last = titler.String(toks[len(toks)-1])
	if len(toks) > 1 {
		first = titler.String(strings.Join(toks[:len(toks)-1], " "))
	}
	return first, last
}
