package resolver

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// OtherGroup is the group key for titles that don't start with a letter.
const OtherGroup = "#"

// baseLetters maps transliteration and Latin diacritic letters to their
// unaccented capital. Keyed by the upper-case form.
var baseLetters = buildBaseLetters(map[byte]string{
	'A': "ĀÀÁÂÃÄÅĄĂȦẠẢẤẦẨẪẬẮẰẲẴẶ",
	'B': "ḂḄḆ",
	'C': "ĆĈĊČÇ",
	'D': "ḌḎḐḒĎĐ",
	'E': "ĒĔĖĘĚÈÉÊËẸẺẼẾỀỂỄỆ",
	'G': "ḠĢĜĞĠ",
	'H': "ḤḦḨḪĤĦ",
	'I': "ĪĬĮİÌÍÎÏỊỈĨ",
	'J': "Ĵ",
	'K': "ĶḰḲḴ",
	'L': "ĹĻĽĿŁḶḸḺḼ",
	'M': "ḾṀṂ",
	'N': "ŃŅŇŊÑṄṆṈṊ",
	'O': "ŌŎŐÒÓÔÕÖØǪỌỎỐỒỔỖỘ",
	'P': "ṔṖ",
	'R': "ŔŖŘṘṚṜṞ",
	'S': "ŚŜŞŠṠṢṤṦṨ",
	'T': "ŢŤŦṪṬṮṰ",
	'U': "ŪŬŮŰŲÙÚÛÜỤỦŨ",
	'V': "ṼṾ",
	'W': "ŴẀẂẄẆẈẊ",
	'Y': "ÝŶŸỲẎỸ",
	'Z': "ŹŻŽẐẒẔ",
})

func buildBaseLetters(groups map[byte]string) map[rune]string {
	m := make(map[rune]string)
	for base, variants := range groups {
		for _, r := range variants {
			m[r] = string(base)
		}
	}
	return m
}

// NormalizeLeadingCharacter maps r to its unaccented capital letter, or
// OtherGroup when r is neither in the table nor an ASCII letter.
func NormalizeLeadingCharacter(r rune) string {
	upper := unicode.ToUpper(r)
	if base, ok := baseLetters[upper]; ok {
		return base
	}
	if base, ok := baseLetters[r]; ok {
		return base
	}
	if upper >= 'A' && upper <= 'Z' {
		return string(upper)
	}
	return OtherGroup
}

// GroupKey returns the alphabetic tab a title belongs to.
func GroupKey(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return OtherGroup
	}
	r, _ := utf8.DecodeRuneInString(title)
	return NormalizeLeadingCharacter(r)
}
