package local

import (
	"fmt"
	"strings"
)

// Language is a two-letter language code.
type Language string

const (
	Eng = Language("en")
	Rus = Language("ru")
)

// ParseLanguage falls back to Eng for anything it does not know.
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case Rus:
		return Rus
	default:
		return Eng
	}
}

// Localization is one translation of a TextSet.
type Localization struct {
	language Language
	text     string
}

// TextSet is a fixed UI string with its translations. Default is the English
// text and is used for any language without a translation.
type TextSet struct {
	Default          string
	translationsText map[Language]string
}

func NewTrans(language Language, text string) Localization {
	return Localization{
		language: language,
		text:     text,
	}
}

// NewSet builds a TextSet; a later translation for the same language wins.
func NewSet(defaultText string, localizations ...Localization) TextSet {
	set := TextSet{
		Default:          defaultText,
		translationsText: make(map[Language]string),
	}
	for _, localization := range localizations {
		set.translationsText[localization.language] = localization.text
	}
	return set
}

// Text returns the translation for language, or Default.
func (l TextSet) Text(language Language) string {
	if text, ok := l.translationsText[language]; ok {
		return text
	}
	return l.Default
}

func (l TextSet) DefaultFormat(a ...any) string {
	return fmt.Sprintf(l.Default, a...)
}

// Format is Text followed by fmt.Sprintf with a.
func (l TextSet) Format(language Language, a ...any) string {
	if text, ok := l.translationsText[language]; ok {
		return fmt.Sprintf(text, a...)
	}
	return l.DefaultFormat(a...)
}
