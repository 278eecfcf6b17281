package entity

import (
	"fmt"

	"golang.org/x/text/language"
)

type Language string

const (
	LanguageKorean     Language = "ko"
	LanguageEnglish    Language = "en"
	LanguageJapanese   Language = "ja"
	LanguageChinese    Language = "zh"
	LanguageItalian    Language = "it"
	LanguageSpanish    Language = "es"
	LanguageFrench     Language = "fr"
	LanguageVietnamese Language = "vi"

	DefaultLanguage = LanguageKorean
)

type LanguageOption struct {
	Code       Language `json:"code"`
	Name       string   `json:"name"`
	NativeName string   `json:"native_name"`
}

// SupportedLanguages is ordered; the first entry is the default.
var SupportedLanguages = []LanguageOption{
	{Code: LanguageKorean, Name: "Korean", NativeName: "한국어"},
	{Code: LanguageEnglish, Name: "English", NativeName: "English"},
	{Code: LanguageJapanese, Name: "Japanese", NativeName: "日本語"},
	{Code: LanguageChinese, Name: "Chinese", NativeName: "中文"},
	{Code: LanguageItalian, Name: "Italian", NativeName: "Italiano"},
	{Code: LanguageSpanish, Name: "Spanish", NativeName: "Español"},
	{Code: LanguageFrench, Name: "French", NativeName: "Français"},
	{Code: LanguageVietnamese, Name: "Vietnamese", NativeName: "Tiếng Việt"},
}

var languageMatcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(SupportedLanguages))
	for _, opt := range SupportedLanguages {
		tags = append(tags, language.Make(string(opt.Code)))
	}
	return language.NewMatcher(tags)
}()

// ParseLanguage resolves a BCP 47 tag such as "en-US" to a supported language.
func ParseLanguage(tag string) (Language, error) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
	}

	lang, ok := match(parsed)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
	}

	return lang, nil
}

// LanguageFromAcceptHeader picks the best supported language for an
// Accept-Language header value.
func LanguageFromAcceptHeader(header string) (Language, bool) {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}

	return match(tags...)
}

func match(tags ...language.Tag) (Language, bool) {
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	return SupportedLanguages[index].Code, true
}
