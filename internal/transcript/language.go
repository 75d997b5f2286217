package transcript

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// AutoLanguage asks the backend to detect the spoken language.
const AutoLanguage = "auto"

// LanguageOptions returns the language hints offered in the selector.
func LanguageOptions() []string {
	return []string{AutoLanguage, "en", "es", "fr", "de", "it", "pt", "nl", "ru", "ja", "ko", "zh", "ar", "hi"}
}

// IsAuto reports whether the hint means "let the backend decide".
func IsAuto(lang string) bool {
	lang = strings.TrimSpace(lang)
	return lang == "" || strings.EqualFold(lang, AutoLanguage)
}

// LanguageLabel formats a detected language code for display, e.g. "ES (Spanish)".
func LanguageLabel(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	upper := cases.Upper(language.Und).String(code)

	tag, err := language.Parse(code)
	if err != nil {
		return upper
	}
	name := display.English.Tags().Name(tag)
	if name == "" || strings.EqualFold(name, code) {
		return upper
	}
	return upper + " (" + name + ")"
}

// LanguageName returns the English name for a hint, or the hint itself.
func LanguageName(code string) string {
	if IsAuto(code) {
		return "Auto-detect"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}
