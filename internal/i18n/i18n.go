// Package i18n defines the supported language set and the localized
// attribute resolution rules shared by the frontend and the admin.
//
// The base language ("id") lives directly on each entity row; every other
// language is a translation row keyed by (parent, lang).
package i18n

// BaseLang is the canonical content language. Base-language text is stored
// on the parent entity itself, never as a translation row.
const BaseLang = "id"

// SupportedLangs are the translation target languages, in display order.
var SupportedLangs = []string{"en", "ar", "ja", "ko", "zh-cn"}

// AllLangs is the base language followed by all translation languages.
var AllLangs = append([]string{BaseLang}, SupportedLangs...)

var langLabels = map[string]string{
	"id":    "Indonesian",
	"en":    "English",
	"ar":    "Arabic",
	"ja":    "Japanese",
	"ko":    "Korean",
	"zh-cn": "Chinese",
}

var langFlags = map[string]string{
	"id":    "\U0001F1EE\U0001F1E9",
	"en":    "\U0001F1EC\U0001F1E7",
	"ar":    "\U0001F1F8\U0001F1E6",
	"ja":    "\U0001F1EF\U0001F1F5",
	"ko":    "\U0001F1F0\U0001F1F7",
	"zh-cn": "\U0001F1E8\U0001F1F3",
}

// IsSupported reports whether code is a known language, base included.
func IsSupported(code string) bool {
	_, ok := langLabels[code]
	return ok
}

// IsTranslated reports whether code is a translation target (not the base).
func IsTranslated(code string) bool {
	return code != BaseLang && IsSupported(code)
}

// Label returns the English display name for a language code.
func Label(code string) string {
	if l, ok := langLabels[code]; ok {
		return l
	}
	return code
}

// Flag returns the emoji flag for a language code, or empty.
func Flag(code string) string {
	return langFlags[code]
}

// Direction returns the text direction for a language code.
func Direction(code string) string {
	if code == "ar" {
		return "rtl"
	}
	return "ltr"
}

// TranslatorTarget maps an internal language code to the code understood
// by translation providers.
func TranslatorTarget(code string) string {
	if code == "zh-cn" {
		return "zh-CN"
	}
	return code
}

// Fields maps a text field name to its value.
type Fields map[string]string

// Translations maps a language code to that language's field values.
type Translations map[string]Fields

// Resolve returns the best available value for a field in the requested
// language. The base language reads directly from the parent's fields;
// any other language reads the translation row and falls back to the base
// value when the row or the field is missing or empty. A missing
// translation is normal and never an error.
func Resolve(base Fields, trs Translations, lang, field string) string {
	if lang == BaseLang {
		return base[field]
	}
	if fields, ok := trs[lang]; ok {
		if v := fields[field]; v != "" {
			return v
		}
	}
	return base[field]
}
