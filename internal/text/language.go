// Package text provides language code helpers shared by the translation
// providers and the CLI.
package text

// LanguageNames maps ISO 639-1 language codes to human-readable names.
var LanguageNames = map[string]string{
	"en": "English",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
	"it": "Italian",
	"pt": "Portuguese",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
	"ar": "Arabic",
	"hi": "Hindi",
	"nl": "Dutch",
	"pl": "Polish",
	"tr": "Turkish",
	"vi": "Vietnamese",
	"ru": "Russian",
	"id": "Indonesian",
	"th": "Thai",
}

// GetLanguageName returns the human-readable name for a language code.
// If the code is not found, it returns the code itself; model prompts
// degrade gracefully with a raw code.
func GetLanguageName(code string) string {
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	return code
}

// IsValidTargetLanguage checks if a language code is a known target.
func IsValidTargetLanguage(code string) bool {
	_, ok := LanguageNames[code]
	return ok
}

// TargetLanguageCodes returns all known target language codes.
func TargetLanguageCodes() []string {
	codes := make([]string, 0, len(LanguageNames))
	for code := range LanguageNames {
		codes = append(codes, code)
	}
	return codes
}
