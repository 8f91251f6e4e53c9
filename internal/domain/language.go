package domain

var flags = map[string]string{
	"en": "🇬🇧",
	"fr": "🇫🇷",
	"de": "🇩🇪",
	"es": "🇪🇸",
	"it": "🇮🇹",
	"pt": "🇵🇹",
	"nl": "🇳🇱",
	"ru": "🇷🇺",
	"ja": "🇯🇵",
	"zh": "🇨🇳",
	"ar": "🇸🇦",
	"ko": "🇰🇷",
	"pl": "🇵🇱",
	"tr": "🇹🇷",
	"sv": "🇸🇪",
	"da": "🇩🇰",
	"no": "🇳🇴",
	"fi": "🇫🇮",
	"cs": "🇨🇿",
	"el": "🇬🇷",
}

// Flag returns the flag glyph for a language code, or a globe
func Flag(code string) string {
	if f, ok := flags[code]; ok {
		return f
	}
	return "🌐"
}

// EditableLanguages keeps the languages active in edit mode
func EditableLanguages(langs []Language) []Language {
	var out []Language
	for _, l := range langs {
		if l.ActiveInEdit {
			out = append(out, l)
		}
	}
	return out
}

// PickDefaultLanguage returns preferred when the site has it, else the first
// language, else "".
func PickDefaultLanguage(langs []Language, preferred string) string {
	for _, l := range langs {
		if preferred != "" && l.Code == preferred {
			return preferred
		}
	}
	if len(langs) > 0 {
		return langs[0].Code
	}
	return ""
}

// LanguageName returns the display name for code, or code itself
func LanguageName(langs []Language, code string) string {
	for _, l := range langs {
		if l.Code == code && l.DisplayName != "" {
			return l.DisplayName
		}
	}
	return code
}
