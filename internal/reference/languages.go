package reference

import "strings"

// DefaultLanguage is used for new sessions.
const DefaultLanguage = "en"

type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native"`
}

var languages = []Language{
	{Code: "en", Name: "English", Native: "English"},
	{Code: "hi", Name: "Hindi", Native: "हिंदी"},
	{Code: "ta", Name: "Tamil", Native: "தமிழ்"},
	{Code: "te", Name: "Telugu", Native: "తెలుగు"},
	{Code: "bn", Name: "Bengali", Native: "বাংলা"},
	{Code: "mr", Name: "Marathi", Native: "मराठी"},
	{Code: "gu", Name: "Gujarati", Native: "ગુજરાતી"},
	{Code: "kn", Name: "Kannada", Native: "ಕನ್ನಡ"},
	{Code: "ml", Name: "Malayalam", Native: "മലയാളം"},
	{Code: "pa", Name: "Punjabi", Native: "ਪੰਜਾਬੀ"},
	{Code: "or", Name: "Odia", Native: "ଓଡ଼ିଆ"},
	{Code: "ur", Name: "Urdu", Native: "اردو"},
}

// Languages returns the supported interface languages in display order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

func LanguageByCode(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}
