package reading

import (
	"strings"

	"github.com/foreteller/foreteller/facts"
)

const (
	defaultLanguage = "uk"
	genderMale      = "male"
	genderFemale    = "female"
)

// BirthInput is one person's request data. Only Date is required.
type BirthInput struct {
	Date     string `json:"date"`
	Time     string `json:"time,omitempty"`
	Place    string `json:"place,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Language string `json:"language,omitempty"`
	Mode     string `json:"mode,omitempty"`
}

// CompatibilityInput pairs two people. Language and Mode fall back to
// Partner1's values when empty.
type CompatibilityInput struct {
	Partner1 BirthInput `json:"partner1"`
	Partner2 BirthInput `json:"partner2"`
	Language string     `json:"language,omitempty"`
	Mode     string     `json:"mode,omitempty"`
}

// EchoedInput repeats the input as it was actually used, so callers can
// spot a language fallback.
type EchoedInput struct {
	Date     string `json:"date"`
	Time     string `json:"time,omitempty"`
	Place    string `json:"place,omitempty"`
	Gender   string `json:"gender"`
	Language string `json:"language"`
}

// Profile is the deterministic part of a reading.
type Profile struct {
	facts.Derived
	Input EchoedInput `json:"input"`
}

// AnalysisResult is returned by Analyze. AIAnalysis is nil when no
// completion service is configured.
type AnalysisResult struct {
	Profile
	AIAnalysis *string `json:"aiAnalysis"`
}

// CompatibilityResult is returned by Compatibility.
type CompatibilityResult struct {
	Partner1        Profile `json:"p1"`
	Partner2        Profile `json:"p2"`
	AICompatibility *string `json:"aiCompatibility"`
	Language        string  `json:"language"`
}

// TranslationResult is returned by Translate.
type TranslationResult struct {
	TranslatedText string `json:"translatedText"`
	Language       string `json:"language"`
}

// normalizeGender maps anything other than "female" to "male".
func normalizeGender(g string) string {
	if strings.EqualFold(strings.TrimSpace(g), genderFemale) {
		return genderFemale
	}
	return genderMale
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
