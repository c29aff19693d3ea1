package features

import "strings"

var genderSynonyms = map[string]string{
	"menino":    GenderMale,
	"masculino": GenderMale,
	"menina":    GenderFemale,
	"feminino":  GenderFemale,
}

// NormalizeGender maps a free-text gender label onto GenderMale or
// GenderFemale. Only the exact synonyms are recognised; anything else,
// including near misses such as "feminina", becomes missing.
func NormalizeGender(v Value) Value {
	key := strings.ToLower(strings.TrimSpace(v.String()))
	canonical, ok := genderSynonyms[key]
	if !ok {
		return Missing()
	}
	return Text(canonical)
}
