package features

import (
	"strings"
	"unicode"
)

// featureLabels holds the curated display labels for pipeline output names.
var featureLabels = map[string]string{
	"num__idade":                "Idade do Aluno",
	"num__inde_2024":            "Índice INDE (Atual)",
	"num__media_academica":      "Média Acadêmica (Mat, Por, Ing)",
	"num__media_comportamental": "Média Comportamental (IAA, IEG, IPS, IPP)",
	"num__delta_inde":           "Evolução do INDE (Últimos 2 anos)",
	"num__fase_ideal":           "Fase Ideal",
	"cat__genero_masculino":     "Gênero (Masculino)",
	"cat__genero_feminino":      "Gênero (Feminino)",
	"num__ida":                  "Indicador de Desemp. Acad. (IDA)",
	"num__ipv":                  "Indicador de Ponto de Virada (IPV)",
	"num__n_av":                 "Número de Avaliações",
}

var transformerPrefixes = []string{"num__", "cat__", "bin__"}

// TranslateFeatureNames returns a display label for each technical
// pipeline feature name, position for position.
func TranslateFeatureNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = TranslateFeatureName(name)
	}
	return out
}

// TranslateFeatureName labels a single pipeline feature name. Names outside
// the curated table lose their transformer prefix, get spaces for
// underscores and are title-cased.
func TranslateFeatureName(name string) string {
	if label, ok := featureLabels[name]; ok {
		return label
	}
	cleaned := strings.ReplaceAll(stripPrefixes(name), "_", " ")
	return titleCase(cleaned)
}

// stripPrefixes removes every occurrence of each transformer prefix, one
// prefix after the other.
func stripPrefixes(name string) string {
	for _, p := range transformerPrefixes {
		name = strings.ReplaceAll(name, p, "")
	}
	return name
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest. Digits and punctuation break runs, so "x1y" becomes "X1Y".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if inWord {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			inWord = true
			continue
		}
		inWord = false
		b.WriteRune(r)
	}
	return b.String()
}
