// Package features turns a raw student record, as typed into the form or
// read from the NGO's spreadsheets, into the numeric feature set the
// trained risk model expects.
//
// # Normalizers
//
// Each normalizer is total: bad input degrades to a missing Value instead
// of an error.
//
//	CoerceNumeric          text → number, unparseable → missing
//	ExtractPhase           "Alfa" → 0, "Fase N" → N
//	NormalizeGender        menino/masculino, menina/feminino
//	NormalizeAge           plain number or January-1900 date artifact, kept within [6, 30]
//	NormalizeIndexSentinel "INCLUIR" → missing
//
// # Preparation
//
// Prepare chains the normalizers and adds the derived columns
// media_academica, media_comportamental and delta_inde:
//
//	raw := features.RecordFrom(map[string]any{"idade": "12", "mat": 6.0, "por": 7.0})
//	prepared := features.Prepare(raw)
//
// # Display labels
//
// TranslateFeatureNames maps the pipeline's technical output names
// (num__idade, cat__genero_feminino, ...) to Portuguese labels for the
// attribution chart.
package features
