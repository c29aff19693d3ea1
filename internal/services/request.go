package services

import (
	"math"

	"github.com/shopspring/decimal"

	"defasagem/internal/features"
	api "defasagem/pkg/contracts/api/v1"
)

// inputPrecision matches the form's %0.4f number inputs.
const inputPrecision = 4

// RecordFromRequest converts a validated request into a raw record with
// every input column present. Unknown indicators become missing values.
// inde_2024 is passed as text, the way the form submits it, so the
// sentinel normalizer sees the same input either way.
func RecordFromRequest(req api.PredictRequest) features.Record {
	r := features.Record{
		features.ColAge:         features.Number(float64(req.Idade)),
		features.ColGender:      features.Text(req.Genero),
		features.ColIdealPhase:  features.Text(req.FaseIdeal),
		features.ColMath:        score(req.Mat),
		features.ColPortuguese:  score(req.Por),
		features.ColEnglish:     score(req.Ing),
		features.ColIAA:         score(req.IAA),
		features.ColIEG:         score(req.IEG),
		features.ColIPS:         score(req.IPS),
		features.ColIPP:         score(req.IPP),
		features.ColINDE2022:    score(req.INDE2022),
		features.ColINDE2023:    score(req.INDE2023),
		features.ColINDE2024:    features.Missing(),
		features.ColIDA:         score(req.IDA),
		features.ColIPV:         score(req.IPV),
		features.ColEvaluations: features.Missing(),
	}
	if v := score(req.INDE2024); !v.IsMissing() {
		r[features.ColINDE2024] = features.Text(v.String())
	}
	if req.NAv != nil {
		r[features.ColEvaluations] = features.Number(float64(*req.NAv))
	}
	return r
}

func score(p *float64) features.Value {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return features.Missing()
	}
	return features.Number(RoundInput(*p))
}

// RoundInput rounds v to the form's input precision.
func RoundInput(v float64) float64 {
	return decimal.NewFromFloat(v).Round(inputPrecision).InexactFloat64()
}
