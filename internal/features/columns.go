package features

// Input columns collected from the form.
const (
	ColAge         = "idade"
	ColGender      = "genero"
	ColIdealPhase  = "fase_ideal"
	ColMath        = "mat"
	ColPortuguese  = "por"
	ColEnglish     = "ing"
	ColIAA         = "iaa"
	ColIEG         = "ieg"
	ColIPS         = "ips"
	ColIPP         = "ipp"
	ColINDE2022    = "inde_2022"
	ColINDE2023    = "inde_2023"
	ColINDE2024    = "inde_2024"
	ColIDA         = "ida"
	ColIPV         = "ipv"
	ColEvaluations = "n_av"
)

// Derived columns, never supplied directly.
const (
	ColAcademicMean   = "media_academica"
	ColBehavioralMean = "media_comportamental"
	ColINDEDelta      = "delta_inde"
)

// Gender categories after normalization.
const (
	GenderMale   = "masculino"
	GenderFemale = "feminino"
)

// InputColumns lists every input column in form order.
var InputColumns = []string{
	ColAge, ColGender, ColIdealPhase,
	ColMath, ColPortuguese, ColEnglish,
	ColIAA, ColIEG, ColIPS, ColIPP,
	ColINDE2022, ColINDE2023, ColINDE2024,
	ColIDA, ColIPV, ColEvaluations,
}

var (
	academicColumns   = []string{ColMath, ColPortuguese, ColEnglish}
	behavioralColumns = []string{ColIAA, ColIEG, ColIPS, ColIPP}

	// numericColumns are coerced with CoerceNumeric during preparation.
	// Age, phase and INDE 2024 have their own normalizers.
	numericColumns = []string{
		ColMath, ColPortuguese, ColEnglish,
		ColIAA, ColIEG, ColIPS, ColIPP,
		ColINDE2022, ColINDE2023,
		ColIDA, ColIPV, ColEvaluations,
	}
)
