package features

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRecord() Record {
	return RecordFrom(map[string]any{
		ColAge:         12,
		ColGender:      "Menina",
		ColIdealPhase:  "Fase 3",
		ColMath:        6.0,
		ColPortuguese:  7.0,
		ColEnglish:     8.0,
		ColIAA:         8.0,
		ColIEG:         8.0,
		ColIPS:         6.0,
		ColIPP:         6.0,
		ColINDE2022:    5.0,
		ColINDE2023:    6.5,
		ColINDE2024:    "7.25",
		ColIDA:         nil,
		ColIPV:         6.9,
		ColEvaluations: 3,
	})
}

func TestPrepareEndToEnd(t *testing.T) {
	got := Prepare(fullRecord())

	want := map[string]any{
		ColAge:            12.0,
		ColGender:         GenderFemale,
		ColIdealPhase:     3.0,
		ColMath:           6.0,
		ColPortuguese:     7.0,
		ColEnglish:        8.0,
		ColIAA:            8.0,
		ColIEG:            8.0,
		ColIPS:            6.0,
		ColIPP:            6.0,
		ColINDE2022:       5.0,
		ColINDE2023:       6.5,
		ColINDE2024:       7.25,
		ColIDA:            nil,
		ColIPV:            6.9,
		ColEvaluations:    3.0,
		ColAcademicMean:   7.0,
		ColBehavioralMean: 7.0,
		ColINDEDelta:      1.5,
	}
	if diff := cmp.Diff(want, got.Map(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Prepare() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareDoesNotMutateInput(t *testing.T) {
	in := fullRecord()
	before := in.Clone()

	_ = Prepare(in)

	assert.Equal(t, before, in)
	assert.False(t, in.Has(ColAcademicMean))
}

func TestPrepareAcademicMeanSchemaRule(t *testing.T) {
	t.Run("two columns are enough", func(t *testing.T) {
		got := Prepare(Record{ColMath: Number(4), ColEnglish: Number(8)})
		assertNumber(t, 6, got[ColAcademicMean])
	})

	t.Run("one column is not", func(t *testing.T) {
		got := Prepare(Record{ColMath: Number(4)})
		assert.False(t, got.Has(ColAcademicMean))
	})

	t.Run("row nulls are skipped", func(t *testing.T) {
		got := Prepare(Record{ColMath: Number(4), ColPortuguese: Missing(), ColEnglish: Missing()})
		assertNumber(t, 4, got[ColAcademicMean])
	})

	t.Run("all null row yields missing", func(t *testing.T) {
		got := Prepare(Record{ColMath: Missing(), ColPortuguese: Text("n/a")})
		require.True(t, got.Has(ColAcademicMean))
		assert.True(t, got[ColAcademicMean].IsMissing())
	})
}

func TestPrepareBehavioralMean(t *testing.T) {
	got := Prepare(Record{ColIAA: Number(9), ColIEG: Text("7"), ColIPS: Missing()})
	assertNumber(t, 8, got[ColBehavioralMean])

	got = Prepare(Record{ColIPP: Number(9)})
	assert.False(t, got.Has(ColBehavioralMean))
}

func TestPrepareINDEDelta(t *testing.T) {
	t.Run("both years", func(t *testing.T) {
		got := Prepare(Record{ColINDE2022: Number(5), ColINDE2023: Number(6.5)})
		assertNumber(t, 1.5, got[ColINDEDelta])
	})

	t.Run("missing year propagates", func(t *testing.T) {
		got := Prepare(Record{ColINDE2022: Missing(), ColINDE2023: Number(6.5)})
		require.True(t, got.Has(ColINDEDelta))
		assert.True(t, got[ColINDEDelta].IsMissing())
	})

	t.Run("absent column means no delta column", func(t *testing.T) {
		got := Prepare(Record{ColINDE2023: Number(6.5)})
		assert.False(t, got.Has(ColINDEDelta))
	})
}

func TestPrepareNormalizesMessyInput(t *testing.T) {
	got := Prepare(Record{
		ColAge:        Text("1900-01-14"),
		ColGender:     Text(" menino "),
		ColIdealPhase: Text("ALFA"),
		ColINDE2024:   Text(" incluir "),
		ColMath:       Text("abc"),
	})

	assertNumber(t, 14, got[ColAge])
	s, _ := got[ColGender].TextValue()
	assert.Equal(t, GenderMale, s)
	assertNumber(t, 0, got[ColIdealPhase])
	assert.True(t, got[ColINDE2024].IsMissing())
	assert.True(t, got[ColMath].IsMissing())
}

func TestRecordMapEncodesInfinity(t *testing.T) {
	got := Prepare(Record{ColMath: Text("inf"), ColPortuguese: Number(5)}).Map()

	assert.Equal(t, "inf", got[ColMath])
	assert.Equal(t, 5.0, got[ColPortuguese])

	_, err := json.Marshal(got)
	assert.NoError(t, err)
}
