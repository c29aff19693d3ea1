package features

// Prepare runs the fixed preparation chain over r and returns a new record
// in the shape the trained pipeline expects. r is not modified.
//
// Normalizers only touch columns present in r. Derived columns follow a
// schema rule: an average is added when at least two of its constituent
// columns exist, the INDE delta when both years exist. Per-row missing
// values then propagate through the arithmetic.
func Prepare(r Record) Record {
	out := r.Clone()

	apply(out, ColGender, NormalizeGender)
	apply(out, ColAge, NormalizeAge)
	apply(out, ColINDE2024, NormalizeIndexSentinel)
	apply(out, ColIdealPhase, ExtractPhase)
	for _, col := range numericColumns {
		apply(out, col, CoerceNumeric)
	}

	if cols := presentColumns(out, academicColumns); len(cols) >= 2 {
		out[ColAcademicMean] = rowMean(out, cols)
	}
	if cols := presentColumns(out, behavioralColumns); len(cols) >= 2 {
		out[ColBehavioralMean] = rowMean(out, cols)
	}
	if out.Has(ColINDE2022) && out.Has(ColINDE2023) {
		out[ColINDEDelta] = difference(out[ColINDE2023], out[ColINDE2022])
	}
	return out
}

func apply(r Record, column string, fn func(Value) Value) {
	if v, ok := r[column]; ok {
		r[column] = fn(v)
	}
}

func presentColumns(r Record, candidates []string) []string {
	var cols []string
	for _, c := range candidates {
		if r.Has(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// rowMean averages the non-missing values among cols; missing when none are set.
func rowMean(r Record, cols []string) Value {
	var sum float64
	var n int
	for _, c := range cols {
		if f, ok := r[c].Float(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return Missing()
	}
	return Number(sum / float64(n))
}

func difference(a, b Value) Value {
	x, ok := a.Float()
	if !ok {
		return Missing()
	}
	y, ok := b.Float()
	if !ok {
		return Missing()
	}
	return Number(x - y)
}
