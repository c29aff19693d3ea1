package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/shopspring/decimal"

	"defasagem/pkg/contracts/domain"
)

const (
	// ColorIncrease paints contributions that push towards high risk.
	ColorIncrease = "#ff0051"
	// ColorDecrease paints contributions that pull towards low risk.
	ColorDecrease = "#008bfb"

	// AssetsHost serves echarts.min.js to the rendered page.
	AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

	colorAxis   = "#6b7280"
	chartWidth  = 720
	rowHeightPx = 36
	chromePx    = 110
	precision   = 3
)

// ErrNothingToDraw is returned for explanations without steps.
var ErrNothingToDraw = errors.New("explanation has no steps")

// Waterfall renders an explanation as a horizontal waterfall: one bar per
// step, largest contribution on top, each bar floating between the
// cumulative output before and after its feature.
func Waterfall(exp *domain.Explanation) (*charts.Bar, error) {
	if exp == nil || len(exp.Steps) == 0 {
		return nil, ErrNothingToDraw
	}

	steps := exp.Steps
	n := len(steps)

	lo, hi := math.Min(exp.BaseValue, exp.OutputValue), math.Max(exp.BaseValue, exp.OutputValue)
	for _, st := range steps {
		lo = math.Min(lo, math.Min(st.Start, st.End))
		hi = math.Max(hi, math.Max(st.Start, st.End))
	}

	// Stacked bars grow from zero, so negative ranges (log-odds) are shifted
	// into the positive half and the axis labels shifted back.
	offset := 0.0
	if lo < 0 {
		offset = -lo
	}
	pad := (hi - lo) * 0.08
	if pad == 0 {
		pad = 0.05
	}

	// Categories run bottom to top; steps[0] is the largest and goes on top.
	categories := make([]string, n)
	base := make([]opts.BarData, n)
	increase := make([]opts.BarData, n)
	decrease := make([]opts.BarData, n)
	for i, st := range steps {
		row := n - 1 - i
		categories[row] = StepLabel(st)
		base[row] = opts.BarData{Value: round(math.Min(st.Start, st.End) + offset)}
		size := round(math.Abs(st.Contribution))
		if st.Contribution > 0 {
			increase[row] = opts.BarData{Value: size}
			decrease[row] = opts.BarData{Value: "-"}
		} else {
			increase[row] = opts.BarData{Value: "-"}
			decrease[row] = opts.BarData{Value: size}
		}
	}

	valueAxis := opts.XAxis{
		Type:      "value",
		Min:       round(math.Max(0, lo+offset-pad)),
		Max:       round(hi + offset + pad),
		AxisLabel: &opts.AxisLabel{Color: colorAxis},
		SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorAxis, Opacity: opts.Float(0.15)}},
	}
	if offset != 0 {
		valueAxis.AxisLabel.Formatter = opts.FuncOpts(fmt.Sprintf("function (v) { return (v - %g).toFixed(2); }", offset))
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  "Explicabilidade",
			ChartID:    "waterfall",
			AssetsHost: AssetsHost,
			Width:      fmt.Sprintf("%dpx", chartWidth),
			Height:     fmt.Sprintf("%dpx", chromePx+rowHeightPx*n),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("f(x) = %s", formatValue(exp.OutputValue)),
			Subtitle: fmt.Sprintf("E[f(X)] = %s", formatValue(exp.BaseValue)),
			Left:     "center",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(false)}),
		charts.WithGridOpts(opts.Grid{Left: "34%", Right: "8%", Top: "70", Bottom: "30"}),
		charts.WithXAxisOpts(valueAxis),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      categories,
			AxisLabel: &opts.AxisLabel{Color: colorAxis, Interval: "0"},
		}),
	)

	stack := charts.WithBarChartOpts(opts.BarChart{Stack: "waterfall", BarCategoryGap: "25%"})
	bar.AddSeries("base", base, stack,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "transparent"}),
	)
	bar.AddSeries("increase", increase, stack,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: ColorIncrease}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: "+{c}", Color: ColorIncrease}),
	)
	bar.AddSeries("decrease", decrease, stack,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: ColorDecrease}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: "-{c}", Color: ColorDecrease}),
	)
	return bar, nil
}

// RenderWaterfall writes the waterfall as a standalone HTML page.
func RenderWaterfall(w io.Writer, exp *domain.Explanation) error {
	bar, err := Waterfall(exp)
	if err != nil {
		return err
	}
	return bar.Render(w)
}

// WaterfallHTML renders the waterfall page into memory.
func WaterfallHTML(exp *domain.Explanation) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderWaterfall(&buf, exp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StepLabel is the axis text of a step: "<label> = <value>", or the bare
// label for aggregated bars and features without an input value.
func StepLabel(st domain.WaterfallStep) string {
	if st.Value == nil {
		return st.Label
	}
	return st.Label + " = " + formatValue(*st.Value)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(round(v), 'f', -1, 64)
}

func round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(precision).InexactFloat64()
}
