package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"covidcli/internal/config"
	apperrors "covidcli/internal/errors"
	"covidcli/pkg/contracts/domain"
)

// Options controls how a series is drawn. Zero fields fall back to
// DefaultOptions values.
type Options struct {
	Title       string
	YLabel      string
	YLimit      float64
	Palette     []color.Color
	Attribution string
	Width       vg.Length
	Height      vg.Length
}

// Blues is a light-to-dark sequential palette cycled across bars
var Blues = []color.Color{
	color.RGBA{R: 219, G: 233, B: 246, A: 255},
	color.RGBA{R: 186, G: 214, B: 235, A: 255},
	color.RGBA{R: 137, G: 190, B: 220, A: 255},
	color.RGBA{R: 83, G: 158, B: 205, A: 255},
	color.RGBA{R: 43, G: 123, B: 186, A: 255},
	color.RGBA{R: 11, G: 85, B: 159, A: 255},
}

// DefaultOptions returns the standard palette, attribution and page size
func DefaultOptions() Options {
	return Options{
		Palette:     Blues,
		Attribution: config.Attribution,
		Width:       vg.Length(config.DefaultChartWidth) * vg.Inch,
		Height:      vg.Length(config.DefaultChartHeight) * vg.Inch,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.Palette) == 0 {
		o.Palette = d.Palette
	}
	if o.Attribution == "" {
		o.Attribution = d.Attribution
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// Title returns the default chart title,
// "<county> <state> <country> Per Day COVID-19 <metric> (<first> - <last>)"
// with the parts of an unset location left out
func Title(series domain.DeltaSeries) string {
	first, last := labelRange(series)
	title := fmt.Sprintf("%s Per Day COVID-19 %s (%s - %s)",
		series.Filter.Describe(), series.Metric, first, last)
	return strings.Join(strings.Fields(title), " ")
}

// Filename returns "<country><state><county><metric>_<first>_<last>.<ext>"
func Filename(filter domain.LocationFilter, metric string, series domain.DeltaSeries, ext string) string {
	return BaseName(filter, metric, series) + "." + strings.TrimPrefix(ext, ".")
}

// BaseName is Filename without the extension, shared with exports
func BaseName(filter domain.LocationFilter, metric string, series domain.DeltaSeries) string {
	first, last := labelRange(series)
	return fmt.Sprintf("%s%s_%s_%s", filter.Label(), metric, first, last)
}

func labelRange(series domain.DeltaSeries) (string, string) {
	first, _ := series.First()
	last, _ := series.Last()
	return first.Label, last.Label
}

// ParseFormat normalizes an output format or file extension and rejects
// anything other than png, svg or pdf
func ParseFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if f == "" {
		return "png", nil
	}
	if !slices.Contains(config.ChartFormats, f) {
		return "", apperrors.NewInvalidInput(apperrors.StageRender,
			fmt.Sprintf("unsupported chart format %q (want one of %v)", format, config.ChartFormats))
	}
	return f, nil
}

// YRange returns the value axis bounds. The lower bound is 0 unless a delta
// is negative. The upper bound is limit when set, otherwise the largest
// delta.
func YRange(values []float64, limit float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if limit > 0 {
		hi = limit
	}
	if hi <= lo {
		// all deltas zero
		hi = lo + 1
	}
	return lo, hi
}

// Build lays out series as a bar chart, one bar per day
func Build(series domain.DeltaSeries, opts Options) (*plot.Plot, error) {
	if series.Len() == 0 {
		return nil, apperrors.NewOutOfRange(apperrors.StageRender, "cannot chart an empty series")
	}
	opts = opts.withDefaults()

	values := series.Values()
	lo, hi := YRange(values, opts.YLimit)

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = Title(series)
	}
	p.Y.Label.Text = opts.YLabel

	p.X.Label.Text = opts.Attribution
	p.X.Label.TextStyle.Font.Size = vg.Points(6)
	p.X.Label.Position = draw.PosLeft

	barWidth := opts.Width * 0.75 / vg.Length(len(values)+1)
	if barWidth < vg.Points(1) {
		barWidth = vg.Points(1)
	}
	for i, v := range values {
		bar, err := plotter.NewBarChart(plotter.Values{v}, barWidth)
		if err != nil {
			return nil, apperrors.New(apperrors.KindInvalidInput, apperrors.StageRender,
				fmt.Sprintf("cannot draw bar %d", i), err)
		}
		bar.XMin = float64(i)
		bar.Color = paletteColor(opts.Palette, i)
		bar.LineStyle.Width = 0
		p.Add(bar)
	}

	p.NominalX(series.Labels()...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	p.Y.Min = lo
	p.Y.Max = hi
	return p, nil
}

// paletteColor cycles through palette by bar index
func paletteColor(palette []color.Color, i int) color.Color {
	return palette[i%len(palette)]
}

// Write draws series and encodes it to w in format (png, svg or pdf)
func Write(w io.Writer, series domain.DeltaSeries, opts Options, format string) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}
	p, err := Build(series, opts)
	if err != nil {
		return err
	}

	opts = opts.withDefaults()
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return apperrors.New(apperrors.KindIO, apperrors.StageRender, "failed to encode chart", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return apperrors.NewIOError(apperrors.StageRender, "failed to write chart", err)
	}
	return nil
}
