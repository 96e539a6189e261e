package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gazecenter/app"
	"gazecenter/internal/errors"
	"gazecenter/ports"
)

// Chart kinds served by the dashboard
const (
	KindScatter   = "scatter"
	KindHistogram = "histogram"
)

// circleSegments is the number of line segments approximating the region outline
const circleSegments = 180

// Options sizes a rendered chart
type Options struct {
	Width  int
	Height int
}

// DefaultOptions matches the dashboard's image slots
func DefaultOptions() Options {
	return Options{Width: 640, Height: 640}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

var (
	colorFixation = drawing.Color{R: 128, G: 0, B: 128, A: 128}
	colorRegion   = drawing.Color{R: 220, G: 20, B: 60, A: 255}
	colorGreen    = drawing.Color{R: 0, G: 128, B: 0, A: 255}
	colorBlue     = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	colorOrange   = drawing.Color{R: 255, G: 127, B: 14, A: 255}
	colorPurple   = drawing.Color{R: 128, G: 0, B: 128, A: 255}
)

// pointStyle renders points only, with no connecting line
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    2,
		DotColor:    col,
	}
}

// Render draws the requested chart kind for an analysis
func Render(kind string, a *app.Analysis, opts Options) ([]byte, error) {
	switch kind {
	case KindScatter:
		return Scatter(a, opts)
	case KindHistogram:
		return Proportions(a, opts)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown chart kind %q", kind))
	}
}

// Scatter plots every resolved sample in screen space with the center region
// outlined. The y axis runs top to bottom like the headset display.
func Scatter(a *app.Analysis, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	width := float64(a.Device.Resolution.Width)
	height := float64(a.Device.Resolution.Height)

	var series []chart.Series
	// go-chart refuses empty series; an empty dataset still gets the outline
	if a.Dataset.Len() > 0 {
		ys := a.Dataset.PixelYs()
		for i := range ys {
			ys[i] = height - ys[i]
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "Fixations",
			XValues: a.Dataset.PixelXs(),
			YValues: ys,
			Style:   pointStyle(colorFixation),
		})
	}

	cx, cy := circle(a.Region.CenterX, height-a.Region.CenterY, a.Region.RadiusPx)
	series = append(series, chart.ContinuousSeries{
		Name:    fmt.Sprintf("Center (%g° radius)", a.Region.RadiusDeg),
		XValues: cx,
		YValues: cy,
		Style: chart.Style{
			StrokeColor: colorRegion,
			StrokeWidth: 2,
		},
	})

	title := "Eye Position Fixations on " + a.Device.Name + " Headset Screen"
	if a.Scope == ports.ScopeAggregate {
		title = "Aggregate Eye Position Fixations Across All Participants"
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s (Inside: %d, Outside: %d)", title, a.Summary.Inside, a.Summary.Outside),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Pixel X",
			Range: &chart.ContinuousRange{Min: 0, Max: width},
			Ticks: linearTicks(width, 6, false),
		},
		YAxis: chart.YAxis{
			Name:  "Pixel Y",
			Range: &chart.ContinuousRange{Min: 0, Max: height},
			Ticks: linearTicks(height, 6, true),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrap(err, "failed to render scatter chart")
	}
	return buf.Bytes(), nil
}

// Proportions draws the inside/outside ratios as two bars in [0, 1]
func Proportions(a *app.Analysis, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	inside, outside := colorGreen, colorBlue
	title := "Fixation Proportion Inside and Outside Center"
	if a.Scope == ports.ScopeAggregate {
		inside, outside = colorOrange, colorPurple
		title = "Aggregate " + title
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   opts.Width / 4,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  "Proportion",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
			Ticks: []chart.Tick{
				{Value: 0, Label: "0"}, {Value: 0.25, Label: "0.25"}, {Value: 0.5, Label: "0.5"},
				{Value: 0.75, Label: "0.75"}, {Value: 1, Label: "1"},
			},
		},
		Bars: []chart.Value{
			{
				Value: a.Summary.InsideRatio,
				Label: fmt.Sprintf("Inside Center (%.1f%%)", a.Summary.InsideRatio*100),
				Style: chart.Style{FillColor: inside, StrokeColor: inside},
			},
			{
				Value: a.Summary.OutsideRatio,
				Label: fmt.Sprintf("Outside Center (%.1f%%)", a.Summary.OutsideRatio*100),
				Style: chart.Style{FillColor: outside, StrokeColor: outside},
			},
		},
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrap(err, "failed to render proportion chart")
	}
	return buf.Bytes(), nil
}

// circle returns a closed polyline around (x, y)
func circle(x, y, r float64) ([]float64, []float64) {
	xs := make([]float64, circleSegments+1)
	ys := make([]float64, circleSegments+1)
	for i := 0; i <= circleSegments; i++ {
		theta := 2 * math.Pi * float64(i) / circleSegments
		xs[i] = x + r*math.Cos(theta)
		ys[i] = y + r*math.Sin(theta)
	}
	return xs, ys
}

// linearTicks spreads n+1 ticks over [0, max]. Inverted ticks label each
// position with its screen coordinate, which runs the other way.
func linearTicks(max float64, n int, inverted bool) []chart.Tick {
	ticks := make([]chart.Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		v := max * float64(i) / float64(n)
		label := v
		if inverted {
			label = max - v
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", label)})
	}
	return ticks
}
