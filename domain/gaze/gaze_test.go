package gaze

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAt(x, y float64) GazeSample {
	return GazeSample{RightX: x, LeftX: x, RightY: y, LeftY: y}
}

func TestResolveAveragesBothEyes(t *testing.T) {
	profile := DK2()
	s := GazeSample{Trial: 3, RightX: 0.4, LeftX: 0.6, RightY: 0.2, LeftY: 0.3, RightConf: 0.1}

	r := Resolve(s, profile)

	assert.InDelta(t, 0.5, r.EyeX, 1e-12)
	assert.InDelta(t, 0.25, r.EyeY, 1e-12)
	assert.Equal(t, r.EyeX*960, r.PixelX)
	assert.Equal(t, r.EyeY*1080, r.PixelY)
	assert.Equal(t, 3, r.Trial, "original fields are carried through")
	assert.Equal(t, 0.1, r.RightConf)
}

func TestResolveStaysNormalized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	profile := DK2()
	for i := 0; i < 500; i++ {
		s := GazeSample{RightX: rng.Float64(), LeftX: rng.Float64(), RightY: rng.Float64(), LeftY: rng.Float64()}
		r := Resolve(s, profile)
		assert.GreaterOrEqual(t, r.EyeX, 0.0)
		assert.LessOrEqual(t, r.EyeX, 1.0)
		assert.GreaterOrEqual(t, r.EyeY, 0.0)
		assert.LessOrEqual(t, r.EyeY, 1.0)
	}
}

func TestResolveAllPreservesOrder(t *testing.T) {
	samples := []GazeSample{{Trial: 1}, {Trial: 2}, {Trial: 3}}
	d := ResolveAll(samples, DK2())
	require.Equal(t, 3, d.Len())
	for i, s := range d {
		assert.Equal(t, i+1, s.Trial)
	}
}

func TestNewCenterRegionUsesHorizontalFOV(t *testing.T) {
	region := NewCenterRegion(DK2(), 10)

	assert.Equal(t, 480.0, region.CenterX)
	assert.Equal(t, 540.0, region.CenterY)
	assert.InDelta(t, 106.6667, region.RadiusPx, 1e-4)
	assert.Equal(t, 10.0, region.RadiusDeg)
}

func TestClassifyBoundaryIsInside(t *testing.T) {
	region := CenterRegion{CenterX: 480, CenterY: 540, RadiusPx: 100}

	tests := []struct {
		name     string
		x, y     float64
		expected Classification
	}{
		{"center", 480, 540, Inside},
		{"on boundary horizontally", 580, 540, Inside},
		{"on boundary diagonally", 540, 620, Inside},
		{"just outside", 580.001, 540, Outside},
		{"far corner", 0, 0, Outside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ResolvedSample{PixelX: tt.x, PixelY: tt.y}
			assert.Equal(t, tt.expected, region.Classify(s))
		})
	}
}

func TestSummarizeFourRowScenario(t *testing.T) {
	profile := DK2()
	d := ResolveAll([]GazeSample{
		sampleAt(0.5, 0.5),
		sampleAt(0, 0),
		sampleAt(1, 1),
		sampleAt(0.5, 0.5),
	}, profile)
	region := NewCenterRegion(profile, 10)

	assert.Equal(t, Inside, region.Classify(d[0]))
	assert.Equal(t, Outside, region.Classify(d[1]))
	assert.Equal(t, Outside, region.Classify(d[2]))
	assert.Equal(t, Inside, region.Classify(d[3]))
	assert.Greater(t, region.Distance(d[1].PixelX, d[1].PixelY), 700.0)

	summary := Summarize(d, region)
	assert.Equal(t, Summary{Total: 4, Inside: 2, Outside: 2, InsideRatio: 0.5, OutsideRatio: 0.5}, summary)
}

func TestSummarizeEmptyDataset(t *testing.T) {
	summary := Summarize(nil, NewCenterRegion(DK2(), 10))

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.InsideRatio)
	assert.Equal(t, 1.0, summary.OutsideRatio)
	assert.False(t, math.IsNaN(summary.InsideRatio))
}

func TestRadiusIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	profile := DK2()
	samples := make([]GazeSample, 300)
	for i := range samples {
		samples[i] = GazeSample{RightX: rng.Float64(), LeftX: rng.Float64(), RightY: rng.Float64(), LeftY: rng.Float64()}
	}
	d := ResolveAll(samples, profile)

	prev := NewCenterRegion(profile, MinRadiusDeg)
	prevSummary := Summarize(d, prev)
	for deg := MinRadiusDeg + RadiusStepDeg; deg <= MaxRadiusDeg; deg += RadiusStepDeg {
		region := NewCenterRegion(profile, deg)
		summary := Summarize(d, region)

		assert.Greater(t, region.RadiusPx, prev.RadiusPx)
		assert.GreaterOrEqual(t, summary.InsideRatio, prevSummary.InsideRatio)
		assert.InDelta(t, 1.0, summary.InsideRatio+summary.OutsideRatio, 1e-12)

		prev, prevSummary = region, summary
	}
}

func TestConcatKeepsArgumentOrder(t *testing.T) {
	a := Dataset{{GazeSample: GazeSample{Trial: 1}}, {GazeSample: GazeSample{Trial: 2}}}
	b := Dataset{{GazeSample: GazeSample{Trial: 10}}}

	combined := Concat(a, b)

	require.Equal(t, a.Len()+b.Len(), combined.Len())
	assert.Equal(t, []int{1, 2, 10}, []int{combined[0].Trial, combined[1].Trial, combined[2].Trial})
	assert.Empty(t, Concat())
}

func TestSnapRadius(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
		hasError bool
	}{
		{10, 10, false},
		{1, 1, false},
		{20, 20, false},
		{7.3, 7.5, false},
		{7.2, 7, false},
		{0.5, 0, true},
		{20.5, 0, true},
		{math.NaN(), 0, true},
	}
	for _, tt := range tests {
		got, err := SnapRadius(tt.input)
		if tt.hasError {
			assert.Error(t, err, "input %v", tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}
