package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gazecenter/app"
	"gazecenter/domain/gaze"
	"gazecenter/internal/errors"
	"gazecenter/ports"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func testAnalysis(scope string, points ...[2]float64) *app.Analysis {
	device := gaze.DK2()
	samples := make([]gaze.GazeSample, len(points))
	for i, p := range points {
		samples[i] = gaze.GazeSample{Trial: i, RightX: p[0], RightY: p[1], LeftX: p[0], LeftY: p[1]}
	}
	dataset := gaze.ResolveAll(samples, device)
	region := gaze.NewCenterRegion(device, gaze.DefaultRadiusDeg)
	return &app.Analysis{
		Scope:   scope,
		Label:   "test",
		Device:  device,
		Region:  region,
		Summary: gaze.Summarize(dataset, region),
		Dataset: dataset,
	}
}

func TestScatterRendersPNG(t *testing.T) {
	a := testAnalysis(ports.ScopeIndividual, [2]float64{0.5, 0.5}, [2]float64{0.1, 0.9}, [2]float64{1, 1})

	out, err := Scatter(a, Options{Width: 320, Height: 320})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, pngMagic))
}

func TestEmptyDatasetStillRenders(t *testing.T) {
	for _, scope := range []string{ports.ScopeIndividual, ports.ScopeAggregate} {
		a := testAnalysis(scope)

		scatter, err := Scatter(a, DefaultOptions())
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(scatter, pngMagic))

		bars, err := Proportions(a, DefaultOptions())
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(bars, pngMagic))
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := Render("pie", testAnalysis(ports.ScopeIndividual), DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestLinearTicksInverted(t *testing.T) {
	ticks := linearTicks(1080, 6, true)
	require.Len(t, ticks, 7)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Equal(t, "1080", ticks[0].Label)
	assert.Equal(t, "0", ticks[6].Label)
}

func TestCircleIsClosed(t *testing.T) {
	xs, ys := circle(480, 540, 100)
	assert.InDelta(t, xs[0], xs[len(xs)-1], 1e-9)
	assert.InDelta(t, ys[0], ys[len(ys)-1], 1e-9)
	assert.InDelta(t, 580, xs[0], 1e-9)
}
