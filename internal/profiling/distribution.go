package profiling

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"gazecenter/domain/gaze"
	"gazecenter/internal/errors"
)

// Summary holds summary statistics of one series
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// DistanceProfile describes how far gaze samples fall from the region center
type DistanceProfile struct {
	SampleSize int `json:"sample_size"`

	// Distance from the center in pixels and in degrees (same linear scale as
	// the region radius)
	Pixels  Summary `json:"pixels"`
	Degrees Summary `json:"degrees"`

	Skewness float64 `json:"skewness"`
	Outliers int     `json:"outliers"`

	// Mean distance between the two eye estimates in pixels
	EyeDisagreement float64 `json:"eye_disagreement_px"`

	// Tracker confidence is reported only; it never filters or weights samples.
	MeanRightConf float64 `json:"mean_right_conf"`
	MeanLeftConf  float64 `json:"mean_left_conf"`
}

// ProfileDistances computes the distance profile of d against region. An
// empty dataset yields a zero profile. Every field of the result is finite.
func ProfileDistances(d gaze.Dataset, region gaze.CenterRegion, profile gaze.DeviceProfile) (DistanceProfile, error) {
	out := DistanceProfile{SampleSize: d.Len()}
	if d.Len() == 0 {
		return out, nil
	}

	distances := make([]float64, d.Len())
	degrees := make([]float64, d.Len())
	disagreement := make([]float64, d.Len())
	rightConf := make([]float64, d.Len())
	leftConf := make([]float64, d.Len())
	degPerPx := region.DegreesPerPixel()

	for i, s := range d {
		distances[i] = region.Distance(s.PixelX, s.PixelY)
		degrees[i] = distances[i] * degPerPx
		dx := (s.RightX - s.LeftX) * profile.Resolution.Width
		dy := (s.RightY - s.LeftY) * profile.Resolution.Height
		disagreement[i] = math.Hypot(dx, dy)
		rightConf[i] = s.RightConf
		leftConf[i] = s.LeftConf
	}

	var err error
	if out.Pixels, err = summarize(distances); err != nil {
		return DistanceProfile{}, errors.Wrap(err, "distance summary")
	}
	if out.Degrees, err = summarize(degrees); err != nil {
		return DistanceProfile{}, errors.Wrap(err, "degree summary")
	}
	out.Skewness = calculateSkewness(distances, out.Pixels.Mean, out.Pixels.StdDev)
	out.Outliers = detectOutliers(distances, out.Pixels.Q25, out.Pixels.Q75)

	if out.EyeDisagreement, err = stats.Mean(disagreement); err != nil {
		return DistanceProfile{}, errors.Wrap(err, "eye disagreement")
	}
	if out.MeanRightConf, err = stats.Mean(rightConf); err != nil {
		return DistanceProfile{}, errors.Wrap(err, "right confidence")
	}
	if out.MeanLeftConf, err = stats.Mean(leftConf); err != nil {
		return DistanceProfile{}, errors.Wrap(err, "left confidence")
	}
	return out, nil
}

// summarize uses nearest-rank quartiles, which are defined for any
// non-empty series.
func summarize(data []float64) (Summary, error) {
	var (
		s   Summary
		err error
	)
	steps := []struct {
		dst *float64
		fn  func() (float64, error)
	}{
		{&s.Mean, func() (float64, error) { return stats.Mean(data) }},
		{&s.StdDev, func() (float64, error) { return stats.StandardDeviation(data) }},
		{&s.Min, func() (float64, error) { return stats.Min(data) }},
		{&s.Max, func() (float64, error) { return stats.Max(data) }},
		{&s.Median, func() (float64, error) { return stats.Median(data) }},
		{&s.Q25, func() (float64, error) { return stats.PercentileNearestRank(data, 25) }},
		{&s.Q75, func() (float64, error) { return stats.PercentileNearestRank(data, 75) }},
	}
	for _, step := range steps {
		if *step.dst, err = step.fn(); err != nil {
			return Summary{}, err
		}
		if math.IsNaN(*step.dst) || math.IsInf(*step.dst, 0) {
			return Summary{}, errors.InternalError(fmt.Sprintf("non-finite statistic %v", *step.dst))
		}
	}
	return s, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	return skewness * math.Sqrt(n*(n-1)) / (n - 2)
}

// detectOutliers counts values outside 1.5 IQR of the quartiles
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
