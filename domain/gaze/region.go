package gaze

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Radius slider bounds in degrees
const (
	MinRadiusDeg     = 1.0
	MaxRadiusDeg     = 20.0
	RadiusStepDeg    = 0.5
	DefaultRadiusDeg = 10.0
)

// Classification is the outcome of testing a sample against a CenterRegion
type Classification int

const (
	Outside Classification = iota
	Inside
)

func (c Classification) String() string {
	if c == Inside {
		return "inside"
	}
	return "outside"
}

// CenterRegion is the circular "center" of the display for one radius setting.
//
// The pixel radius is derived from the horizontal field of view only and the
// same radius is applied on both axes, so the region is a circle even though
// the vertical FOV differs. This mirrors the reference analysis.
type CenterRegion struct {
	CenterX   float64 `json:"center_x"`
	CenterY   float64 `json:"center_y"`
	RadiusPx  float64 `json:"radius_px"`
	RadiusDeg float64 `json:"radius_deg"`
}

// NewCenterRegion builds the region for radiusDeg on the given device:
//
//	radius_px = width * radius_deg / fov_x
func NewCenterRegion(profile DeviceProfile, radiusDeg float64) CenterRegion {
	cx, cy := profile.Center()
	return CenterRegion{
		CenterX:   cx,
		CenterY:   cy,
		RadiusPx:  profile.Resolution.Width * (radiusDeg / profile.FOV.X),
		RadiusDeg: radiusDeg,
	}
}

// Distance is the Euclidean pixel distance from the region center to (x, y)
func (r CenterRegion) Distance(x, y float64) float64 {
	return floats.Distance([]float64{x, y}, []float64{r.CenterX, r.CenterY}, 2)
}

// Contains reports whether (x, y) lies in the region. The boundary is inside.
func (r CenterRegion) Contains(x, y float64) bool {
	return r.Distance(x, y) <= r.RadiusPx
}

// Classify places a resolved sample inside or outside the region
func (r CenterRegion) Classify(s ResolvedSample) Classification {
	if r.Contains(s.PixelX, s.PixelY) {
		return Inside
	}
	return Outside
}

// DegreesPerPixel converts pixel distances back to the angular scale used for
// the radius.
func (r CenterRegion) DegreesPerPixel() float64 {
	if r.RadiusPx == 0 {
		return 0
	}
	return r.RadiusDeg / r.RadiusPx
}

// ValidateRadius checks that deg is within the slider range
func ValidateRadius(deg float64) error {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return fmt.Errorf("center radius must be a finite number")
	}
	if deg < MinRadiusDeg || deg > MaxRadiusDeg {
		return fmt.Errorf("center radius %.2f° outside [%.0f, %.0f]", deg, MinRadiusDeg, MaxRadiusDeg)
	}
	return nil
}

// SnapRadius rounds deg to the nearest slider step and validates the result.
func SnapRadius(deg float64) (float64, error) {
	if err := ValidateRadius(deg); err != nil {
		return 0, err
	}
	return math.Round(deg/RadiusStepDeg) * RadiusStepDeg, nil
}
