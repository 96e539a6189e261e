package gaze

// Resolution is a per-eye display size in pixels
type Resolution struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FieldOfView is the angular extent of the display in degrees
type FieldOfView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DeviceProfile describes the headset a recording was made on. Profiles are
// plain values and are never modified after construction.
type DeviceProfile struct {
	Name       string      `json:"name"`
	Resolution Resolution  `json:"resolution"`
	FOV        FieldOfView `json:"fov"`
}

// DK2 returns the Oculus Rift DK2 profile (per-eye resolution).
func DK2() DeviceProfile {
	return DeviceProfile{
		Name:       "DK2",
		Resolution: Resolution{Width: 960, Height: 1080},
		FOV:        FieldOfView{X: 90, Y: 100},
	}
}

// Center returns the pixel coordinates of the middle of the display
func (p DeviceProfile) Center() (float64, float64) {
	return p.Resolution.Width / 2, p.Resolution.Height / 2
}
