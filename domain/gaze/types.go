package gaze

// GazeSample is one row of a participant recording. Field order matches the
// on-disk column order.
type GazeSample struct {
	Trial    int    `json:"trial"`
	Date     string `json:"date"`
	CoreTime string `json:"core_time"`
	ExpTime  string `json:"exp_time"`

	// Head orientation in degrees. Carried through, not used for classification.
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`

	// Normalized per-eye gaze coordinates (0-1)
	RightX float64 `json:"right_x"`
	RightY float64 `json:"right_y"`
	LeftX  float64 `json:"left_x"`
	LeftY  float64 `json:"left_y"`

	// Per-eye tracker confidence. Parsed but never used to filter or weight.
	RightConf float64 `json:"right_conf"`
	LeftConf  float64 `json:"left_conf"`
}

// ResolvedSample is a GazeSample with its combined eye position in normalized
// and device pixel space.
type ResolvedSample struct {
	GazeSample

	EyeX   float64 `json:"eye_x"`
	EyeY   float64 `json:"eye_y"`
	PixelX float64 `json:"pixel_x"`
	PixelY float64 `json:"pixel_y"`
}

// Dataset is an ordered sequence of resolved samples, one per input row in
// file order.
type Dataset []ResolvedSample

// Len returns the number of samples
func (d Dataset) Len() int { return len(d) }

// PixelXs returns the horizontal pixel positions in dataset order
func (d Dataset) PixelXs() []float64 {
	xs := make([]float64, len(d))
	for i, s := range d {
		xs[i] = s.PixelX
	}
	return xs
}

// PixelYs returns the vertical pixel positions in dataset order
func (d Dataset) PixelYs() []float64 {
	ys := make([]float64, len(d))
	for i, s := range d {
		ys[i] = s.PixelY
	}
	return ys
}

// Concat joins datasets in argument order without deduplication.
func Concat(datasets ...Dataset) Dataset {
	total := 0
	for _, d := range datasets {
		total += len(d)
	}
	out := make(Dataset, 0, total)
	for _, d := range datasets {
		out = append(out, d...)
	}
	return out
}
