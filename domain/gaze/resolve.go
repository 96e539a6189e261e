package gaze

// Resolve combines both eye estimates into one normalized position by
// arithmetic mean and scales it into the profile's pixel space.
func Resolve(s GazeSample, profile DeviceProfile) ResolvedSample {
	eyeX := (s.RightX + s.LeftX) / 2
	eyeY := (s.RightY + s.LeftY) / 2
	return ResolvedSample{
		GazeSample: s,
		EyeX:       eyeX,
		EyeY:       eyeY,
		PixelX:     eyeX * profile.Resolution.Width,
		PixelY:     eyeY * profile.Resolution.Height,
	}
}

// ResolveAll resolves every sample, preserving order.
func ResolveAll(samples []GazeSample, profile DeviceProfile) Dataset {
	out := make(Dataset, len(samples))
	for i, s := range samples {
		out[i] = Resolve(s, profile)
	}
	return out
}
