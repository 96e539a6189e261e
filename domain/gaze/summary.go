package gaze

// Summary counts how a dataset splits across a CenterRegion
type Summary struct {
	Total        int     `json:"total"`
	Inside       int     `json:"inside"`
	Outside      int     `json:"outside"`
	InsideRatio  float64 `json:"inside_ratio"`
	OutsideRatio float64 `json:"outside_ratio"`
}

// Summarize classifies every sample. An empty dataset yields an inside ratio of
// 0 and an outside ratio of 1.
func Summarize(d Dataset, region CenterRegion) Summary {
	inside := 0
	for _, s := range d {
		if region.Classify(s) == Inside {
			inside++
		}
	}

	var ratio float64
	if len(d) > 0 {
		ratio = float64(inside) / float64(len(d))
	}
	return Summary{
		Total:        len(d),
		Inside:       inside,
		Outside:      len(d) - inside,
		InsideRatio:  ratio,
		OutsideRatio: 1 - ratio,
	}
}
