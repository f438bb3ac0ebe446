package particle

// Color is an RGB color with components in [0, 1].
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
}

// basePalette colors the canonical five-type universe.
var basePalette = []Color{
	{R: 0.90, G: 0.16, B: 0.22}, // red
	{R: 0.00, G: 0.89, B: 0.19}, // green
	{R: 0.00, G: 0.47, B: 0.95}, // blue
	{R: 0.99, G: 0.98, B: 0.00}, // yellow
	{R: 0.78, G: 0.48, B: 1.00}, // purple
}

// Palette returns one color per type. The first five types keep the
// canonical colors; beyond that hues are spaced evenly around the
// wheel so any K stays usable.
func Palette(k int) []Color {
	out := make([]Color, k)
	for i := range out {
		if i < len(basePalette) {
			out[i] = basePalette[i]
			continue
		}
		out[i] = hsv(float32(i)/float32(k), 0.8, 0.95)
	}
	return out
}

// hsv converts hue/saturation/value, hue in [0, 1), to RGB.
func hsv(h, s, v float32) Color {
	sector := h * 6
	i := int(sector)
	f := sector - float32(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch i % 6 {
	case 0:
		return Color{R: v, G: t, B: p}
	case 1:
		return Color{R: q, G: v, B: p}
	case 2:
		return Color{R: p, G: v, B: t}
	case 3:
		return Color{R: p, G: q, B: v}
	case 4:
		return Color{R: t, G: p, B: v}
	default:
		return Color{R: v, G: p, B: q}
	}
}
