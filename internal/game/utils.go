package game

import (
	"fmt"
	"math"
	"time"
)

// hsvToRgb converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func hsvToRgb(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// smoothstep is the Hermite step between edge0 and edge1; edge0 may be the
// larger edge for a falling step.
func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// hash01 is a cheap stable pseudo-random value in [0,1) for a particle index.
func hash01(n float64) float64 {
	v := math.Sin(n) * 43758.5453123
	return v - math.Floor(v)
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// bandLevels averages byte magnitudes into n bands scaled to [0,1]. dst is
// reused when it has length n.
func bandLevels(dst []float64, mags []byte, n int) []float64 {
	if len(dst) != n {
		dst = make([]float64, n)
	}
	if len(mags) == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return dst
	}
	for i := 0; i < n; i++ {
		start := i * len(mags) / n
		end := (i + 1) * len(mags) / n
		if start >= len(mags) {
			start = len(mags) - 1
		}
		if end <= start {
			end = start + 1
		}
		var sum int
		for _, m := range mags[start:end] {
			sum += int(m)
		}
		dst[i] = float64(sum) / float64(end-start) / 255
	}
	return dst
}
