package processor

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

const sampleSize = 512

// Levels holds the 3rd, 50th and 97th percentile of each RGB channel.
type Levels [3][3]float64

// MeasureLevels samples img at 512x512 and returns its channel percentiles.
func MeasureLevels(img image.Image) Levels {
	sample := imaging.Resize(img, sampleSize, sampleSize, imaging.Linear)

	var hist [3][256]int
	for i := 0; i+3 < len(sample.Pix); i += 4 {
		hist[0][sample.Pix[i]]++
		hist[1][sample.Pix[i+1]]++
		hist[2][sample.Pix[i+2]]++
	}

	var lv Levels
	for ch := range hist {
		lv[ch] = [3]float64{
			percentile(&hist[ch], 3),
			percentile(&hist[ch], 50),
			percentile(&hist[ch], 97),
		}
	}
	return lv
}

// AverageLevels is the mean of a batch. An empty batch yields the identity-ish
// levels 0/128/255.
func AverageLevels(batch []Levels) Levels {
	if len(batch) == 0 {
		return Levels{{0, 128, 255}, {0, 128, 255}, {0, 128, 255}}
	}

	var sum Levels
	for _, lv := range batch {
		for ch := range lv {
			for k := range lv[ch] {
				sum[ch][k] += lv[ch][k]
			}
		}
	}
	for ch := range sum {
		for k := range sum[ch] {
			sum[ch][k] /= float64(len(batch))
		}
	}
	return sum
}

// ApplyLevels maps each channel through (0,0) (p3,0) (p50,128) (p97,255) (255,255).
func ApplyLevels(img image.Image, lv Levels) *image.NRGBA {
	var lut [3][256]uint8
	for ch := range lut {
		for x := range lut[ch] {
			v := levelsMap(float64(x), lv[ch][0], lv[ch][1], lv[ch][2])
			lut[ch][x] = uint8(math.Max(0, math.Min(255, v)))
		}
	}

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[0][c.R], G: lut[1][c.G], B: lut[2][c.B], A: c.A}
	})
}

func levelsMap(x, p3, p50, p97 float64) float64 {
	switch {
	case x <= p3:
		return 0
	case x >= p97:
		return 255
	case x <= p50:
		if p50 == p3 {
			return 128
		}
		return 128 * (x - p3) / (p50 - p3)
	default:
		if p97 == p50 {
			return 128
		}
		return 128 + 127*(x-p50)/(p97-p50)
	}
}

// percentile interpolates linearly between the two closest ranks.
func percentile(hist *[256]int, q float64) float64 {
	n := 0
	for _, c := range hist {
		n += c
	}
	if n == 0 {
		return 0
	}

	pos := q * float64(n-1) / 100
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))

	vlo := valueAtRank(hist, lo)
	vhi := valueAtRank(hist, hi)

	return vlo + (vhi-vlo)*(pos-float64(lo))
}

func valueAtRank(hist *[256]int, rank int) float64 {
	cum := 0
	for v, c := range hist {
		cum += c
		if cum > rank {
			return float64(v)
		}
	}
	return 255
}
