package video

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

const (
	histogramBins   = 4
	histogramStride = 5 // sample every 5th pixel on both axes
)

// FrameHistogram computes normalized per-channel color bucket fractions
// for one frame: 4 equal-width bins over [0,256) per RGB channel,
// serialized as "r0,r1,r2,r3;g0,...;b0,...". Empty when no pixel could be
// sampled.
func FrameHistogram(img image.Image) string {
	var rHist, gHist, bHist [histogramBins]int
	bounds := img.Bounds()
	sampled := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += histogramStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += histogramStride {
			r, g, b, _ := img.At(x, y).RGBA()
			rHist[bin(uint8(r>>8))]++
			gHist[bin(uint8(g>>8))]++
			bHist[bin(uint8(b>>8))]++
			sampled++
		}
	}
	if sampled == 0 {
		return ""
	}

	channels := make([]string, 0, 3)
	for _, hist := range [][histogramBins]int{rHist, gHist, bHist} {
		parts := make([]string, histogramBins)
		for i, count := range hist {
			parts[i] = fmt.Sprintf("%.4f", float64(count)/float64(sampled))
		}
		channels = append(channels, strings.Join(parts, ","))
	}
	return strings.Join(channels, ";")
}

func bin(v uint8) int {
	b := int(v) * histogramBins / 256
	if b >= histogramBins {
		b = histogramBins - 1
	}
	return b
}

// joinFrameHistograms serializes per-frame histograms in sample order,
// dropping frames whose histogram came up empty.
func joinFrameHistograms(frames []string) string {
	nonEmpty := make([]string, 0, len(frames))
	for _, f := range frames {
		if f != "" {
			nonEmpty = append(nonEmpty, f)
		}
	}
	return strings.Join(nonEmpty, "|")
}

// parseHistogramFrame parses one serialized frame histogram back into its
// three channel vectors. Returns nil for anything unparseable.
func parseHistogramFrame(frame string) [][]float64 {
	channels := strings.Split(frame, ";")
	if len(channels) != 3 {
		return nil
	}
	parsed := make([][]float64, 0, 3)
	for _, channel := range channels {
		parts := strings.Split(channel, ",")
		values := make([]float64, 0, len(parts))
		for _, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil
			}
			values = append(values, v)
		}
		parsed = append(parsed, values)
	}
	return parsed
}
