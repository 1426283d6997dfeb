package video

import (
	"image"
	"math"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/nfnt/resize"
)

const phashInputSize = 32 // downscale target before the DCT

// maxDistance is returned for undefined comparisons (mismatched hash
// lengths) so they can never register as a match.
const maxDistance = math.MaxInt32

// luminance converts an image to a grayscale plane using the standard
// 0.3R + 0.59G + 0.11B weighting.
func luminance(img image.Image) [][]float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([][]float64, w)
	for x := 0; x < w; x++ {
		pixels[x] = make([]float64, h)
		for y := 0; y < h; y++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit channels
			pixels[x][y] = float64(r>>8)*0.3 + float64(g>>8)*0.59 + float64(b>>8)*0.11
		}
	}
	return pixels
}

// lowFrequencyDCT computes the 8x8 low-frequency block of the 2-D DCT of a
// 32x32 pixel plane.
func lowFrequencyDCT(pixels [][]float64) [8][8]float64 {
	var dct [8][8]float64
	size := phashInputSize
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			sum := 0.0
			for x := 0; x < size; x++ {
				for y := 0; y < size; y++ {
					sum += pixels[x][y] *
						math.Cos(float64(2*x+1)*float64(u)*math.Pi/float64(2*size)) *
						math.Cos(float64(2*y+1)*float64(v)*math.Pi/float64(2*size))
				}
			}
			cu, cv := 1.0, 1.0
			if u == 0 {
				cu = 1.0 / math.Sqrt2
			}
			if v == 0 {
				cv = 1.0 / math.Sqrt2
			}
			dct[u][v] = sum * cu * cv / 4.0
		}
	}
	return dct
}

// PerceptualHash computes a 63-bit DCT-based hash of a frame. The image is
// downscaled to 32x32, converted to luminance, and the low-frequency 8x8
// DCT block is thresholded against its own mean. The DC coefficient is
// dropped, leaving one bit per remaining coefficient in row-major order.
func PerceptualHash(img image.Image) string {
	resized := resize.Resize(phashInputSize, phashInputSize, img, resize.Bilinear)
	dct := lowFrequencyDCT(luminance(resized))

	sum := 0.0
	for v := 0; v < 8; v++ {
		for u := 0; u < 8; u++ {
			if u == 0 && v == 0 {
				continue
			}
			sum += dct[u][v]
		}
	}
	mean := sum / float64(PerceptualHashBits)

	var sb strings.Builder
	sb.Grow(PerceptualHashBits)
	for v := 0; v < 8; v++ {
		for u := 0; u < 8; u++ {
			if u == 0 && v == 0 {
				continue
			}
			if dct[u][v] > mean {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

// AverageHash computes a 64-bit brightness-threshold hash of a frame,
// rendered as a bit-string so it round-trips through the feature cache.
func AverageHash(img image.Image) (string, error) {
	hash, err := goimagehash.AverageHash(img)
	if err != nil {
		return "", err
	}
	bits := hash.GetHash()
	var sb strings.Builder
	sb.Grow(AverageHashBits)
	for i := AverageHashBits - 1; i >= 0; i-- {
		if bits&(1<<uint(i)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String(), nil
}

// HammingDistance counts differing positions between two equal-length
// bit-strings. Mismatched lengths are an undefined comparison and yield a
// maximal distance rather than an error, so they never look similar.
func HammingDistance(a, b string) int {
	if len(a) != len(b) || len(a) == 0 {
		return maxDistance
	}
	distance := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			distance++
		}
	}
	return distance
}
