package video

import "math"

// Channel weights of the overall unit score: pHash 0.4, aHash 0.2,
// audio 0.3, color 0.1. The visual pair is folded into one sub-score
// weighted 0.7/0.3 before applying its combined 0.6 share.
const (
	weightVisual = 0.6
	weightAudio  = 0.3
	weightColor  = 0.1

	phashMatchDistance = 5   // max Hamming distance for a frame match
	minSimilarFrames   = 3   // frames needed before the boost applies
	phashBoostFloor    = 0.8 // pHash sub-score needed for the boost
	phashBoost         = 0.1
	DefaultThreshold   = 0.75
	MinThreshold       = 0.5
	MaxThreshold       = 1.0
	MaxDurationGapSecs = 2.0
)

// Breakdown carries the per-channel sub-scores behind an overall
// similarity score.
type Breakdown struct {
	PHash   float64
	AHash   float64
	Audio   float64
	Color   float64
	Matched int // pHash frames matched
	Overall float64
}

// Similarity scores how likely two feature records describe the same
// content, in [0,1]. Missing channels contribute zero signal: two records
// with no features at all score exactly 0.
func Similarity(a, b *FeatureRecord) float64 {
	return SimilarityBreakdown(a, b).Overall
}

// SimilarityBreakdown computes the overall score together with its
// per-channel components.
func SimilarityBreakdown(a, b *FeatureRecord) Breakdown {
	var out Breakdown
	if a == nil || b == nil {
		return out
	}

	out.Matched = matchedFrames(a.PerceptualHashes, b.PerceptualHashes)
	if len(a.PerceptualHashes) > 0 && len(b.PerceptualHashes) > 0 {
		minFrames := len(a.PerceptualHashes)
		if len(b.PerceptualHashes) < minFrames {
			minFrames = len(b.PerceptualHashes)
		}
		out.PHash = math.Min(1.0, float64(out.Matched)/float64(minFrames))
	}

	if a.AverageHash != "" && b.AverageHash != "" {
		d := HammingDistance(a.AverageHash, b.AverageHash)
		out.AHash = math.Max(0, 1.0-float64(d)/float64(AverageHashBits))
	}

	if a.AudioFingerprint != "" && a.AudioFingerprint == b.AudioFingerprint {
		out.Audio = 1.0
	}

	if a.ColorHistogram != "" && b.ColorHistogram != "" {
		out.Color = compareColorHistograms(a.ColorHistogram, b.ColorHistogram)
	}

	visual := out.PHash*0.7 + out.AHash*0.3
	overall := visual*weightVisual + out.Audio*weightAudio + out.Color*weightColor

	if out.Matched >= minSimilarFrames && out.PHash > phashBoostFloor {
		overall = math.Min(1.0, overall+phashBoost)
	}

	out.Overall = overall
	return out
}

// matchedFrames counts frames on one side that have any counterpart on the
// other within the match distance. Both directions are evaluated and the
// larger count kept, which makes the score symmetric even when one side
// repeats a hash.
func matchedFrames(hashes1, hashes2 []string) int {
	m1 := matchedFramesOneWay(hashes1, hashes2)
	m2 := matchedFramesOneWay(hashes2, hashes1)
	if m2 > m1 {
		return m2
	}
	return m1
}

func matchedFramesOneWay(from, to []string) int {
	matched := 0
	for _, h1 := range from {
		for _, h2 := range to {
			if HammingDistance(h1, h2) <= phashMatchDistance {
				matched++
				break
			}
		}
	}
	return matched
}

// compareColorHistograms pairs serialized frame histograms by index up to
// the shorter sequence and averages the per-channel Bhattacharyya
// coefficients. Unparseable frames are skipped on both sides.
func compareColorHistograms(hist1, hist2 string) float64 {
	frames1 := splitFrames(hist1)
	frames2 := splitFrames(hist2)

	n := len(frames1)
	if len(frames2) < n {
		n = len(frames2)
	}

	total := 0.0
	compared := 0
	for i := 0; i < n; i++ {
		ch1 := parseHistogramFrame(frames1[i])
		ch2 := parseHistogramFrame(frames2[i])
		if ch1 == nil || ch2 == nil {
			continue
		}
		frameSim := 0.0
		for c := 0; c < 3; c++ {
			frameSim += bhattacharyya(ch1[c], ch2[c])
		}
		total += frameSim / 3.0
		compared++
	}

	if compared == 0 {
		return 0
	}
	return total / float64(compared)
}

func splitFrames(hist string) []string {
	if hist == "" {
		return nil
	}
	var frames []string
	start := 0
	for i := 0; i <= len(hist); i++ {
		if i == len(hist) || hist[i] == '|' {
			frames = append(frames, hist[start:i])
			start = i + 1
		}
	}
	return frames
}

// bhattacharyya computes the Bhattacharyya coefficient of two
// probability-like bucket vectors.
func bhattacharyya(h1, h2 []float64) float64 {
	if len(h1) != len(h2) {
		return 0
	}
	coeff := 0.0
	for i := range h1 {
		coeff += math.Sqrt(h1[i] * h2[i])
	}
	return coeff
}
