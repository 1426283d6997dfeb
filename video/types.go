package video

import "time"

// Hash bit lengths are fixed so Hamming distances are always well-defined
// across records, including ones loaded from an old cache.
const (
	PerceptualHashBits = 63
	AverageHashBits    = 64
)

// FeatureRecord is the multi-modal fingerprint extracted once per video file.
// An empty AudioFingerprint or ColorHistogram means the channel was
// unavailable for this file, not that it matches everything.
type FeatureRecord struct {
	Path             string    `json:"path"`
	FileSize         int64     `json:"file_size"`
	LastModified     time.Time `json:"last_modified"`
	Duration         float64   `json:"duration"` // seconds
	PerceptualHashes []string  `json:"perceptual_hashes"`
	AverageHash      string    `json:"average_hash"`
	AudioFingerprint string    `json:"audio_fingerprint"`
	ColorHistogram   string    `json:"color_histogram"`
}

// Clone returns a deep copy so callers never share slices with the cache.
func (r *FeatureRecord) Clone() *FeatureRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.PerceptualHashes = append([]string(nil), r.PerceptualHashes...)
	return &out
}

// DuplicateGroup is a set of paths believed to hold the same content.
// Paths[0] is the representative every other member was scored against.
type DuplicateGroup struct {
	Paths []string
}

// Size returns the number of files in the group.
func (g DuplicateGroup) Size() int { return len(g.Paths) }
