package video

// Clusterer groups feature records into duplicate sets. Grouping is
// single-representative ("star") clustering: every member is similar to
// the group's first-encountered record, but two non-representative members
// are not guaranteed to be pairwise similar.
type Clusterer struct {
	Threshold      float64
	MaxDurationGap float64

	// score is injectable for tests; nil means Similarity.
	score func(a, b *FeatureRecord) float64
}

// NewClusterer builds a clusterer with the given similarity threshold,
// clamped to [0.5, 1.0].
func NewClusterer(threshold float64) *Clusterer {
	return &Clusterer{
		Threshold:      ClampThreshold(threshold),
		MaxDurationGap: MaxDurationGapSecs,
	}
}

// ClampThreshold bounds a similarity threshold to its configurable range.
func ClampThreshold(t float64) float64 {
	if t < MinThreshold {
		return MinThreshold
	}
	if t > MaxThreshold {
		return MaxThreshold
	}
	return t
}

// Cluster scans records in input order, opens a group at each unprocessed
// record and pulls in every later unprocessed record that passes the
// duration pre-filter and scores at or above the threshold. Groups of
// size 1 are discarded, so every returned group has at least two paths and
// no path appears in more than one group.
func (c *Clusterer) Cluster(records []*FeatureRecord) []DuplicateGroup {
	scoreFn := c.score
	if scoreFn == nil {
		scoreFn = Similarity
	}

	var groups []DuplicateGroup
	processed := make(map[string]bool, len(records))

	for i, rep := range records {
		if rep == nil || processed[rep.Path] {
			continue
		}
		processed[rep.Path] = true
		group := DuplicateGroup{Paths: []string{rep.Path}}

		for _, candidate := range records[i+1:] {
			if candidate == nil || processed[candidate.Path] {
				continue
			}
			// Cheap metadata check before the expensive comparison.
			gap := rep.Duration - candidate.Duration
			if gap < 0 {
				gap = -gap
			}
			if gap > c.MaxDurationGap {
				continue
			}
			if scoreFn(rep, candidate) >= c.Threshold {
				group.Paths = append(group.Paths, candidate.Path)
				processed[candidate.Path] = true
			}
		}

		if len(group.Paths) > 1 {
			groups = append(groups, group)
		}
	}

	return groups
}
