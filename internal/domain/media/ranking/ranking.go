// Package ranking filters extractor candidates under a size ceiling and orders them
package ranking

import (
	"math"
	"sort"

	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/entities"
)

const (
	// UnknownSizeRank is the size used for ordering when the extractor reported none.
	// It sorts after every real size.
	UnknownSizeRank int64 = math.MaxInt64

	// MaxChoices caps the number of buttons in a manual prompt
	MaxChoices = 12

	// RequiredContainer is the only container delivered without re-encoding
	RequiredContainer = "mp4"
)

// Ranker applies the size ceiling and the ordering rules
type Ranker struct {
	maxBytes int64
}

// NewRanker creates a ranker for the given ceiling in bytes
func NewRanker(maxBytes int64) *Ranker {
	return &Ranker{maxBytes: maxBytes}
}

// MaxBytes returns the ceiling the ranker was built with
func (r *Ranker) MaxBytes() int64 {
	return r.maxBytes
}

// Choices returns the manual list: one candidate per height, the smallest one,
// in ascending height order, at most MaxChoices long.
func (r *Ranker) Choices(candidates []entities.Candidate) []entities.Candidate {
	byHeight := make(map[int]entities.Candidate)
	for _, c := range r.eligible(candidates) {
		if c.Height <= 0 {
			continue
		}
		prev, ok := byHeight[c.Height]
		if !ok || SizeRank(c) < SizeRank(prev) {
			byHeight[c.Height] = c
		}
	}

	heights := make([]int, 0, len(byHeight))
	for h := range byHeight {
		heights = append(heights, h)
	}
	sort.Ints(heights)

	if len(heights) > MaxChoices {
		heights = heights[:MaxChoices]
	}

	out := make([]entities.Candidate, 0, len(heights))
	for _, h := range heights {
		out = append(out, byHeight[h])
	}
	return out
}

// Best returns the automatic pick: highest height, then smallest size.
// Ties keep the earlier candidate. ok is false when nothing is eligible.
func (r *Ranker) Best(candidates []entities.Candidate) (best entities.Candidate, ok bool) {
	for _, c := range r.eligible(candidates) {
		if !ok || better(c, best) {
			best, ok = c, true
		}
	}
	return best, ok
}

// Eligible reports whether a candidate can be delivered under the ceiling
func (r *Ranker) Eligible(c entities.Candidate) bool {
	if c.Container != RequiredContainer {
		return false
	}
	if !c.HasVideo || !c.HasAudio {
		return false
	}
	if c.SizeKnown && c.Size > r.maxBytes {
		return false
	}
	return true
}

func (r *Ranker) eligible(candidates []entities.Candidate) []entities.Candidate {
	out := make([]entities.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if r.Eligible(c) {
			out = append(out, c)
		}
	}
	return out
}

// better compares (height, -size) strictly
func better(a, b entities.Candidate) bool {
	if a.Height != b.Height {
		return a.Height > b.Height
	}
	return SizeRank(a) < SizeRank(b)
}

// SizeRank returns the size used for ordering
func SizeRank(c entities.Candidate) int64 {
	if !c.SizeKnown {
		return UnknownSizeRank
	}
	return c.Size
}
