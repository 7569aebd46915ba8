package collate

import (
	"math"

	roaring "github.com/RoaringBitmap/roaring"
	"golang.org/x/exp/rand"
)

// CandidateGroups partitions the non-special positions of a token sequence
// into whole-word index groups, in original order. Classifier and separator
// tokens receive no group. A continuation subword joins the open group when
// one exists; otherwise it opens a group of its own (a sequence may begin
// mid-word after truncation).
func CandidateGroups(tokens []string, clsTok, sepTok, marker string) [][]int {
	var groups [][]int
	for i, tok := range tokens {
		if tok == clsTok || tok == sepTok {
			continue
		}
		if len(groups) >= 1 && !IsStartPiece(tok, marker) {
			last := len(groups) - 1
			groups[last] = append(groups[last], i)
		} else {
			groups = append(groups, []int{i})
		}
	}
	return groups
}

// WholeWordMask builds the {0,1} mask-label row for one example: group the
// tokens into whole words, shuffle the groups with rng to avoid positional
// bias, then greedily accept whole groups until the masking budget
// min(maxPredictions, max(1, round(len*maskProbability))) is met.
func (c *Collator) WholeWordMask(tokens []string, rng *rand.Rand) []int64 {
	labels := make([]int64, len(tokens))
	if len(tokens) == 0 {
		return labels
	}

	groups := CandidateGroups(tokens, c.tok.ClsToken(), c.tok.SepToken(), c.marker)
	rng.Shuffle(len(groups), func(i, j int) {
		groups[i], groups[j] = groups[j], groups[i]
	})

	numToPredict := int(math.Round(float64(len(tokens)) * c.maskProbability))
	if numToPredict < 1 {
		numToPredict = 1
	}
	if numToPredict > c.maxPredictions {
		numToPredict = c.maxPredictions
	}

	covered := roaring.New()
	for _, group := range groups {
		if int(covered.GetCardinality()) >= numToPredict {
			break
		}
		// Never break a word apart: skip groups that would overflow the budget.
		if int(covered.GetCardinality())+len(group) > numToPredict {
			continue
		}
		overlap := false
		for _, idx := range group {
			if covered.Contains(uint32(idx)) {
				overlap = true
				break
			}
		}
		if overlap {
			// Groups partition the sequence, so this should not happen.
			continue
		}
		for _, idx := range group {
			covered.Add(uint32(idx))
			labels[idx] = 1
		}
	}
	return labels
}
