package collate

import (
	"context"

	internal "github.com/ZanzyTHEbar/wholeword/wwm"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// MaskTokens prepares corrupted inputs and loss labels for masked language
// modeling. Masked positions keep their original id in labels; everything
// else gets the ignore sentinel. Corrupted inputs replace masked positions
// with the mask token, a uniform random token, or leave them unchanged,
// sampled independently per position (80/10/10 with the default
// probabilities).
//
// maskLabels is owned by the caller's collation step and is zeroed in place
// at special-token positions; inputs are never mutated.
func (c *Collator) MaskTokens(inputs, maskLabels [][]int64, special [][]bool, rng *rand.Rand) (newInputs, labels [][]int64) {
	// Calling without MLM mode is a caller contract violation, not an error.
	c.assert.Assert(context.Background(), c.mlm, "masked language modeling must be enabled for token corruption")

	if special == nil {
		special = make([][]bool, len(inputs))
		for i, row := range inputs {
			special[i] = c.tok.SpecialTokensMask(row)
		}
	}

	replaceMask := distuv.Bernoulli{P: c.maskReplaceProb, Src: rng}
	replaceRand := distuv.Bernoulli{P: c.randReplaceProb, Src: rng}
	maskID := c.tok.MaskTokenID()
	vocabSize := int64(c.tok.VocabSize())

	newInputs = make([][]int64, len(inputs))
	labels = make([][]int64, len(inputs))
	for i, row := range inputs {
		outRow := make([]int64, len(row))
		labelRow := make([]int64, len(row))
		copy(outRow, row)

		for j := range row {
			if j < len(special[i]) && special[i][j] {
				maskLabels[i][j] = 0
			}
			if maskLabels[i][j] == 0 {
				labelRow[j] = internal.IgnoreIndex
				continue
			}
			// Only masked positions carry a real target id.
			labelRow[j] = row[j]
			switch {
			case replaceMask.Rand() == 1:
				outRow[j] = maskID
			case replaceRand.Rand() == 1:
				outRow[j] = rng.Int63n(vocabSize)
			}
			// Otherwise the masked position keeps its original token.
		}
		newInputs[i] = outRow
		labels[i] = labelRow
	}
	return newInputs, labels
}
