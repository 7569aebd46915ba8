package collate

import (
	"fmt"
	"log/slog"
	"sync"

	internal "github.com/ZanzyTHEbar/wholeword/wwm"
	"github.com/ZanzyTHEbar/wholeword/wwm/config"
	"github.com/ZanzyTHEbar/wholeword/wwm/tokenizer"

	"github.com/ZanzyTHEbar/assert-lib"
	"golang.org/x/exp/rand"
)

// Batch tensor keys.
const (
	KeyInputIDs          = "input_ids"
	KeyLabels            = "labels"
	KeySpecialTokensMask = "special_tokens_mask"
)

// Example is one tokenized training example: id sequences keyed by tensor
// name. KeyInputIDs is required; any other keys (attention masks, type ids,
// a precomputed special-token mask) are padded and passed through.
type Example map[string][]int64

// FromIDs wraps raw id sequences as examples carrying only input ids.
func FromIDs(seqs [][]int64) []Example {
	examples := make([]Example, len(seqs))
	for i, seq := range seqs {
		examples[i] = Example{KeyInputIDs: seq}
	}
	return examples
}

// Batch is a rectangular batch of id tensors, keyed like Example.
type Batch map[string][][]int64

// Collator pads tokenized examples into uniform tensors and prepares
// masked-language-modeling inputs and labels with whole-word masking.
// All state is per-call; one Collator may be shared across goroutines.
type Collator struct {
	tok             tokenizer.Tokenizer
	marker          string
	maskProbability float64
	maxPredictions  int
	padToMultipleOf int
	maskReplaceProb float64
	randReplaceProb float64
	mlm             bool
	assert          *assert.AssertHandler

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Collator.
type Option func(*Collator)

// WithMaskProbability sets the target fraction of tokens selected for masking.
func WithMaskProbability(p float64) Option {
	return func(c *Collator) { c.maskProbability = p }
}

// WithMaxPredictions caps masked positions per example.
func WithMaxPredictions(n int) Option {
	return func(c *Collator) { c.maxPredictions = n }
}

// WithPadToMultipleOf rounds padded widths up to a multiple; 0 disables.
func WithPadToMultipleOf(n int) Option {
	return func(c *Collator) { c.padToMultipleOf = n }
}

// WithSeed makes masking reproducible across runs.
func WithSeed(seed uint64) Option {
	return func(c *Collator) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithReplacementProbs overrides the per-position replacement probabilities:
// maskProb of masked positions get the mask token, randProb of the remainder
// get a random token. Defaults realize the 80/10/10 split.
func WithReplacementProbs(maskProb, randProb float64) Option {
	return func(c *Collator) {
		c.maskReplaceProb = maskProb
		c.randReplaceProb = randProb
	}
}

// WithMLM toggles masked-language-modeling mode. Disabling it and still
// collating is a caller contract violation.
func WithMLM(enabled bool) Option {
	return func(c *Collator) { c.mlm = enabled }
}

// WithBoundaryMarker overrides the word-boundary marker reported by the
// tokenizer. Empty means the active scheme has no whole-word convention.
func WithBoundaryMarker(marker string) Option {
	return func(c *Collator) { c.marker = marker }
}

// FromConfig maps loaded configuration onto collator options. A zero seed
// keeps the nondeterministic default source.
func FromConfig(cfg config.CollatorConfig) []Option {
	opts := []Option{
		WithMaskProbability(cfg.MaskProbability),
		WithMaxPredictions(cfg.MaxPredictions),
		WithPadToMultipleOf(cfg.PadToMultipleOf),
		WithBoundaryMarker(cfg.BoundaryMarker),
	}
	if cfg.Seed != 0 {
		opts = append(opts, WithSeed(cfg.Seed))
	}
	return opts
}

// NewFromConfig creates a collator configured from the loaded application
// configuration.
func NewFromConfig(tok tokenizer.Tokenizer, cfg config.CollatorConfig) *Collator {
	return New(tok, FromConfig(cfg)...)
}

// New creates a collator around the given tokenizer capabilities.
func New(tok tokenizer.Tokenizer, opts ...Option) *Collator {
	c := &Collator{
		tok:             tok,
		marker:          tok.BoundaryMarker(),
		maskProbability: internal.DefaultMaskProbability,
		maxPredictions:  internal.DefaultMaxPredictions,
		maskReplaceProb: 0.8,
		randReplaceProb: 0.5,
		mlm:             true,
		assert:          assert.NewAssertHandler(),
		rng:             rand.New(rand.NewSource(rand.Uint64())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// callRNG derives an independent random source for one Collate call, so
// concurrent calls never interleave draws and remain reproducible under a
// fixed seed.
func (c *Collator) callRNG() *rand.Rand {
	c.mu.Lock()
	seed := c.rng.Uint64()
	c.mu.Unlock()
	return rand.New(rand.NewSource(seed))
}

// Collate pads examples into uniform tensors, selects whole words to mask,
// and applies the corruption policy. The returned batch carries KeyInputIDs
// and KeyLabels plus every other example key padded and passed through. A
// zero-example batch yields an empty Batch.
func (c *Collator) Collate(examples []Example) (Batch, error) {
	if len(examples) == 0 {
		return Batch{}, nil
	}

	rows := make(map[string][][]int64)
	for i, ex := range examples {
		if _, ok := ex[KeyInputIDs]; !ok {
			return nil, fmt.Errorf("example %d is missing %q", i, KeyInputIDs)
		}
		for key, seq := range ex {
			if rows[key] == nil {
				rows[key] = make([][]int64, len(examples))
			}
			rows[key][i] = seq
		}
	}
	for key := range rows {
		for i, ex := range examples {
			if _, ok := ex[key]; !ok {
				return nil, fmt.Errorf("example %d is missing key %q present in other examples", i, key)
			}
		}
	}

	width := paddedLength(rows[KeyInputIDs], c.padToMultipleOf)
	batch := make(Batch, len(rows)+1)
	for key, rs := range rows {
		fill := int64(0)
		switch key {
		case KeyInputIDs:
			fill = c.tok.PadTokenID()
		case KeySpecialTokensMask:
			// Pad positions are special: padding a supplied mask with 0 would
			// expose them to masking and corruption.
			fill = 1
		}
		batch[key] = padRows(rs, width, fill)
	}

	// A preprocessed special-token mask rides along as an example key; pop it
	// so it steers corruption instead of leaking into the output.
	var special [][]bool
	if sm, ok := batch[KeySpecialTokensMask]; ok {
		delete(batch, KeySpecialTokensMask)
		special = make([][]bool, len(sm))
		for i, row := range sm {
			special[i] = make([]bool, len(row))
			for j, v := range row {
				special[i][j] = v != 0
			}
		}
	}

	if c.marker == "" {
		slog.Warn("tokenizer has no word-boundary marker; whole-word masking degrades toward random token masking")
	}

	rng := c.callRNG()
	inputs := batch[KeyInputIDs]
	maskRows := make([][]int64, len(inputs))
	for i, row := range inputs {
		maskRows[i] = c.WholeWordMask(c.tok.ConvertIDsToTokens(row), rng)
	}
	maskLabels := padRows(maskRows, width, 0)

	newInputs, labels := c.MaskTokens(inputs, maskLabels, special, rng)
	batch[KeyInputIDs] = newInputs
	batch[KeyLabels] = labels
	return batch, nil
}
