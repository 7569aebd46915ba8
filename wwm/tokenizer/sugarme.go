package tokenizer

import (
	"fmt"
	"strings"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	"github.com/sugarme/tokenizer/processor"
)

// SugarTokenizer wraps a sugarme/tokenizer instance and adapts it to the
// Tokenizer capability surface. It can be backed by a HuggingFace
// tokenizer.json or by a plain vocab.txt (BERT-style WordPiece).
type SugarTokenizer struct {
	t      *tk.Tokenizer
	marker string

	clsTok, sepTok, maskTok            string
	clsID, sepID, maskID, padID, unkID int64
}

// NewSugarFromJSON loads a tokenizer.json and adapts it. marker is the
// word-boundary prefix of the scheme ("▁" for SentencePiece-style
// vocabularies, "" for schemes without the convention).
func NewSugarFromJSON(path string, marker string) (*SugarTokenizer, error) {
	t, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer.json: %w", err)
	}
	return newSugar(t, marker), nil
}

// NewSugarFromVocab builds a BERT WordPiece tokenizer from a vocab.txt,
// mirroring the normalizer/pre-tokenizer/post-processor stack BERT uses.
func NewSugarFromVocab(vocabPath string, maxSeq int) (*SugarTokenizer, error) {
	wp, err := wordpiece.NewWordPieceFromFile(vocabPath, "[UNK]")
	if err != nil {
		builder := wordpiece.NewWordPieceBuilder().Files(vocabPath)
		wp = builder.Build()
	}

	t := tk.NewTokenizer(wp)
	t.WithNormalizer(normalizer.NewBertNormalizer(true, true, true, true))
	t.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	s := newSugar(t, "") // WordPiece has no leading word-boundary marker

	template := processor.NewBertProcessing(
		processor.PostToken{Value: s.sepTok, Id: int(s.sepID)},
		processor.PostToken{Value: s.clsTok, Id: int(s.clsID)},
	)
	t.WithPostProcessor(template)
	t.WithTruncation(&tk.TruncationParams{MaxLength: maxSeq})
	t.WithPadding(&tk.PaddingParams{})
	return s, nil
}

func newSugar(t *tk.Tokenizer, marker string) *SugarTokenizer {
	s := &SugarTokenizer{t: t, marker: marker}
	// Resolve special tokens across the two common naming conventions.
	s.clsTok, s.clsID = firstKnown(t, []string{"[CLS]", "<s>"}, 101)
	s.sepTok, s.sepID = firstKnown(t, []string{"[SEP]", "</s>"}, 102)
	s.maskTok, s.maskID = firstKnown(t, []string{"[MASK]", "<mask>"}, 103)
	_, s.padID = firstKnown(t, []string{"[PAD]", "<pad>"}, 0)
	_, s.unkID = firstKnown(t, []string{"[UNK]", "<unk>"}, 100)
	return s
}

// firstKnown returns the first candidate present in the vocab, or the first
// candidate with the default id when none resolve.
func firstKnown(t *tk.Tokenizer, candidates []string, def int64) (string, int64) {
	for _, c := range candidates {
		if id, ok := t.TokenToId(c); ok {
			return c, int64(id)
		}
	}
	return candidates[0], def
}

func (s *SugarTokenizer) ConvertIDsToTokens(ids []int64) []string {
	tokens := make([]string, len(ids))
	for i, id := range ids {
		if tok, ok := s.t.IdToToken(int(id)); ok {
			tokens[i] = tok
		}
	}
	return tokens
}

func (s *SugarTokenizer) ConvertTokensToIDs(tokens []string) []int64 {
	ids := make([]int64, len(tokens))
	for i, tok := range tokens {
		if id, ok := s.t.TokenToId(tok); ok {
			ids[i] = int64(id)
		} else {
			ids[i] = s.unkID
		}
	}
	return ids
}

func (s *SugarTokenizer) SpecialTokensMask(ids []int64) []bool {
	mask := make([]bool, len(ids))
	for i, id := range ids {
		mask[i] = id == s.clsID || id == s.sepID || id == s.padID || id == s.maskID || id == s.unkID
	}
	return mask
}

func (s *SugarTokenizer) ClsToken() string       { return s.clsTok }
func (s *SugarTokenizer) SepToken() string       { return s.sepTok }
func (s *SugarTokenizer) MaskToken() string      { return s.maskTok }
func (s *SugarTokenizer) MaskTokenID() int64     { return s.maskID }
func (s *SugarTokenizer) PadTokenID() int64      { return s.padID }
func (s *SugarTokenizer) VocabSize() int         { return s.t.GetVocabSize(true) }
func (s *SugarTokenizer) BoundaryMarker() string { return s.marker }

// Tokenize encodes raw texts into id sequences with special tokens attached,
// ready to be fed to the collator as examples.
func (s *SugarTokenizer) Tokenize(texts []string) ([][]int64, error) {
	out := make([][]int64, len(texts))
	for i, txt := range texts {
		if strings.TrimSpace(txt) == "" {
			out[i] = []int64{}
			continue
		}
		enc, err := s.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(txt)), true)
		if err != nil {
			return nil, fmt.Errorf("encode failed: %w", err)
		}
		uids := enc.GetIds()
		row := make([]int64, len(uids))
		for j, id := range uids {
			row[j] = int64(id)
		}
		out[i] = row
	}
	return out, nil
}
