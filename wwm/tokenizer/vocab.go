package tokenizer

import (
	"bufio"
	"os"
	"strings"

	radix "github.com/armon/go-radix"
)

// VocabTokenizer is a self-contained tokenizer backed only by an ordered
// vocabulary list. Encoding is greedy longest-prefix matching over a radix
// tree, which is enough for test fixtures and offline preprocessing without
// model assets; production callers should prefer SugarTokenizer.
type VocabTokenizer struct {
	tokens []string
	index  map[string]int64
	trie   *radix.Tree
	marker string

	clsTok, sepTok, maskTok            string
	clsID, sepID, maskID, padID, unkID int64
}

// LoadVocab reads a newline-separated vocab file, one token per line, id by
// line order.
func LoadVocab(path string, marker string) (*VocabTokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tokens := make([]string, 0, 60000)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tok := strings.TrimSpace(scanner.Text())
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewVocabTokenizer(tokens, marker), nil
}

// NewVocabTokenizer builds a tokenizer from an in-memory ordered vocabulary.
func NewVocabTokenizer(tokens []string, marker string) *VocabTokenizer {
	vt := &VocabTokenizer{
		tokens: tokens,
		index:  make(map[string]int64, len(tokens)),
		trie:   radix.New(),
		marker: marker,
	}
	for i, tok := range tokens {
		vt.index[tok] = int64(i)
		vt.trie.Insert(tok, int64(i))
	}
	vt.clsTok, vt.clsID = vt.firstKnown([]string{"[CLS]", "<s>"}, 101)
	vt.sepTok, vt.sepID = vt.firstKnown([]string{"[SEP]", "</s>"}, 102)
	vt.maskTok, vt.maskID = vt.firstKnown([]string{"[MASK]", "<mask>"}, 103)
	_, vt.padID = vt.firstKnown([]string{"[PAD]", "<pad>"}, 0)
	_, vt.unkID = vt.firstKnown([]string{"[UNK]", "<unk>"}, 100)
	return vt
}

func (vt *VocabTokenizer) firstKnown(candidates []string, def int64) (string, int64) {
	for _, c := range candidates {
		if id, ok := vt.index[c]; ok {
			return c, id
		}
	}
	return candidates[0], def
}

func (vt *VocabTokenizer) ConvertIDsToTokens(ids []int64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if id >= 0 && int(id) < len(vt.tokens) {
			out[i] = vt.tokens[id]
		}
	}
	return out
}

func (vt *VocabTokenizer) ConvertTokensToIDs(tokens []string) []int64 {
	out := make([]int64, len(tokens))
	for i, tok := range tokens {
		if id, ok := vt.index[tok]; ok {
			out[i] = id
		} else {
			out[i] = vt.unkID
		}
	}
	return out
}

func (vt *VocabTokenizer) SpecialTokensMask(ids []int64) []bool {
	mask := make([]bool, len(ids))
	for i, id := range ids {
		mask[i] = id == vt.clsID || id == vt.sepID || id == vt.padID || id == vt.maskID || id == vt.unkID
	}
	return mask
}

func (vt *VocabTokenizer) ClsToken() string       { return vt.clsTok }
func (vt *VocabTokenizer) SepToken() string       { return vt.sepTok }
func (vt *VocabTokenizer) MaskToken() string      { return vt.maskTok }
func (vt *VocabTokenizer) MaskTokenID() int64     { return vt.maskID }
func (vt *VocabTokenizer) PadTokenID() int64      { return vt.padID }
func (vt *VocabTokenizer) VocabSize() int         { return len(vt.tokens) }
func (vt *VocabTokenizer) BoundaryMarker() string { return vt.marker }

// Encode splits text on whitespace and greedily matches the longest vocab
// prefix of each word via the radix tree, wrapping the sequence in cls/sep.
// Unmatchable spans map to the unknown token.
func (vt *VocabTokenizer) Encode(text string) []int64 {
	ids := []int64{vt.clsID}
	for _, word := range strings.Fields(text) {
		if vt.marker != "" && !strings.HasPrefix(word, vt.marker) {
			word = vt.marker + word
		}
		for len(word) > 0 {
			prefix, id, ok := vt.trie.LongestPrefix(word)
			if !ok || len(prefix) == 0 {
				ids = append(ids, vt.unkID)
				break
			}
			ids = append(ids, id.(int64))
			word = word[len(prefix):]
		}
	}
	return append(ids, vt.sepID)
}
