package tokenizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = "▁"

var testVocab = []string{
	"[PAD]", "[UNK]", "[CLS]", "[SEP]", "[MASK]",
	marker + "un", "believ", "able", marker + "the", "fox",
}

func TestLoadVocab(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	content := strings.Join(testVocab, "\n") + "\n\n" // trailing blank line is ignored
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	vt, err := LoadVocab(path, marker)
	require.NoError(t, err)

	assert.Equal(t, len(testVocab), vt.VocabSize())
	assert.Equal(t, "[CLS]", vt.ClsToken())
	assert.Equal(t, "[SEP]", vt.SepToken())
	assert.Equal(t, "[MASK]", vt.MaskToken())
	assert.Equal(t, int64(4), vt.MaskTokenID())
	assert.Equal(t, int64(0), vt.PadTokenID())
	assert.Equal(t, marker, vt.BoundaryMarker())
}

func TestVocabConvertRoundTrip(t *testing.T) {
	vt := NewVocabTokenizer(testVocab, marker)

	ids := vt.ConvertTokensToIDs([]string{marker + "the", "fox", "missing"})
	assert.Equal(t, []int64{8, 9, 1}, ids, "unknown tokens map to [UNK]")

	tokens := vt.ConvertIDsToTokens([]int64{2, 8, 9, 3})
	assert.Equal(t, []string{"[CLS]", marker + "the", "fox", "[SEP]"}, tokens)

	assert.Equal(t, "", vt.ConvertIDsToTokens([]int64{99})[0], "out-of-range ids decode to empty")
}

func TestVocabSpecialTokensMask(t *testing.T) {
	vt := NewVocabTokenizer(testVocab, marker)

	mask := vt.SpecialTokensMask([]int64{2, 8, 9, 3, 0, 4})
	assert.Equal(t, []bool{true, false, false, true, true, true}, mask)
}

func TestVocabEncodeGreedyLongestPrefix(t *testing.T) {
	vt := NewVocabTokenizer(testVocab, marker)

	ids := vt.Encode("unbelievable")
	assert.Equal(t, []int64{2, 5, 6, 7, 3}, ids, "[CLS] ▁un believ able [SEP]")

	ids = vt.Encode("the xyz")
	assert.Equal(t, []int64{2, 8, 1, 3}, ids, "unmatchable span becomes [UNK]")

	assert.Equal(t, []int64{2, 3}, vt.Encode("   "), "whitespace-only text yields just the specials")
}

func TestVocabDefaultSpecialIDs(t *testing.T) {
	// A vocabulary without reserved tokens falls back to the conventional ids.
	vt := NewVocabTokenizer([]string{marker + "a", marker + "b"}, marker)

	assert.Equal(t, int64(100), vt.ConvertTokensToIDs([]string{"[CLS]"})[0], "unknown maps to default unk id")
	assert.Equal(t, int64(103), vt.MaskTokenID())
	assert.Equal(t, int64(0), vt.PadTokenID())
}
