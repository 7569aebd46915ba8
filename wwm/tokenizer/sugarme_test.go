package tokenizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVocabFile(t *testing.T, tokens []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(tokens, "\n")+"\n"), 0o644))
	return path
}

func TestSugarFromVocab(t *testing.T) {
	vocab := []string{
		"[PAD]", "[UNK]", "[CLS]", "[SEP]", "[MASK]",
		"hello", "world", "##s",
	}
	path := writeVocabFile(t, vocab)

	s, err := NewSugarFromVocab(path, 32)
	require.NoError(t, err)

	assert.Equal(t, "[CLS]", s.ClsToken())
	assert.Equal(t, "[SEP]", s.SepToken())
	assert.Equal(t, "[MASK]", s.MaskToken())
	assert.Equal(t, int64(4), s.MaskTokenID())
	assert.Equal(t, int64(0), s.PadTokenID())
	assert.Equal(t, len(vocab), s.VocabSize())
	assert.Equal(t, "", s.BoundaryMarker(), "plain WordPiece has no leading boundary marker")

	assert.Equal(t, []int64{5, 6}, s.ConvertTokensToIDs([]string{"hello", "world"}))
	assert.Equal(t, []string{"hello", "world"}, s.ConvertIDsToTokens([]int64{5, 6}))
	assert.Equal(t, []int64{1}, s.ConvertTokensToIDs([]string{"missing"}), "unknown tokens map to [UNK]")

	mask := s.SpecialTokensMask([]int64{2, 5, 6, 3, 0})
	assert.Equal(t, []bool{true, false, false, true, true}, mask)
}

func TestSugarTokenizeAttachesSpecials(t *testing.T) {
	vocab := []string{
		"[PAD]", "[UNK]", "[CLS]", "[SEP]", "[MASK]",
		"hello", "world",
	}
	s, err := NewSugarFromVocab(writeVocabFile(t, vocab), 32)
	require.NoError(t, err)

	ids, err := s.Tokenize([]string{"hello world", ""})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	require.NotEmpty(t, ids[0])
	assert.Equal(t, int64(2), ids[0][0], "sequence starts with [CLS]")
	assert.Equal(t, int64(3), ids[0][len(ids[0])-1], "sequence ends with [SEP]")
	assert.Empty(t, ids[1], "blank text yields an empty example")
}
