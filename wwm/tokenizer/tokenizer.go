package tokenizer

import (
	"fmt"
)

// Tokenizer exposes the collaborator capabilities the masking collator
// consumes. Implementations wrap a real subword tokenizer; the collator never
// inspects the concrete type, only these capabilities.
type Tokenizer interface {
	// ConvertIDsToTokens decodes ids into their token strings.
	ConvertIDsToTokens(ids []int64) []string
	// ConvertTokensToIDs encodes token strings into vocabulary ids.
	ConvertTokensToIDs(tokens []string) []int64
	// SpecialTokensMask marks the positions of ids that carry reserved
	// special tokens (classifier, separator, pad, mask, unknown). The input
	// is assumed to already contain its special tokens.
	SpecialTokensMask(ids []int64) []bool

	ClsToken() string
	SepToken() string
	MaskToken() string
	MaskTokenID() int64
	PadTokenID() int64
	VocabSize() int

	// BoundaryMarker returns the leading marker that identifies word-start
	// pieces in this tokenizer's scheme ("▁" for SentencePiece-style
	// vocabularies). Empty means the scheme has no such convention and
	// whole-word grouping degrades to near per-token masking.
	BoundaryMarker() string
}

// Config holds basic tokenizer settings
type Config struct {
	MaxSeqLen int
}

// ErrUnsupported indicates the tokenizer could not be initialized
var ErrUnsupported = fmt.Errorf("unsupported tokenizer configuration")
