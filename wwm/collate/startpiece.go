package collate

import "strings"

// standalonePieces are tokens that always form a whole word on their own:
// ASCII punctuation plus the euro and pound glyphs, compared at the byte
// level. Foreign single characters are handled by the boundary marker, not
// listed here.
var standalonePieces = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range `!"#$%&"()*+,-./:;?@[\]^_` + "`{|}~" {
		set[string(r)] = struct{}{}
	}
	set["€"] = struct{}{}
	set["£"] = struct{}{}
	return set
}()

// IsStartPiece reports whether tok begins a new whole word under the given
// word-boundary convention: a leading marker, a leading '<' (reserved-token
// convention), or a standalone punctuation/currency piece. Continuation
// subwords return false.
func IsStartPiece(tok, marker string) bool {
	if marker != "" && strings.HasPrefix(tok, marker) {
		return true
	}
	if strings.HasPrefix(tok, "<") {
		return true
	}
	_, ok := standalonePieces[tok]
	return ok
}
