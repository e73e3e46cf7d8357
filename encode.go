package hyperdata

// PadID is the token ID used to pad encoded strings out to
// the maximum sequence length.
const PadID = 0

// An Encoder converts strings into sequences of integer
// token IDs for a downstream encoder model.
type Encoder interface {
	// Tokenize splits a string into tokens.
	Tokenize(s string) []string

	// Encode converts tokens into token IDs, adding any
	// special tokens the downstream model expects and
	// truncating the result to at most maxLen IDs.
	//
	// Encode does not pad; padding is left to the caller.
	Encode(tokens []string, maxLen int) []int
}

// A VocabEncoder is a word-level Encoder backed by a fixed
// Vocab. It brackets every sequence with the Vocab's start
// and end IDs.
type VocabEncoder struct {
	Tokenizer *Tokenizer
	Vocab     Vocab
}

// Tokenize splits the string into word tokens.
func (v *VocabEncoder) Tokenize(s string) []string {
	return v.Tokenizer.Tokenize(s)
}

// Encode converts tokens to IDs, the start and end markers
// included, truncated to maxLen.
func (v *VocabEncoder) Encode(tokens []string, maxLen int) []int {
	ids := make([]int, 0, len(tokens)+2)
	ids = append(ids, v.Vocab.StartID())
	ids = append(ids, v.Vocab.IDs(tokens)...)
	ids = append(ids, v.Vocab.EndID())
	if len(ids) > maxLen {
		ids = ids[:maxLen]
	}
	return ids
}

// EncodeStrings encodes each string and pads the results to
// a fixed width.
//
// The first result has one row of exactly maxLen IDs per
// string, padded with PadID. The second records each row's
// unpadded ID count, special tokens included.
func EncodeStrings(enc Encoder, strs []string, maxLen int) ([][]int, []int) {
	tokenIDs := make([][]int, len(strs))
	nbTokens := make([]int, len(strs))
	for i, s := range strs {
		ids := enc.Encode(enc.Tokenize(s), maxLen)
		if len(ids) > maxLen {
			ids = ids[:maxLen]
		}
		nbTokens[i] = len(ids)
		row := make([]int, maxLen)
		copy(row, ids)
		for j := len(ids); j < maxLen; j++ {
			row[j] = PadID
		}
		tokenIDs[i] = row
	}
	return tokenIDs, nbTokens
}
