package hyperdata

import (
	"encoding/json"
	"sort"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	serializer.RegisterTypedDeserializer(Vocab{}.SerializerType(), DeserializeVocab)
}

// A Vocab is a sorted set of tokens which can translate
// between tokens and token IDs.
//
// ID 0 is reserved for padding, so the token at index i in
// the sorted list has ID i+1. Three reserved IDs follow the
// tokens: len(Vocab)+1 stands in for tokens not in the set,
// and len(Vocab)+2 and len(Vocab)+3 mark the start and end
// of an encoded sequence.
type Vocab []string

// DeserializeVocab deserializes a Vocab.
func DeserializeVocab(d []byte) (Vocab, error) {
	var res Vocab
	if err := json.Unmarshal(d, &res); err != nil {
		return nil, essentials.AddCtx("deserialize Vocab", err)
	}
	return res, nil
}

// NewVocab creates a sorted Vocab from a stream of tokens,
// dropping duplicates.
func NewVocab(tokens <-chan string) Vocab {
	seen := map[string]bool{}
	var res Vocab
	for tok := range tokens {
		if !seen[tok] {
			seen[tok] = true
			res = append(res, tok)
		}
	}
	sort.Strings(res)
	return res
}

// ID gets the ID for a token.
//
// Tokens not in the set get UnknownID.
func (v Vocab) ID(token string) int {
	idx := sort.SearchStrings(v, token)
	if idx == len(v) || v[idx] != token {
		return v.UnknownID()
	}
	return idx + 1
}

// IDs computes the ID for each token.
func (v Vocab) IDs(tokens []string) []int {
	res := make([]int, len(tokens))
	for i, tok := range tokens {
		res[i] = v.ID(tok)
	}
	return res
}

// Token gets the token for the given ID.
//
// If the ID is reserved or out of range, then "" is
// returned.
func (v Vocab) Token(id int) string {
	if id < 1 || id > len(v) {
		return ""
	}
	return v[id-1]
}

// UnknownID is the ID standing in for tokens not in the set.
func (v Vocab) UnknownID() int {
	return len(v) + 1
}

// StartID is the ID marking the start of a sequence.
func (v Vocab) StartID() int {
	return len(v) + 2
}

// EndID is the ID marking the end of a sequence.
func (v Vocab) EndID() int {
	return len(v) + 3
}

// NumIDs returns the total number of distinct IDs, the
// padding and reserved IDs included.
func (v Vocab) NumIDs() int {
	return len(v) + 4
}

// SerializerType returns the unique ID used to serialize
// a Vocab with the serializer package.
func (v Vocab) SerializerType() string {
	return "github.com/royakabiri/hypernym-discovery.Vocab"
}

// Serialize serializes the Vocab.
func (v Vocab) Serialize() ([]byte, error) {
	return json.Marshal(v)
}
