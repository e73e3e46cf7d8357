package hyperdata

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	serializer.RegisterTypedDeserializer((&QuerySet{}).SerializerType(),
		DeserializeQuerySet)
	serializer.RegisterTypedDeserializer((&Batch{}).SerializerType(),
		DeserializeBatch)
}

// DefaultMaxPosRatio caps the fraction of a training query's
// examples that may be positive.
const DefaultMaxPosRatio = 0.5

// An EncoderKind identifies the downstream encoder
// architecture, which determines the auxiliary inputs a
// batch needs.
type EncoderKind int

const (
	// PlainEncoder needs only token IDs and an attention
	// mask.
	PlainEncoder EncoderKind = iota

	// SegmentEncoder also takes segment (token type) IDs,
	// like BERT.
	SegmentEncoder

	// LanguageEncoder also takes language IDs, like XLM.
	LanguageEncoder
)

// ParseEncoderKind converts an encoder kind name ("plain",
// "segment" or "language") into an EncoderKind.
func ParseEncoderKind(name string) (EncoderKind, error) {
	switch name {
	case "plain":
		return PlainEncoder, nil
	case "segment":
		return SegmentEncoder, nil
	case "language":
		return LanguageEncoder, nil
	}
	return 0, fmt.Errorf("unrecognized encoder kind %q", name)
}

// A Config controls dataset assembly.
type Config struct {
	// MaxSeqLength is the padded width of every encoded
	// string.
	MaxSeqLength int

	// PerQueryExamples is the total number of positive and
	// negative examples per training query.
	PerQueryExamples int

	// MaxPosRatio caps the fraction of PerQueryExamples
	// that may be positive. It must be in (0, 1]; if it is
	// 0, DefaultMaxPosRatio is used.
	MaxPosRatio float64

	// EncoderKind selects the auxiliary inputs to build.
	EncoderKind EncoderKind

	// LangID is the language ID used for LanguageEncoder
	// inputs.
	LangID int

	// Verbose enables statistics logging.
	Verbose bool
}

func (c *Config) maxPosRatio() float64 {
	if c.MaxPosRatio == 0 {
		return DefaultMaxPosRatio
	}
	return c.MaxPosRatio
}

// A QuerySet is an encoded, unlabeled set of strings
// (queries or candidates).
type QuerySet struct {
	// TokenIDs has one row per string, padded with PadID.
	TokenIDs [][]int

	// NbTokens is each row's unpadded ID count.
	NbTokens []int
}

// DeserializeQuerySet deserializes a QuerySet.
func DeserializeQuerySet(d []byte) (*QuerySet, error) {
	var rows, cols int
	var flat, nbTokens []int
	err := serializer.DeserializeAny(d, &rows, &cols, &flat, &nbTokens)
	if err != nil {
		return nil, essentials.AddCtx("deserialize QuerySet", err)
	}
	return &QuerySet{
		TokenIDs: unflattenInts(flat, rows, cols),
		NbTokens: nbTokens,
	}, nil
}

// SerializerType returns the unique ID used to serialize
// a QuerySet with the serializer package.
func (q *QuerySet) SerializerType() string {
	return "github.com/royakabiri/hypernym-discovery.QuerySet"
}

// Serialize serializes the QuerySet.
func (q *QuerySet) Serialize() ([]byte, error) {
	rows, cols := dims(q.TokenIDs)
	return serializer.SerializeAny(rows, cols, flattenInts(q.TokenIDs), q.NbTokens)
}

// A Batch is a fully assembled, labeled dataset: parallel
// rows of encoded query, candidate IDs, and labels.
type Batch struct {
	// TokenIDs and NbTokens are the encoded queries.
	TokenIDs [][]int
	NbTokens []int

	// CandidateIDs[i] lists the candidates to score for
	// query i. Every row has the same length.
	CandidateIDs [][]int

	// Labels holds one float row per query: 1 for gold
	// candidates and 0 for the rest, ready for a loss.
	Labels *anyvec.Matrix
}

// DeserializeBatch deserializes a Batch.
func DeserializeBatch(d []byte) (batch *Batch, err error) {
	defer essentials.AddCtxTo("deserialize Batch", &err)
	var rows, tokenCols, candCols int
	var flatTokens, nbTokens, flatCands []int
	var labels *anyvecsave.S
	err = serializer.DeserializeAny(d, &rows, &tokenCols, &candCols,
		&flatTokens, &nbTokens, &flatCands, &labels)
	if err != nil {
		return nil, err
	}
	return &Batch{
		TokenIDs:     unflattenInts(flatTokens, rows, tokenCols),
		NbTokens:     nbTokens,
		CandidateIDs: unflattenInts(flatCands, rows, candCols),
		Labels: &anyvec.Matrix{
			Data: labels.Vector,
			Rows: rows,
			Cols: candCols,
		},
	}, nil
}

// SerializerType returns the unique ID used to serialize
// a Batch with the serializer package.
func (b *Batch) SerializerType() string {
	return "github.com/royakabiri/hypernym-discovery.Batch"
}

// Serialize serializes the Batch.
func (b *Batch) Serialize() ([]byte, error) {
	rows, tokenCols := dims(b.TokenIDs)
	_, candCols := dims(b.CandidateIDs)
	return serializer.SerializeAny(
		rows,
		tokenCols,
		candCols,
		flattenInts(b.TokenIDs),
		b.NbTokens,
		flattenInts(b.CandidateIDs),
		&anyvecsave.S{Vector: b.Labels.Data},
	)
}

// A ShapeError indicates that the candidate lists in one
// batch do not all have the same length.
type ShapeError struct {
	// Counts maps each distinct candidate-list length to
	// the number of queries with that length.
	Counts map[int]int
}

// Error produces a message listing the lengths found.
func (s *ShapeError) Error() string {
	var lengths []int
	for l := range s.Counts {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	parts := make([]string, len(lengths))
	for i, l := range lengths {
		parts[i] = fmt.Sprintf("%d (count=%d)", l, s.Counts[l])
	}
	return "candidate count must be the same for all queries; found: " +
		strings.Join(parts, ", ")
}

// A LabelError indicates a label outside {0, 1}.
type LabelError struct {
	Value int
}

// Error produces a message naming the offending value.
func (l *LabelError) Error() string {
	return fmt.Sprintf("unrecognized label %d", l.Value)
}

// MakeBatch encodes queries and assembles them with
// candidate IDs and labels into a Batch.
//
// Every query must come with the same number of candidate
// IDs and one label in {0, 1} per candidate ID; violations
// yield a *ShapeError or *LabelError.
func MakeBatch(c anyvec.Creator, enc Encoder, queries []string, candIDs [][]int,
	labels [][]int, cfg *Config) (*Batch, error) {
	if len(queries) != len(candIDs) || len(queries) != len(labels) {
		return nil, fmt.Errorf("make batch: got %d queries, %d candidate lists"+
			" and %d label lists", len(queries), len(candIDs), len(labels))
	}
	lengthCounts := map[int]int{}
	for _, ids := range candIDs {
		lengthCounts[len(ids)]++
	}
	if len(lengthCounts) > 1 {
		return nil, &ShapeError{Counts: lengthCounts}
	}
	setSize := 0
	for length := range lengthCounts {
		setSize = length
	}

	var nbPos, nbNeg int
	for _, row := range labels {
		for _, label := range row {
			switch label {
			case 1:
				nbPos++
			case 0:
				nbNeg++
			default:
				return nil, &LabelError{Value: label}
			}
		}
	}
	if cfg.Verbose {
		log.Printf("assembling batch: %d queries, %d positive and %d negative"+
			" examples, max length %d", len(queries), nbPos, nbNeg, cfg.MaxSeqLength)
	}

	tokenIDs, nbTokens := EncodeStrings(enc, queries, cfg.MaxSeqLength)
	if cfg.Verbose {
		for i := 0; i < len(queries) && i < 5; i++ {
			log.Printf("example %d: query=%q tokenIDs=%v nbTokens=%d"+
				" candidateIDs=%v labels=%v", i, queries[i], tokenIDs[i],
				nbTokens[i], candIDs[i], labels[i])
		}
	}

	labelData := make([]float64, 0, len(labels)*setSize)
	for _, row := range labels {
		for _, label := range row {
			labelData = append(labelData, float64(label))
		}
	}
	return &Batch{
		TokenIDs:     tokenIDs,
		NbTokens:     nbTokens,
		CandidateIDs: candIDs,
		Labels: &anyvec.Matrix{
			Data: c.MakeVectorData(c.MakeNumericList(labelData)),
			Rows: len(queries),
			Cols: setSize,
		},
	}, nil
}

// MakeTrainSet builds a labeled training set from loaded
// train data.
//
// Each query's gold IDs are shuffled and capped at
// MaxPosRatio*PerQueryExamples positives, negatives are
// sampled to fill the per-query budget, and the combined
// examples are shuffled again. The gen argument drives all
// shuffling and sampling; pass nil for a self-seeded
// generator.
func MakeTrainSet(c anyvec.Creator, enc Encoder, data *Data, cfg *Config,
	gen *rand.Rand) (*Batch, error) {
	if cfg.PerQueryExamples < 1 {
		return nil, fmt.Errorf("make train set: PerQueryExamples must be"+
			" positive (got %d)", cfg.PerQueryExamples)
	}
	ratio := cfg.maxPosRatio()
	if ratio < 0 || ratio > 1 {
		return nil, fmt.Errorf("make train set: MaxPosRatio must be in (0,1]"+
			" (got %v)", ratio)
	}
	if gen == nil {
		gen = rand.New(rand.NewSource(rand.Int63()))
	}

	maxPos := int(ratio * float64(cfg.PerQueryExamples))
	pos := make([][]int, len(data.Queries))
	var nbDiscarded int
	for i, q := range data.Queries {
		ids := append([]int{}, q.GoldIDs...)
		gen.Shuffle(len(ids), func(a, b int) {
			ids[a], ids[b] = ids[b], ids[a]
		})
		if len(ids) > maxPos {
			nbDiscarded += len(ids) - maxPos
			ids = ids[:maxPos]
		}
		pos[i] = ids
	}
	if nbDiscarded > 0 && cfg.Verbose {
		log.Printf("discarded %d positive hypernyms over the per-query cap of %d",
			nbDiscarded, maxPos)
	}

	stream := NewIDStream(len(data.Candidates), DefaultBufferSize, gen)
	neg := SampleNegatives(stream, pos, cfg.PerQueryExamples)

	queries := make([]string, len(data.Queries))
	candIDs := make([][]int, len(data.Queries))
	labels := make([][]int, len(data.Queries))
	for i := range data.Queries {
		queries[i] = data.Queries[i].Text
		ids := make([]int, 0, len(pos[i])+len(neg[i]))
		ids = append(append(ids, pos[i]...), neg[i]...)
		lab := make([]int, len(ids))
		for j := range pos[i] {
			lab[j] = 1
		}
		gen.Shuffle(len(ids), func(a, b int) {
			ids[a], ids[b] = ids[b], ids[a]
			lab[a], lab[b] = lab[b], lab[a]
		})
		candIDs[i] = ids
		labels[i] = lab
	}
	return MakeBatch(c, enc, queries, candIDs, labels, cfg)
}

// MakeDevSet builds a labeled validation set in which every
// candidate in the pool appears exactly once per query.
func MakeDevSet(c anyvec.Creator, enc Encoder, data *Data, cfg *Config) (*Batch, error) {
	// Every row scores the same ID list, so the rows share it.
	allIDs := make([]int, len(data.Candidates))
	for i := range allIDs {
		allIDs[i] = i
	}
	queries := make([]string, len(data.Queries))
	candIDs := make([][]int, len(data.Queries))
	labels := make([][]int, len(data.Queries))
	for i, q := range data.Queries {
		queries[i] = q.Text
		candIDs[i] = allIDs
		lab := make([]int, len(allIDs))
		for _, g := range q.GoldIDs {
			lab[g] = 1
		}
		labels[i] = lab
	}
	return MakeBatch(c, enc, queries, candIDs, labels, cfg)
}

// MakeTestSet encodes a test split's queries without
// labels.
func MakeTestSet(enc Encoder, data *Data, cfg *Config) *QuerySet {
	return makeQuerySet(enc, data.QueryStrings(), cfg, false)
}

// MakeCandidateSet encodes the candidate pool itself.
func MakeCandidateSet(enc Encoder, data *Data, cfg *Config) *QuerySet {
	return makeQuerySet(enc, []string(data.Candidates), cfg, cfg.Verbose)
}

func makeQuerySet(enc Encoder, strs []string, cfg *Config, verbose bool) *QuerySet {
	if verbose {
		log.Printf("encoding %d strings with max length %d", len(strs),
			cfg.MaxSeqLength)
	}
	ids, nbTokens := EncodeStrings(enc, strs, cfg.MaxSeqLength)
	return &QuerySet{TokenIDs: ids, NbTokens: nbTokens}
}

func dims(rows [][]int) (int, int) {
	if len(rows) == 0 {
		return 0, 0
	}
	return len(rows), len(rows[0])
}

func flattenInts(rows [][]int) []int {
	var res []int
	for _, row := range rows {
		res = append(res, row...)
	}
	return res
}

func unflattenInts(flat []int, rows, cols int) [][]int {
	res := make([][]int, rows)
	for i := range res {
		res[i] = flat[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return res
}
