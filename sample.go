package hyperdata

import "math/rand"

// DefaultBufferSize is the number of random IDs an IDStream
// generates at a time.
const DefaultBufferSize = 1000000

// An IDStream produces an endless stream of uniformly
// random candidate IDs in [0, numIDs).
//
// IDs are generated one large buffer at a time, which
// amortizes the generator cost across every query sampled
// from the same stream. An IDStream is not safe for
// concurrent use.
type IDStream struct {
	numIDs int
	gen    *rand.Rand
	buf    []int
	pos    int
}

// NewIDStream creates an IDStream over the IDs [0, numIDs).
//
// If bufferSize is not positive, DefaultBufferSize is used.
// If gen is nil, a self-seeded generator is used.
func NewIDStream(numIDs, bufferSize int, gen *rand.Rand) *IDStream {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if gen == nil {
		gen = rand.New(rand.NewSource(rand.Int63()))
	}
	res := &IDStream{
		numIDs: numIDs,
		gen:    gen,
		buf:    make([]int, bufferSize),
	}
	res.refill()
	return res
}

// Next produces the next random ID.
func (s *IDStream) Next() int {
	if s.pos == len(s.buf) {
		s.refill()
	}
	id := s.buf[s.pos]
	s.pos++
	return id
}

func (s *IDStream) refill() {
	for i := range s.buf {
		s.buf[i] = s.gen.Intn(s.numIDs)
	}
	s.pos = 0
}

// SampleNegatives draws negative candidate IDs for each
// query.
//
// For query i, max(0, perQuery-len(posIDs[i])) negatives are
// drawn from the stream. A drawn ID is rejected and redrawn
// if it is one of that query's positives. Accepted negatives
// are not deduplicated against each other, so one query's
// negatives may repeat when the pool is small.
//
// Every positive set must leave at least one ID of the
// stream's range uncovered; otherwise rejection never
// terminates.
func SampleNegatives(stream *IDStream, posIDs [][]int, perQuery int) [][]int {
	neg := make([][]int, len(posIDs))
	for i, pos := range posIDs {
		posSet := make(map[int]bool, len(pos))
		for _, p := range pos {
			posSet[p] = true
		}
		need := perQuery - len(pos)
		if need < 0 {
			need = 0
		}
		ids := make([]int, 0, need)
		for len(ids) < need {
			if id := stream.Next(); !posSet[id] {
				ids = append(ids, id)
			}
		}
		neg[i] = ids
	}
	return neg
}
