package hyperdata

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	serializer.RegisterTypedDeserializer(CandidatePool{}.SerializerType(),
		DeserializeCandidatePool)
}

// A Split identifies one portion of a hypernym discovery
// dataset.
type Split int

const (
	TrainSplit Split = iota
	DevSplit
	TestSplit

	// CandidateSplit loads only the candidate pool.
	CandidateSplit
)

// ParseSplit converts a split name ("train", "dev", "test"
// or "candidates") into a Split.
func ParseSplit(name string) (Split, error) {
	switch name {
	case "train":
		return TrainSplit, nil
	case "dev":
		return DevSplit, nil
	case "test":
		return TestSplit, nil
	case "candidates":
		return CandidateSplit, nil
	}
	return 0, fmt.Errorf("unrecognized split %q", name)
}

// String returns the split's name.
func (s Split) String() string {
	switch s {
	case TrainSplit:
		return "train"
	case DevSplit:
		return "dev"
	case TestSplit:
		return "test"
	case CandidateSplit:
		return "candidates"
	}
	panic("unknown split")
}

// A CandidatePool is the fixed, ordered pool of candidate
// hypernym strings. A candidate's ID is its position in the
// pool, which is the line it came from in candidates.txt.
type CandidatePool []string

// DeserializeCandidatePool deserializes a CandidatePool.
func DeserializeCandidatePool(d []byte) (CandidatePool, error) {
	var res CandidatePool
	if err := json.Unmarshal(d, &res); err != nil {
		return nil, essentials.AddCtx("deserialize CandidatePool", err)
	}
	return res, nil
}

// Candidate gets the string for a candidate ID.
//
// If the ID is out of range, then "" is returned.
func (c CandidatePool) Candidate(id int) string {
	if id < 0 || id >= len(c) {
		return ""
	}
	return c[id]
}

// Index builds the inverse mapping from candidate strings
// to IDs.
//
// If the pool contains duplicates, the last occurrence
// wins, which is why LoadData rejects duplicates up front.
func (c CandidatePool) Index() map[string]int {
	res := make(map[string]int, len(c))
	for i, cand := range c {
		res[cand] = i
	}
	return res
}

// SerializerType returns the unique ID used to serialize
// a CandidatePool with the serializer package.
func (c CandidatePool) SerializerType() string {
	return "github.com/royakabiri/hypernym-discovery.CandidatePool"
}

// Serialize serializes the CandidatePool.
func (c CandidatePool) Serialize() ([]byte, error) {
	return json.Marshal(c)
}

// A LookupError indicates that a gold hypernym string does
// not appear in the candidate pool, meaning the data files
// are corrupt or misaligned.
type LookupError struct {
	Hypernym string
}

// Error produces a message naming the missing hypernym.
func (l *LookupError) Error() string {
	return fmt.Sprintf("gold hypernym %q not in candidate pool", l.Hypernym)
}

// A Query pairs a query string with the IDs of its gold
// hypernyms in the candidate pool.
//
// Queries keep the order of the lines they were read from;
// nothing in the pipeline may reorder them, since the gold
// file refers to queries purely by line position.
type Query struct {
	Text    string
	GoldIDs []int
}

// Data holds the raw contents of one dataset split.
type Data struct {
	Candidates   CandidatePool
	CandidateIDs map[string]int

	// Queries is nil for CandidateSplit.
	Queries []Query

	// Labeled indicates that gold hypernym IDs were loaded.
	// It is always true for train and dev, and true for
	// test only when a gold file was present.
	Labeled bool
}

// QueryStrings returns the query strings in file order.
func (d *Data) QueryStrings() []string {
	res := make([]string, len(d.Queries))
	for i, q := range d.Queries {
		res[i] = q.Text
	}
	return res
}

// GoldIDLists returns each query's gold IDs in file order.
func (d *Data) GoldIDLists() [][]int {
	res := make([][]int, len(d.Queries))
	for i, q := range d.Queries {
		res[i] = q.GoldIDs
	}
	return res
}

// LoadData reads one split of a dataset from dataDir.
//
// The candidate pool comes from candidates.txt. For splits
// other than CandidateSplit, queries come from
// {split}.queries.txt and gold hypernyms from
// {split}.gold.tsv. The gold file is required for train and
// dev, and used for test only when it exists; line i of the
// gold file labels line i of the queries file.
func LoadData(dataDir string, split Split) (*Data, error) {
	candLines, err := readLines(filepath.Join(dataDir, "candidates.txt"))
	if err != nil {
		return nil, essentials.AddCtx("load "+split.String()+" data", err)
	}
	pool := CandidatePool(candLines)
	index := make(map[string]int, len(pool))
	for i, cand := range pool {
		if prev, ok := index[cand]; ok {
			return nil, fmt.Errorf("duplicate candidate %q on lines %d and %d",
				cand, prev+1, i+1)
		}
		index[cand] = i
	}
	data := &Data{Candidates: pool, CandidateIDs: index}
	if split == CandidateSplit {
		return data, nil
	}

	queryLines, err := readLines(filepath.Join(dataDir, split.String()+".queries.txt"))
	if err != nil {
		return nil, essentials.AddCtx("load "+split.String()+" data", err)
	}
	data.Queries = make([]Query, len(queryLines))
	for i, q := range queryLines {
		data.Queries[i] = Query{Text: q}
	}

	goldPath := filepath.Join(dataDir, split.String()+".gold.tsv")
	if split == TestSplit {
		if _, statErr := os.Stat(goldPath); os.IsNotExist(statErr) {
			return data, nil
		}
	}
	goldLines, err := readLines(goldPath)
	if err != nil {
		return nil, essentials.AddCtx("load "+split.String()+" data", err)
	}
	if len(goldLines) != len(queryLines) {
		return nil, fmt.Errorf("got %d queries but %d gold lines",
			len(queryLines), len(goldLines))
	}
	for i, line := range goldLines {
		for _, g := range strings.Split(line, "\t") {
			id, ok := index[g]
			if !ok {
				return nil, &LookupError{Hypernym: g}
			}
			data.Queries[i].GoldIDs = append(data.Queries[i].GoldIDs, id)
		}
	}
	data.Labeled = true
	return data, nil
}

func readLines(path string) (lines []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	return lines, scanner.Err()
}
