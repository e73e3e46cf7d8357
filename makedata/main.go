// Command makedata assembles one split of a hypernym
// discovery dataset and saves it to a file.
package main

import (
	"flag"
	"log"
	"math/rand"

	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"

	hyperdata "github.com/royakabiri/hypernym-discovery"
)

func main() {
	var dataDir string
	var splitName string
	var outPath string
	var maxLen int
	var perQuery int
	var maxPosRatio float64
	var encoderName string
	var langID int
	var seed int64
	flag.StringVar(&dataDir, "data", "", "dataset directory")
	flag.StringVar(&splitName, "split", "train",
		"split to build (train, dev, test or candidates)")
	flag.StringVar(&outPath, "out", "dataset_out", "output file")
	flag.IntVar(&maxLen, "maxlen", 32, "maximum sequence length")
	flag.IntVar(&perQuery, "examples", 50, "examples per training query")
	flag.Float64Var(&maxPosRatio, "posratio", hyperdata.DefaultMaxPosRatio,
		"maximum fraction of positive examples per training query")
	flag.StringVar(&encoderName, "encoder", "plain",
		"encoder kind (plain, segment or language)")
	flag.IntVar(&langID, "lang", 0, "language ID for language-aware encoders")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 for self-seeding)")
	flag.Parse()

	if dataDir == "" {
		essentials.Die("Required flag: -data. See -help.")
	}
	split, err := hyperdata.ParseSplit(splitName)
	if err != nil {
		essentials.Die(err)
	}
	kind, err := hyperdata.ParseEncoderKind(encoderName)
	if err != nil {
		essentials.Die(err)
	}

	log.Println("Loading data...")
	data, err := hyperdata.LoadData(dataDir, split)
	if err != nil {
		essentials.Die(err)
	}

	log.Println("Building vocabulary...")
	enc := &hyperdata.VocabEncoder{
		Tokenizer: &hyperdata.Tokenizer{},
		Vocab:     buildVocab(data),
	}

	cfg := &hyperdata.Config{
		MaxSeqLength:     maxLen,
		PerQueryExamples: perQuery,
		MaxPosRatio:      maxPosRatio,
		EncoderKind:      kind,
		LangID:           langID,
		Verbose:          true,
	}
	var gen *rand.Rand
	if seed != 0 {
		gen = rand.New(rand.NewSource(seed))
	}

	log.Println("Assembling dataset...")
	creator := anyvec32.CurrentCreator()
	var result serializer.Serializer
	switch split {
	case hyperdata.TrainSplit:
		result, err = hyperdata.MakeTrainSet(creator, enc, data, cfg, gen)
	case hyperdata.DevSplit:
		result, err = hyperdata.MakeDevSet(creator, enc, data, cfg)
	case hyperdata.TestSplit:
		result = hyperdata.MakeTestSet(enc, data, cfg)
	case hyperdata.CandidateSplit:
		result = hyperdata.MakeCandidateSet(enc, data, cfg)
	}
	if err != nil {
		essentials.Die(err)
	}

	log.Println("Saving...")
	if err := serializer.SaveAny(outPath, result); err != nil {
		essentials.Die(err)
	}
}

func buildVocab(data *hyperdata.Data) hyperdata.Vocab {
	tok := &hyperdata.Tokenizer{}
	stream := make(chan string, 128)
	go func() {
		defer close(stream)
		for _, cand := range data.Candidates {
			for _, t := range tok.Tokenize(cand) {
				stream <- t
			}
		}
		for _, query := range data.QueryStrings() {
			for _, t := range tok.Tokenize(query) {
				stream <- t
			}
		}
	}()
	return hyperdata.NewVocab(stream)
}
