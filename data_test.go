package hyperdata

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDataTrain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "candidates.txt", "animal\ncanine\nfruit\n")
	writeFile(t, dir, "train.queries.txt", "dog\napple\n")
	writeFile(t, dir, "train.gold.tsv", "animal\tcanine\nfruit\n")

	data, err := LoadData(dir, TrainSplit)
	if err != nil {
		t.Fatal(err)
	}
	expectedPool := CandidatePool{"animal", "canine", "fruit"}
	if !reflect.DeepEqual(data.Candidates, expectedPool) {
		t.Errorf("expected %v but got %v", expectedPool, data.Candidates)
	}
	if id := data.CandidateIDs["fruit"]; id != 2 {
		t.Error("expected 2 but got", id)
	}
	expectedQueries := []Query{
		{Text: "dog", GoldIDs: []int{0, 1}},
		{Text: "apple", GoldIDs: []int{2}},
	}
	if !reflect.DeepEqual(data.Queries, expectedQueries) {
		t.Errorf("expected %v but got %v", expectedQueries, data.Queries)
	}
	if !data.Labeled {
		t.Error("expected labeled data")
	}
}

func TestLoadDataCandidatesOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "candidates.txt", "animal\ncanine\n")

	data, err := LoadData(dir, CandidateSplit)
	if err != nil {
		t.Fatal(err)
	}
	if data.Queries != nil {
		t.Error("expected no queries but got", data.Queries)
	}
	if data.Labeled {
		t.Error("expected unlabeled data")
	}
}

func TestLoadDataTestSplit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "candidates.txt", "animal\ncanine\n")
	writeFile(t, dir, "test.queries.txt", "dog\n")

	data, err := LoadData(dir, TestSplit)
	if err != nil {
		t.Fatal(err)
	}
	if data.Labeled {
		t.Error("expected unlabeled data without a gold file")
	}

	writeFile(t, dir, "test.gold.tsv", "canine\n")
	data, err = LoadData(dir, TestSplit)
	if err != nil {
		t.Fatal(err)
	}
	if !data.Labeled {
		t.Error("expected labeled data with a gold file")
	}
	if !reflect.DeepEqual(data.Queries[0].GoldIDs, []int{1}) {
		t.Error("unexpected gold IDs:", data.Queries[0].GoldIDs)
	}
}

func TestLoadDataMissingGold(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "candidates.txt", "animal\ncanine\nfruit\n")
	writeFile(t, dir, "dev.queries.txt", "dog\n")
	writeFile(t, dir, "dev.gold.tsv", "mineral\n")

	_, err := LoadData(dir, DevSplit)
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatal("expected a LookupError but got", err)
	}
	if lookupErr.Hypernym != "mineral" {
		t.Errorf("expected \"mineral\" but got %q", lookupErr.Hypernym)
	}
}

func TestLoadDataDuplicateCandidate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "candidates.txt", "animal\ncanine\nanimal\n")

	if _, err := LoadData(dir, CandidateSplit); err == nil {
		t.Error("expected an error for duplicate candidates")
	}
}

func TestLoadDataMisalignedGold(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "candidates.txt", "animal\n")
	writeFile(t, dir, "train.queries.txt", "dog\ncat\n")
	writeFile(t, dir, "train.gold.tsv", "animal\n")

	if _, err := LoadData(dir, TrainSplit); err == nil {
		t.Error("expected an error for mismatched line counts")
	}
}

func TestParseSplit(t *testing.T) {
	for _, name := range []string{"train", "dev", "test", "candidates"} {
		split, err := ParseSplit(name)
		if err != nil {
			t.Fatal(err)
		}
		if split.String() != name {
			t.Errorf("expected %q but got %q", name, split.String())
		}
	}
	if _, err := ParseSplit("validation"); err == nil {
		t.Error("expected an error for an unknown split")
	}
}
