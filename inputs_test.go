package hyperdata

import (
	"reflect"
	"testing"

	"github.com/unixpickle/anyvec/anyvec32"
)

func TestBuildAuxInputsMask(t *testing.T) {
	c := anyvec32.DefaultCreator{}
	cfg := &Config{MaxSeqLength: 5}
	nbTokens := []int{2, 5, 0}

	aux := BuildAuxInputs(c, nbTokens, cfg)

	if aux.AttentionMask.Rows != 3 || aux.AttentionMask.Cols != 5 {
		t.Fatalf("expected a 3x5 mask but got %dx%d",
			aux.AttentionMask.Rows, aux.AttentionMask.Cols)
	}
	mask := aux.AttentionMask.Data.Data().([]float32)
	expected := []float32{
		1, 1, 0, 0, 0,
		1, 1, 1, 1, 1,
		0, 0, 0, 0, 0,
	}
	if !reflect.DeepEqual(mask, expected) {
		t.Errorf("expected %v but got %v", expected, mask)
	}
	for i, nb := range nbTokens {
		var ones int
		for _, x := range mask[i*5 : (i+1)*5] {
			if x == 1 {
				ones++
			}
		}
		if ones != nb {
			t.Errorf("row %d: expected %d ones but got %d", i, nb, ones)
		}
	}
	if aux.TokenTypes != nil {
		t.Error("expected no token type IDs for a plain encoder")
	}
	if aux.Langs != nil {
		t.Error("expected no language IDs for a plain encoder")
	}
}

func TestBuildAuxInputsSegment(t *testing.T) {
	c := anyvec32.DefaultCreator{}
	cfg := &Config{MaxSeqLength: 3, EncoderKind: SegmentEncoder}

	aux := BuildAuxInputs(c, []int{1, 2}, cfg)

	if aux.Langs != nil {
		t.Error("expected no language IDs for a segment-aware encoder")
	}
	if aux.TokenTypes == nil {
		t.Fatal("expected token type IDs")
	}
	types := aux.TokenTypes.Data.Data().([]float32)
	if !reflect.DeepEqual(types, make([]float32, 6)) {
		t.Errorf("expected all zeros but got %v", types)
	}
}

func TestBuildAuxInputsLanguage(t *testing.T) {
	c := anyvec32.DefaultCreator{}
	cfg := &Config{MaxSeqLength: 3, EncoderKind: LanguageEncoder, LangID: 7}

	aux := BuildAuxInputs(c, []int{1, 2}, cfg)

	if aux.TokenTypes != nil {
		t.Error("expected no token type IDs for a language-aware encoder")
	}
	if aux.Langs == nil {
		t.Fatal("expected language IDs")
	}
	langs := aux.Langs.Data.Data().([]float32)
	expected := []float32{7, 7, 7, 7, 7, 7}
	if !reflect.DeepEqual(langs, expected) {
		t.Errorf("expected %v but got %v", expected, langs)
	}
}
