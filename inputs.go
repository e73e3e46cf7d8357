package hyperdata

import "github.com/unixpickle/anyvec"

// SegmentID is the constant segment ID assigned to every
// token position for segment-aware encoders.
const SegmentID = 0

// AuxInputs holds the derived inputs a downstream encoder
// needs alongside the token IDs.
//
// TokenTypes is set only for SegmentEncoder and Langs only
// for LanguageEncoder; the fields are nil otherwise.
type AuxInputs struct {
	// AttentionMask has a 1 at every real token position
	// and a 0 at every padding position.
	AttentionMask *anyvec.Matrix

	TokenTypes *anyvec.Matrix
	Langs      *anyvec.Matrix
}

// BuildAuxInputs derives the auxiliary inputs for a batch
// of encoded strings with the given unpadded token counts.
//
// Every produced matrix has one row per entry of nbTokens
// and cfg.MaxSeqLength columns.
func BuildAuxInputs(c anyvec.Creator, nbTokens []int, cfg *Config) *AuxInputs {
	width := cfg.MaxSeqLength
	mask := make([]float64, 0, len(nbTokens)*width)
	for _, nb := range nbTokens {
		for j := 0; j < width; j++ {
			if j < nb {
				mask = append(mask, 1)
			} else {
				mask = append(mask, 0)
			}
		}
	}
	res := &AuxInputs{
		AttentionMask: &anyvec.Matrix{
			Data: c.MakeVectorData(c.MakeNumericList(mask)),
			Rows: len(nbTokens),
			Cols: width,
		},
	}
	switch cfg.EncoderKind {
	case SegmentEncoder:
		res.TokenTypes = constantMatrix(c, len(nbTokens), width, SegmentID)
	case LanguageEncoder:
		res.Langs = constantMatrix(c, len(nbTokens), width, float64(cfg.LangID))
	}
	return res
}

func constantMatrix(c anyvec.Creator, rows, cols int, val float64) *anyvec.Matrix {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = val
	}
	return &anyvec.Matrix{
		Data: c.MakeVectorData(c.MakeNumericList(data)),
		Rows: rows,
		Cols: cols,
	}
}
