package extract

import (
	"regexp"
	"strconv"

	"github.com/neilthomass/instaPFP/models"
)

// reSizeToken matches a WxH size token embedded in an image URL, e.g. the
// "320x320" in ".../s320x320/photo.jpg" or "?size=150x150".
var reSizeToken = regexp.MustCompile(`(\d{2,5})x(\d{2,5})`)

// EffectiveWidth returns a candidate's explicit width: the descriptor width
// when present, otherwise one parsed from a size token in the URL itself.
func EffectiveWidth(c models.ImageCandidate) (int, bool) {
	if c.Width > 0 {
		return c.Width, true
	}
	if m := reSizeToken.FindStringSubmatch(c.URL); m != nil {
		if w, err := strconv.Atoi(m[1]); err == nil {
			return w, true
		}
	}
	return 0, false
}

// Select applies the resolution-ranking policy to a candidate set:
//
//  1. the candidate with the greatest explicit width wins;
//  2. when no candidate has explicit size information, any embeddedJson
//     candidate beats srcset ones (JSON variants are the canonical HD
//     source);
//  3. ties keep the first-discovered candidate. This is a deliberate,
//     documented choice, not an inferred guarantee.
//
// An empty input set is an EXTRACTION_FAILED error.
func Select(cands []models.ImageCandidate) (models.ImageCandidate, error) {
	if len(cands) == 0 {
		return models.ImageCandidate{}, models.NewFetchError(
			models.ErrCodeExtraction, "no image candidates to rank", nil)
	}

	bestIdx, bestW := -1, 0
	for i, c := range cands {
		// Strict > keeps the earlier candidate on equal widths.
		if w, ok := EffectiveWidth(c); ok && (bestIdx == -1 || w > bestW) {
			bestIdx, bestW = i, w
		}
	}
	if bestIdx >= 0 {
		return cands[bestIdx], nil
	}

	for _, c := range cands {
		if c.Source == models.SourceEmbeddedJSON {
			return c, nil
		}
	}
	return cands[0], nil
}
