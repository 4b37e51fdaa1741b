package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"resumelens/internal/types"
)

// Policy holds every scoring constant. The zero value is not usable; start
// from DefaultPolicy.
type Policy struct {
	KeywordWeight float64 `mapstructure:"keywordWeight" yaml:"keywordWeight"`
	SectionWeight float64 `mapstructure:"sectionWeight" yaml:"sectionWeight"`
	FormatWeight  float64 `mapstructure:"formatWeight" yaml:"formatWeight"`

	// Narrative word count bounds for the length checks.
	MinWords        int `mapstructure:"minWords" yaml:"minWords"`
	MaxWords        int `mapstructure:"maxWords" yaml:"maxWords"`
	WallOfTextWords int `mapstructure:"wallOfTextWords" yaml:"wallOfTextWords"`

	NoBulletsPenalty  int `mapstructure:"noBulletsPenalty" yaml:"noBulletsPenalty"`
	TooShortPenalty   int `mapstructure:"tooShortPenalty" yaml:"tooShortPenalty"`
	TooLongPenalty    int `mapstructure:"tooLongPenalty" yaml:"tooLongPenalty"`
	ArtifactsPenalty  int `mapstructure:"artifactsPenalty" yaml:"artifactsPenalty"`
	WallOfTextPenalty int `mapstructure:"wallOfTextPenalty" yaml:"wallOfTextPenalty"`

	ExcellentFrom int `mapstructure:"excellentFrom" yaml:"excellentFrom"`
	GoodFrom      int `mapstructure:"goodFrom" yaml:"goodFrom"`
}

// ExpectedSections each contribute an equal share of the section score.
var ExpectedSections = []types.SectionName{
	types.SectionContact,
	types.SectionSummary,
	types.SectionExperience,
	types.SectionEducation,
	types.SectionSkills,
}

func DefaultPolicy() Policy {
	return Policy{
		KeywordWeight: 0.5,
		SectionWeight: 0.3,
		FormatWeight:  0.2,

		MinWords:        150,
		MaxWords:        1000,
		WallOfTextWords: 120,

		NoBulletsPenalty:  20,
		TooShortPenalty:   25,
		TooLongPenalty:    15,
		ArtifactsPenalty:  20,
		WallOfTextPenalty: 10,

		ExcellentFrom: 80,
		GoodFrom:      60,
	}
}

// Validate rejects policies that could break the score bounds.
func (p Policy) Validate() error {
	for name, w := range map[string]float64{
		"keywordWeight": p.KeywordWeight,
		"sectionWeight": p.SectionWeight,
		"formatWeight":  p.FormatWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, w)
		}
	}
	if sum := p.KeywordWeight + p.SectionWeight + p.FormatWeight; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("score weights must sum to 1, got %v", sum)
	}
	if p.MinWords < 0 || p.MaxWords <= p.MinWords {
		return fmt.Errorf("word bounds must satisfy 0 <= minWords < maxWords, got %d/%d", p.MinWords, p.MaxWords)
	}
	if p.WallOfTextWords <= 0 {
		return fmt.Errorf("wallOfTextWords must be positive")
	}
	for name, v := range map[string]int{
		"noBulletsPenalty":  p.NoBulletsPenalty,
		"tooShortPenalty":   p.TooShortPenalty,
		"tooLongPenalty":    p.TooLongPenalty,
		"artifactsPenalty":  p.ArtifactsPenalty,
		"wallOfTextPenalty": p.WallOfTextPenalty,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %d", name, v)
		}
	}
	if p.GoodFrom > p.ExcellentFrom {
		return fmt.Errorf("goodFrom (%d) cannot exceed excellentFrom (%d)", p.GoodFrom, p.ExcellentFrom)
	}
	return nil
}

// Fingerprint identifies the policy in cache keys.
func (p Policy) Fingerprint() string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%+v", p))
	return hex.EncodeToString(sum[:8])
}

// Rating maps an ATS score to its band.
func (p Policy) Rating(ats int) string {
	switch {
	case ats >= p.ExcellentFrom:
		return types.RatingExcellent
	case ats >= p.GoodFrom:
		return types.RatingGood
	default:
		return types.RatingNeedsImprovement
	}
}
