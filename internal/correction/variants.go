package correction

import (
	"sort"

	"deasciifier/internal/turkish"
)

// MaxTogglePositions bounds VariantConfig.MaxPositions. Lookup tries
// 2^MaxPositions candidates.
const MaxTogglePositions = 16

// VariantConfig tunes generated suggestions.
type VariantConfig struct {
	// MaxPositions caps how many toggleable letters of a word are varied;
	// later letters are left as typed. The candidate count grows as
	// 2^MaxPositions.
	MaxPositions int
	// TopK caps the number of suggestions returned.
	TopK int
	// BetaWeight scales the lexicon log prior.
	BetaWeight float64
	// LambdaPenalty is charged per toggled letter.
	LambdaPenalty float64
	// RequireKnown drops candidates missing from the lexicon.
	RequireKnown bool
}

// DefaultVariantConfig returns the settings used when none are given.
func DefaultVariantConfig() VariantConfig {
	return VariantConfig{
		MaxPositions:  8,
		TopK:          8,
		BetaWeight:    1.0,
		LambdaPenalty: 0.9,
	}
}

// Variants suggests the spellings reachable by toggling Turkish accents
// (c/ç, g/ğ, i/ı, o/ö, s/ş, u/ü) on a word.
type Variants struct {
	config  VariantConfig
	lexicon *Lexicon
}

// NewVariants returns a variant generator. lexicon may be nil, in which case
// candidates are ranked by number of toggles only.
func NewVariants(cfg VariantConfig, lexicon *Lexicon) *Variants {
	def := DefaultVariantConfig()
	if cfg.MaxPositions <= 0 {
		cfg.MaxPositions = def.MaxPositions
	}
	if cfg.MaxPositions > MaxTogglePositions {
		cfg.MaxPositions = MaxTogglePositions
	}
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.BetaWeight == 0 {
		cfg.BetaWeight = def.BetaWeight
	}
	if cfg.LambdaPenalty == 0 {
		cfg.LambdaPenalty = def.LambdaPenalty
	}
	return &Variants{config: cfg, lexicon: lexicon}
}

type candidate struct {
	term  string
	edits int
	score float64
}

// Lookup implements Catalog.
func (v *Variants) Lookup(word string) []string {
	runes := []rune(word)
	var positions []int
	for i, r := range runes {
		if _, ok := turkish.Toggle(r); ok {
			positions = append(positions, i)
			if len(positions) == v.config.MaxPositions {
				break
			}
		}
	}
	if len(positions) == 0 {
		return nil
	}

	var scored []candidate
	buf := make([]rune, len(runes))
	for mask := 1; mask < 1<<len(positions); mask++ {
		copy(buf, runes)
		for bit, pos := range positions {
			if mask&(1<<bit) != 0 {
				buf[pos], _ = turkish.Toggle(buf[pos])
			}
		}
		term := string(buf)
		if v.config.RequireKnown && (v.lexicon == nil || !v.lexicon.Contains(term)) {
			continue
		}
		ed := unitDL(word, term)
		score := -v.config.LambdaPenalty * float64(ed)
		if v.lexicon != nil {
			score += v.config.BetaWeight * v.lexicon.LogPrior(term)
		}
		scored = append(scored, candidate{term: term, edits: ed, score: score})
	}

	// Highest score first; ties go to fewer edits, then to byte order so the
	// menu is stable.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if scored[i].edits != scored[j].edits {
			return scored[i].edits < scored[j].edits
		}
		return scored[i].term < scored[j].term
	})

	var out []string
	for _, c := range scored {
		if len(out) == v.config.TopK {
			break
		}
		out = append(out, c.term)
	}
	return out
}

// HasCorrections implements Catalog.
func (v *Variants) HasCorrections(word string) bool {
	return len(v.Lookup(word)) > 0
}
