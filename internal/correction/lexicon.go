package correction

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"deasciifier/internal/datafile"
)

// Lexicon is a word frequency list used to rank generated variants.
type Lexicon struct {
	frequencies map[string]float64
	temperature float64
	logpCache   sync.Map // map[string]float64
}

// NewLexicon builds a lexicon from word → count. temperature flattens the
// prior: 1 keeps raw frequencies, larger values favour rare words.
func NewLexicon(counts map[string]int, temperature float64) *Lexicon {
	if temperature <= 0 {
		temperature = 1
	}
	lx := &Lexicon{frequencies: make(map[string]float64, len(counts)), temperature: temperature}
	for w, c := range counts {
		lx.frequencies[lower(w)] = float64(c)
	}
	return lx
}

// LoadLexicon reads a "word count" per line frequency file. Lines that do
// not parse are skipped; counts may be integers or floats.
func LoadLexicon(path string, temperature float64) (*Lexicon, error) {
	counts := make(map[string]int)
	err := datafile.Map(path, func(data []byte) error {
		s := bufio.NewScanner(bytes.NewReader(data))
		for s.Scan() {
			line := strings.TrimSpace(s.Text())
			if line == "" {
				continue
			}
			parts := strings.Fields(line)
			if len(parts) < 2 {
				continue
			}
			count, err := strconv.Atoi(parts[1])
			if err != nil {
				fv, ferr := strconv.ParseFloat(parts[1], 64)
				if ferr != nil {
					continue
				}
				count = int(fv)
			}
			counts[parts[0]] += count
		}
		return s.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	return NewLexicon(counts, temperature), nil
}

// Contains reports whether the word, in Turkish lowercase, is listed.
func (lx *Lexicon) Contains(word string) bool {
	_, ok := lx.frequencies[lower(word)]
	return ok
}

// Len returns the number of words.
func (lx *Lexicon) Len() int {
	return len(lx.frequencies)
}

// LogPrior returns the tempered log frequency of word. Unknown words get a
// tiny floor frequency instead of -Inf.
func (lx *Lexicon) LogPrior(word string) float64 {
	lw := lower(word)
	if v, ok := lx.logpCache.Load(lw); ok {
		return v.(float64)
	}
	f := lx.frequencies[lw]
	if f == 0 {
		f = 1e-12
	}
	lp := math.Log(math.Pow(f, 1.0/lx.temperature))
	lx.logpCache.Store(lw, lp)
	return lp
}
