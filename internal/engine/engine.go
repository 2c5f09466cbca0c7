// Package engine assembles the pattern table, processor and correction
// catalogs described by a config.
package engine

import (
	"fmt"
	"log/slog"

	"deasciifier/internal/config"
	"deasciifier/internal/correction"
	"deasciifier/internal/pattern"
	"deasciifier/internal/transform"
)

// Engine is the shared, immutable part of every session.
type Engine struct {
	Table     *pattern.Table
	Processor *transform.Processor
	// Corrections holds the file-backed entries; never nil.
	Corrections *correction.Static
	// Generated suggests accent variants; nil when disabled.
	Generated correction.Catalog
}

// New builds an engine from cfg.
func New(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []pattern.Option{pattern.WithRadius(cfg.Patterns.Radius)}

	var table *pattern.Table
	if cfg.Patterns.Path == "" {
		table = pattern.Default(opts...)
	} else {
		t, err := pattern.LoadFile(cfg.Patterns.Path, opts...)
		if err != nil {
			return nil, err
		}
		table = t
	}
	logger.Info("patterns loaded", "letters", string(table.Letters()), "radius", table.Radius())

	e := &Engine{
		Table:       table,
		Processor:   transform.NewProcessor(table),
		Corrections: correction.NewStatic(nil),
	}

	if cfg.Corrections.Path != "" {
		s, err := correction.LoadFile(cfg.Corrections.Path)
		if err != nil {
			return nil, err
		}
		e.Corrections = s
		logger.Info("corrections loaded", "entries", s.Len())
	}

	if cfg.Corrections.GenerateVariants {
		var lexicon *correction.Lexicon
		if cfg.Corrections.LexiconPath != "" {
			lx, err := correction.LoadLexicon(cfg.Corrections.LexiconPath, cfg.Corrections.FreqTemperature)
			if err != nil {
				return nil, err
			}
			lexicon = lx
			logger.Info("lexicon loaded", "words", lx.Len())
		}
		if cfg.Corrections.RequireKnown && lexicon == nil {
			return nil, fmt.Errorf("%w: require_known needs a lexicon", config.ErrInvalidConfig)
		}
		e.Generated = correction.NewVariants(cfg.VariantConfig(), lexicon)
	}
	return e, nil
}

// Catalog chains the file entries and generated variants.
func (e *Engine) Catalog() correction.Catalog {
	if e.Generated == nil {
		return e.Corrections
	}
	return correction.Chain{e.Corrections, e.Generated}
}
