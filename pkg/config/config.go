// Package config reads parser settings from the environment, after loading
// a .env file from the working directory when one exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/k12grader/parser/pkg/answers"
	"github.com/k12grader/parser/pkg/paper"
	"github.com/k12grader/parser/pkg/pipeline"
	"github.com/k12grader/parser/pkg/sections"
)

// ErrInvalid marks an environment value that could not be parsed.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Blueprint        string  // PARSER_BLUEPRINT: JSON blueprint file, empty for the built-in one
	PaperCacheSize   int     // PARSER_PAPER_CACHE_SIZE
	MCQLineRatio     float64 // PARSER_MCQ_LINE_RATIO
	FlatDefaultMarks int     // PARSER_FLAT_DEFAULT_MARKS
	Workers          int     // PARSER_WORKERS: concurrent submissions in batch mode
	Verbose          bool    // PARSER_VERBOSE
}

// Load reads .env (if present) and the PARSER_* variables.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the PARSER_* variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Blueprint:        strings.TrimSpace(os.Getenv("PARSER_BLUEPRINT")),
		PaperCacheSize:   pipeline.DefaultCacheSize,
		MCQLineRatio:     answers.DefaultMCQLineRatio,
		FlatDefaultMarks: paper.DefaultFlatMarks,
		Workers:          runtime.NumCPU(),
	}

	var err error
	if cfg.PaperCacheSize, err = intEnv("PARSER_PAPER_CACHE_SIZE", cfg.PaperCacheSize); err != nil {
		return nil, err
	}
	if cfg.MCQLineRatio, err = floatEnv("PARSER_MCQ_LINE_RATIO", cfg.MCQLineRatio); err != nil {
		return nil, err
	}
	if cfg.MCQLineRatio <= 0 || cfg.MCQLineRatio > 1 {
		return nil, fmt.Errorf("%w: PARSER_MCQ_LINE_RATIO must be in (0, 1], got %v", ErrInvalid, cfg.MCQLineRatio)
	}
	if cfg.FlatDefaultMarks, err = intEnv("PARSER_FLAT_DEFAULT_MARKS", cfg.FlatDefaultMarks); err != nil {
		return nil, err
	}
	if cfg.Workers, err = intEnv("PARSER_WORKERS", cfg.Workers); err != nil {
		return nil, err
	}
	if raw := strings.TrimSpace(os.Getenv("PARSER_VERBOSE")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: PARSER_VERBOSE: %v", ErrInvalid, err)
		}
		cfg.Verbose = v
	}
	return cfg, nil
}

// Table builds the section rule table, loading the blueprint file if set.
func (c *Config) Table() (*sections.Table, error) {
	if c.Blueprint == "" {
		return sections.NewTable(sections.DefaultBlueprint())
	}
	bp, err := sections.LoadBlueprint(c.Blueprint)
	if err != nil {
		return nil, err
	}
	return sections.NewTable(bp)
}

// PipelineOptions maps the settings onto pipeline options.
func (c *Config) PipelineOptions(table *sections.Table) pipeline.Options {
	return pipeline.Options{
		Table:     table,
		CacheSize: c.PaperCacheSize,
		Paper:     paper.Options{FlatDefaultMarks: c.FlatDefaultMarks},
		Answers:   answers.Options{MCQLineRatio: c.MCQLineRatio},
	}
}

// intEnv returns def when key is unset; a set value must be a positive integer.
func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalid, key, raw)
	}
	return v, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return v, nil
}
