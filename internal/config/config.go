package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/ligjet/internal/locale"
	"github.com/dgallion1/ligjet/internal/rank"
	"github.com/dgallion1/ligjet/internal/relay"
	"github.com/dgallion1/ligjet/internal/segment"
)

// DefaultTuningFile is read when LIGJET_CONFIG is unset and the file exists.
const DefaultTuningFile = "ligjet.yaml"

type Config struct {
	Port string

	// Auth for upload and delete
	APIKey string

	// Gemini generation
	GeminiAPIKey string
	GeminiModel  string
	RelayTimeout time.Duration

	// Law library
	LawsDir         string
	LoadConcurrency int

	// Upload limits
	MaxUploadBytes int64

	CORSOrigins []string

	Tuning Tuning
}

// Tuning holds the segmentation, ranking and language settings that may
// also come from a YAML file.
type Tuning struct {
	Segment SegmentTuning `yaml:"segment"`
	Rank    RankTuning    `yaml:"rank"`
	Locale  string        `yaml:"locale"`
}

type SegmentTuning struct {
	ChunkSize int `yaml:"chunk_size"`
}

type RankTuning struct {
	Budget         int  `yaml:"budget"`
	Top            int  `yaml:"top"`
	FoldDiacritics bool `yaml:"fold_diacritics"`
}

func Load() (Config, error) {
	cfg := Config{
		Port: envOr("PORT", "3001"),

		APIKey: os.Getenv("LIGJET_API_KEY"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", relay.DefaultModel),
		RelayTimeout: envDuration("RELAY_TIMEOUT", 60*time.Second),

		LawsDir:         envOr("LAWS_DIR", "./data/laws"),
		LoadConcurrency: envInt("LOAD_CONCURRENCY", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20<<20), // 20MB

		CORSOrigins: splitList(envOr("CORS_ORIGINS", "*")),

		Tuning: Tuning{
			Segment: SegmentTuning{ChunkSize: envInt("CHUNK_SIZE", segment.DefaultChunkSize)},
			Rank: RankTuning{
				Budget:         envInt("CONTEXT_BUDGET", rank.DefaultBudget),
				Top:            envInt("TOP_ARTICLES", rank.DefaultTop),
				FoldDiacritics: envBool("FOLD_DIACRITICS", false),
			},
			Locale: envOr("LOCALE", "en"),
		},
	}

	path, explicit := os.LookupEnv("LIGJET_CONFIG")
	if !explicit || path == "" {
		path, explicit = DefaultTuningFile, false
	}
	if err := cfg.Tuning.LoadFile(path, explicit); err != nil {
		return cfg, err
	}

	if cfg.LoadConcurrency <= 0 {
		cfg.LoadConcurrency = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	if cfg.RelayTimeout < 0 {
		cfg.RelayTimeout = 60 * time.Second
	}

	return cfg, nil
}

// LoadFile overlays the keys present in a YAML file. A missing file is an
// error only when required is set.
func (t *Tuning) LoadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	return nil
}

// Validate checks settings the server cannot run without.
func (c Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return c.Tuning.Validate()
}

// Validate rejects non-positive tuning values.
func (t Tuning) Validate() error {
	if t.Segment.ChunkSize <= 0 {
		return fmt.Errorf("segment.chunk_size must be positive, got %d", t.Segment.ChunkSize)
	}
	if t.Rank.Budget <= 0 {
		return fmt.Errorf("rank.budget must be positive, got %d", t.Rank.Budget)
	}
	if t.Rank.Top <= 0 {
		return fmt.Errorf("rank.top must be positive, got %d", t.Rank.Top)
	}
	return nil
}

// Labels returns the label preset for the configured locale.
func (t Tuning) Labels() locale.Labels {
	return locale.Lookup(t.Locale)
}

// SegmentConfig builds segmenter settings with localized synthesized titles.
func (t Tuning) SegmentConfig() segment.Config {
	labels := t.Labels()
	return segment.Config{
		ChunkSize:     t.Segment.ChunkSize,
		PreambleTitle: labels.PreambleTitle,
		ChunkTitle:    labels.ChunkTitle,
	}
}

// RankConfig builds ranker settings with the localized header and fallback.
func (t Tuning) RankConfig() rank.Config {
	labels := t.Labels()
	return rank.Config{
		Top:            t.Rank.Top,
		Budget:         t.Rank.Budget,
		FoldDiacritics: t.Rank.FoldDiacritics,
		Header:         labels.ContextHeader,
		NoMatch:        labels.NoMatch,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
