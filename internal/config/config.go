package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jthorne/pdfoutline/internal/outline"
)

type Config struct {
	Port string

	// Auth for the HTTP API.
	APIKey string

	// Batch mode directories.
	InputDir  string
	OutputDir string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Per-document processing bound.
	DocTimeout time.Duration

	// Heading detection thresholds.
	FontClusterTolerance float64
	MaxHeadingWords      int
	MaxHeadingLength     int
	RepeatHeaderPages    int
	AmbiguityThreshold   float64
	TitlePageSpan        int

	// External scorer
	ScorerURL     string
	ScorerAPIKey  string
	ScorerTimeout time.Duration

	// Calibration table of verified documents.
	KnownOutlinesPath string

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	def := outline.DefaultOptions()

	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("OUTLINE_API_KEY"),

		InputDir:  envOr("INPUT_DIR", "input"),
		OutputDir: envOr("OUTPUT_DIR", "output"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL:     envDuration("JOB_TTL", 1*time.Hour),
		DocTimeout: envDuration("DOC_TIMEOUT", 30*time.Second),

		FontClusterTolerance: envFloat("FONT_CLUSTER_TOLERANCE", def.FontClusterTolerance),
		MaxHeadingWords:      envInt("MAX_HEADING_WORDS", def.MaxHeadingWords),
		MaxHeadingLength:     envInt("MAX_HEADING_LENGTH", def.MaxHeadingLength),
		RepeatHeaderPages:    envInt("REPEAT_HEADER_PAGES", def.RepeatHeaderPages),
		AmbiguityThreshold:   envFloat("AMBIGUITY_THRESHOLD", def.AmbiguityThreshold),
		TitlePageSpan:        envInt("TITLE_PAGE_SPAN", def.TitlePageSpan),

		ScorerURL:     os.Getenv("SCORER_URL"),
		ScorerAPIKey:  os.Getenv("SCORER_API_KEY"),
		ScorerTimeout: envDuration("SCORER_TIMEOUT", 10*time.Second),

		KnownOutlinesPath: os.Getenv("KNOWN_OUTLINES_PATH"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.DocTimeout <= 0 {
		cfg.DocTimeout = 30 * time.Second
	}
	if cfg.ScorerTimeout <= 0 {
		cfg.ScorerTimeout = 10 * time.Second
	}

	return cfg
}

// Validate checks the keys the HTTP service cannot run without. Batch
// mode has no required keys.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OUTLINE_API_KEY is required")
	}
	return nil
}

// OutlineOptions maps the detection thresholds into the engine's
// option set.
func (c Config) OutlineOptions() outline.Options {
	return outline.Options{
		FontClusterTolerance: c.FontClusterTolerance,
		MaxHeadingWords:      c.MaxHeadingWords,
		MaxHeadingLength:     c.MaxHeadingLength,
		RepeatHeaderPages:    c.RepeatHeaderPages,
		AmbiguityThreshold:   c.AmbiguityThreshold,
		TitlePageSpan:        c.TitlePageSpan,
	}
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

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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
