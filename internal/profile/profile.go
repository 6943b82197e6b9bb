package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where peakform stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your peakform instance.
	InstanceURL string

	// AI Configuration
	AIEnabled           bool   // PEAKFORM_AI_ENABLED
	AIEmbeddingProvider string // PEAKFORM_AI_EMBEDDING_PROVIDER (default: openai)
	AIAPIKey            string // PEAKFORM_AI_API_KEY
	AIBaseURL           string // PEAKFORM_AI_BASE_URL (default: https://api.openai.com/v1)
	AIEmbeddingModel    string // PEAKFORM_AI_EMBEDDING_MODEL (default: text-embedding-3-small)
	AIEmbeddingDim      int    // PEAKFORM_AI_EMBEDDING_DIM (default: 1024)

	// Memory Engine Configuration
	ContextRecordLimit   int // PEAKFORM_CONTEXT_RECORD_LIMIT (default: 200, per source category)
	MemoryRetentionDays  int // PEAKFORM_MEMORY_RETENTION_DAYS (default: 30, historical memories)
	ProvenanceWindowDays int // PEAKFORM_PROVENANCE_WINDOW_DAYS (default: 7)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI features are enabled and an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvOrDefault returns the environment variable parsed as int, or the default value.
func getIntEnvOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer environment variable, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

// FromEnv loads AI and engine configuration from PEAKFORM_* environment variables.
func (p *Profile) FromEnv() {
	p.AIEnabled = os.Getenv("PEAKFORM_AI_ENABLED") == "true"
	p.AIEmbeddingProvider = getEnvOrDefault("PEAKFORM_AI_EMBEDDING_PROVIDER", "openai")
	p.AIAPIKey = os.Getenv("PEAKFORM_AI_API_KEY")
	p.AIBaseURL = getEnvOrDefault("PEAKFORM_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIEmbeddingModel = getEnvOrDefault("PEAKFORM_AI_EMBEDDING_MODEL", "text-embedding-3-small")
	p.AIEmbeddingDim = getIntEnvOrDefault("PEAKFORM_AI_EMBEDDING_DIM", 1024)

	p.ContextRecordLimit = getIntEnvOrDefault("PEAKFORM_CONTEXT_RECORD_LIMIT", 200)
	p.MemoryRetentionDays = getIntEnvOrDefault("PEAKFORM_MEMORY_RETENTION_DAYS", 30)
	p.ProvenanceWindowDays = getIntEnvOrDefault("PEAKFORM_PROVENANCE_WINDOW_DAYS", 7)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "peakform")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/peakform"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("peakform_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.ContextRecordLimit <= 0 {
		p.ContextRecordLimit = 200
	}
	if p.MemoryRetentionDays <= 0 {
		p.MemoryRetentionDays = 30
	}
	if p.ProvenanceWindowDays <= 0 {
		p.ProvenanceWindowDays = 7
	}

	return nil
}
