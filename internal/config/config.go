// Package config loads the process configuration from .env files and
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"flowcast/internal/flow"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath    string
	SnapshotDir string
	LogDir      string

	Cadence               flow.Cadence
	NumTrials             int
	ProjectTrailingWindow int
	TeamTrailingWindow    int
	TeamLookbackPeriods   int
	MaxConcurrentProjects int

	MetricsAddr string

	NotifyRecipient     string
	NotifyRecipientName string
	DeepLinkBase        string
}

// Load layers .env files (binary directory first, then working directory)
// under plain environment variables.
func Load() (*AppConfig, error) {
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	snapshotDir := getEnv("SNAPSHOT_DIR", filepath.Join(dataPath, "snapshots"))
	logDir := filepath.Join(dataPath, "logs")

	cfg := &AppConfig{
		DataPath:              dataPath,
		SnapshotDir:           snapshotDir,
		LogDir:                logDir,
		Cadence:               flow.Cadence(getEnv("CADENCE", string(flow.CadenceWeek))),
		NumTrials:             getEnvInt("NUM_TRIALS", 5000),
		ProjectTrailingWindow: getEnvInt("PROJECT_TRAILING_WINDOW", 10),
		TeamTrailingWindow:    getEnvInt("TEAM_TRAILING_WINDOW", 20),
		TeamLookbackPeriods:   getEnvInt("TEAM_LOOKBACK_PERIODS", 20),
		MaxConcurrentProjects: getEnvInt("MAX_CONCURRENT_PROJECTS", 4),
		MetricsAddr:           getEnv("METRICS_ADDR", ""),
		NotifyRecipient:       getEnv("NOTIFY_RECIPIENT", ""),
		NotifyRecipientName:   getEnv("NOTIFY_RECIPIENT_NAME", ""),
		DeepLinkBase:          getEnv("DEEP_LINK_BASE", ""),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
