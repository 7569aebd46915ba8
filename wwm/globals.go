package internal

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultConfigPath is the default path to the config file
	DefaultAppName        = "wholeword"
	DefaultAppCMDShortCut = "wwm"
	DefaultConfigPath     = filepath.Join(getHomeDir(), ".config", DefaultAppName)

	// Default masking settings, matching the common MLM recipe
	DefaultMaskProbability = 0.15
	DefaultMaxPredictions  = 512

	// DefaultBoundaryMarker is the SentencePiece word-boundary prefix.
	// Tokenizers without this convention degrade to near-random masking.
	DefaultBoundaryMarker = "▁"

	// IgnoreIndex marks label positions excluded from loss computation.
	IgnoreIndex = int64(-100)
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current working directory if home directory is unavailable
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return "/tmp"
		}
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
