package internal

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultAppName is used for config lookup paths and env prefixes
	DefaultAppName    = "molenc"
	DefaultConfigPath = filepath.Join(getHomeDir(), ".config", DefaultAppName)

	// Encoder defaults
	DefaultPadLength = 120
	DefaultOverflow  = "truncate"
	DefaultLogEvery  = 1000

	// Charset store defaults
	DefaultStoreDSN    = "file::memory:?cache=shared" // Default to in-memory SQLite
	DefaultStoreType   = "libsql"
	DefaultCharsetName = "default"
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
