// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr      string
	DBPath          string
	BackupPath      string
	MaxStorageBytes int64
	MaxScans        int
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional and fall back to defaults:
// IDSCANPRO_LISTEN_ADDR (127.0.0.1:8080), IDSCANPRO_DB_PATH (idscanpro.db),
// IDSCANPRO_BACKUP_PATH (idscanpro-backup.bolt), IDSCANPRO_MAX_STORAGE_BYTES (50 MiB),
// IDSCANPRO_RETENTION_MAX_SCANS (1000).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("IDSCANPRO_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "idscanpro.db"
	if v, ok := os.LookupEnv("IDSCANPRO_DB_PATH"); ok {
		dbPath = v
	}

	backupPath := "idscanpro-backup.bolt"
	if v, ok := os.LookupEnv("IDSCANPRO_BACKUP_PATH"); ok {
		backupPath = v
	}

	var maxStorageBytes int64
	if v, ok := os.LookupEnv("IDSCANPRO_MAX_STORAGE_BYTES"); ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("IDSCANPRO_MAX_STORAGE_BYTES has invalid value %q: must be a positive integer", v)
		}
		maxStorageBytes = parsed
	}

	maxScans := 0
	if v, ok := os.LookupEnv("IDSCANPRO_RETENTION_MAX_SCANS"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("IDSCANPRO_RETENTION_MAX_SCANS has invalid value %q: must be a positive integer", v)
		}
		maxScans = parsed
	}

	return &Config{
		ListenAddr:      listenAddr,
		DBPath:          dbPath,
		BackupPath:      backupPath,
		MaxStorageBytes: maxStorageBytes,
		MaxScans:        maxScans,
	}, nil
}
