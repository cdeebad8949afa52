// Package alertlog persists fired alerts to an append-only JSON log,
// de-duplicated by (symbol, calendar day).
package alertlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	apperrors "price-stalker/internal/errors"
	"price-stalker/internal/models"
)

// Log is the alert log file. There is a single writer (this process) and
// each cycle performs one read-merge-rewrite within a synchronous scope,
// so no file locking is needed.
type Log struct {
	path   string
	logger zerolog.Logger
}

// New creates an alert log backed by the file at path.
func New(path string, logger zerolog.Logger) *Log {
	return &Log{
		path:   path,
		logger: logger.With().Str("component", "alertlog").Logger(),
	}
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Load reads all persisted alert records. An absent file yields an empty
// log; unreadable content yields ErrLogCorrupted.
func (l *Log) Load() ([]models.AlertRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLogCorrupted, err)
	}

	var records []models.AlertRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLogCorrupted, err)
	}
	return records, nil
}

// Append merges the candidate records into the log and rewrites the whole
// file. A candidate whose (symbol, day) pair already exists is suppressed.
// Returns the number of new records written. A corrupted existing log is
// treated as empty so alerts are never blocked; a warning is logged.
func (l *Log) Append(records []models.AlertRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	existing, err := l.Load()
	if err != nil {
		l.logger.Warn().Err(err).Msg("alert log unreadable, treating as empty")
		existing = nil
	}

	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.DedupKey()] = true
	}

	added := 0
	for _, r := range records {
		key := r.DedupKey()
		if seen[key] {
			continue
		}
		existing = append(existing, r)
		seen[key] = true
		added++
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(existing); err != nil {
		return 0, fmt.Errorf("encoding alert log: %w", err)
	}
	if err := os.WriteFile(l.path, buf.Bytes(), 0644); err != nil {
		return 0, fmt.Errorf("writing alert log: %w", err)
	}

	return added, nil
}
