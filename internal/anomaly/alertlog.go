package anomaly

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Entry is one record of the append-only alert log.
type Entry struct {
	Timestamp      time.Time      `json:"timestamp"`
	Severity       string         `json:"severity"`
	Metric         string         `json:"metric_name"`
	Classification Classification `json:"classification"`
	Message        string         `json:"message"`
	Notified       bool           `json:"notified"`
}

// Log is a thread-safe, append-only JSONL alert log. Entries are only ever
// appended; the file is the single piece of persistence in the engine.
type Log struct {
	mu   sync.Mutex
	path string
}

// NewLog creates a log backed by the given file path. The file is created on
// first append.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes one entry as a JSON line.
func (l *Log) Append(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open alert log: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal alert entry: %w", err)
	}
	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append alert entry: %w", err)
	}
	return nil
}

// Load reads all entries in append order. A missing file is an empty log, not
// an error.
func (l *Log) Load() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open alert log: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			log.Warn().Err(err).Str("path", l.path).Msg("Skipping corrupt alert log line")
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan alert log: %w", err)
	}
	return entries, nil
}
