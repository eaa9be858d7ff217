// Package logging sets up the standard logger and the rotating log that
// records sentences which failed to decode.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation controls the failed-decode log file.
type Rotation struct {
	MaxSizeMB  int  `json:"max_size_mb"`
	MaxBackups int  `json:"max_backups"`
	MaxAgeDays int  `json:"max_age_days"`
	Compress   bool `json:"compress"`
}

// DefaultRotation keeps a few small files around.
var DefaultRotation = Rotation{MaxSizeMB: 32, MaxBackups: 3, MaxAgeDays: 14}

// FailedDecodeLog writes one line per rejected sentence or message.
type FailedDecodeLog struct {
	*log.Logger
	w io.WriteCloser
}

// OpenFailedDecodeLog opens path, resolved against dir when relative.
// An empty path gives a log that discards everything.
func OpenFailedDecodeLog(dir, path string, rot Rotation) *FailedDecodeLog {
	if path == "" {
		return &FailedDecodeLog{Logger: log.New(io.Discard, "", 0)}
	}
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}
	if rot.MaxSizeMB == 0 {
		rot = DefaultRotation
	}
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rot.MaxSizeMB, // MB
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		Compress:   rot.Compress,
	}
	return &FailedDecodeLog{
		Logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		w:      w,
	}
}

// Failure records err against the raw input.
func (l *FailedDecodeLog) Failure(err error, raw string) {
	l.Printf("decode failure: %v | raw: %s", err, raw)
}

// Close flushes and closes the underlying file.
func (l *FailedDecodeLog) Close() error {
	if l.w == nil {
		return nil
	}
	return l.w.Close()
}

// Setup configures the standard logger. Library packages given a nil
// logger fall back to it.
func Setup(prefix string, debug bool) {
	log.SetOutput(os.Stderr)
	flags := log.LstdFlags
	if debug {
		flags |= log.Lmicroseconds | log.Lshortfile
	}
	log.SetFlags(flags)
	log.SetPrefix(prefix)
}

// Debugf logs with a [DEBUG] prefix when enabled.
func Debugf(enabled bool, format string, args ...interface{}) {
	if enabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}
