// Package logging writes structured, rotated log files for jot. The terminal
// belongs to the UI, so nothing is ever written to stdout or stderr.
package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures a file logger.
type Options struct {
	Path    string
	Verbose bool
}

// Logger is a module-tagged wrapper around zap. A nil *Logger discards
// everything, so components can accept one optionally.
type Logger struct {
	logger   *zap.Logger
	filePath string
}

// New builds a JSON logger writing to a lumberjack-rotated file. An empty
// path yields a no-op logger.
func New(opts Options) (*Logger, error) {
	if opts.Path == "" {
		return Nop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: create log dir: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zap.InfoLevel
	if opts.Verbose {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		level,
	)

	return &Logger{
		logger:   zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
		filePath: opts.Path,
	}, nil
}

// Nop returns a logger that drops every entry.
func Nop() *Logger {
	return &Logger{logger: zap.NewNop()}
}

// Path reports the backing file, empty for a no-op logger.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.filePath
}

func (l *Logger) Debug(module, message string, details map[string]any) {
	l.write(zapcore.DebugLevel, module, message, details)
}

func (l *Logger) Info(module, message string, details map[string]any) {
	l.write(zapcore.InfoLevel, module, message, details)
}

func (l *Logger) Warn(module, message string, details map[string]any) {
	l.write(zapcore.WarnLevel, module, message, details)
}

func (l *Logger) Error(module, message string, details map[string]any) {
	l.write(zapcore.ErrorLevel, module, message, details)
}

func (l *Logger) write(level zapcore.Level, module, message string, details map[string]any) {
	if l == nil || l.logger == nil {
		return
	}
	ce := l.logger.Check(level, message)
	if ce == nil {
		return
	}
	fields := make(map[string]any, len(details))
	for k, v := range details {
		fields[k] = v
	}
	// zap.Any on an error value inside a map renders as {}; flatten it.
	if err, ok := fields["error"].(error); ok {
		fields["error"] = err.Error()
	}
	ce.Write(zap.String("module", module), zap.Any("details", fields))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	if l == nil || l.logger == nil {
		return nil
	}
	return l.logger.Sync()
}

// Entry is one decoded line of the log file.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Module    string         `json:"module,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Entries reads the current log file newest first. level filters on the
// encoded level name (for example "WARN"); limit <= 0 returns everything.
func (l *Logger) Entries(level string, limit int) ([]Entry, error) {
	return ReadEntries(l.Path(), level, limit)
}

// ReadEntries is Entries for an arbitrary log file.
func ReadEntries(path, level string, limit int) ([]Entry, error) {
	if path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if level != "" && entry.Level != level {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
