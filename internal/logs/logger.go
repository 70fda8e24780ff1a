package logs

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFileName = "agesync.log"

var (
	Logger  *zap.SugaredLogger
	base    *zap.Logger
	logFile *os.File
	mu      sync.Mutex
)

// This runs automatically when the package is imported.
// Logs go to stderr until Initialize is called.
func init() {
	base = zap.New(stderrCore(zapcore.InfoLevel))
	Logger = base.Sugar()
}

func stderrCore(level zapcore.Level) zapcore.Core {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), level)
}

func fileCore(f *os.File, level zapcore.Level) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(f), level)
}

// Initialize rebuilds the logger. With a logDir, JSON logs are also appended
// to logDir/agesync.log. verbose lowers the level to debug.
func Initialize(logDir string, verbose bool) error {
	mu.Lock()
	defer mu.Unlock()

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cores := []zapcore.Core{stderrCore(level)}
	var f *os.File
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}
		logPath := filepath.Join(logDir, logFileName)
		var err error
		f, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			Logger.Warnw("failed to open log file", "path", logPath, "error", err)
			return err
		}
		cores = append(cores, fileCore(f, level))
	}

	_ = base.Sync()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	base = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	Logger = base.Sugar()

	if f != nil {
		Logger.Debugw("logging to file", "path", f.Name())
	}
	return nil
}

// Use swaps in a logger, mostly for tests. It returns a function that
// restores the previous one.
func Use(l *zap.Logger) func() {
	mu.Lock()
	defer mu.Unlock()

	prevBase, prev := base, Logger
	base = l
	Logger = l.Sugar()
	return func() {
		mu.Lock()
		defer mu.Unlock()
		base, Logger = prevBase, prev
	}
}

// Close flushes buffered entries and closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	_ = base.Sync()
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}
