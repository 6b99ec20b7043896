package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLogger manages logging to a file with fallback to stdout.
type FileLogger struct {
	logFile     *os.File
	logger      *log.Logger
	mu          sync.Mutex
	logDir      string
	fileName    string
	useFallback bool
}

var (
	globalFileLogger *FileLogger
	globalLoggerMu   sync.RWMutex
)

// LogLevel represents the severity of a log message.
type LogLevel string

const (
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelDebug LogLevel = "DEBUG"
)

// InitFileLogger initializes the global file logger.
// If the log directory doesn't exist and can't be created, falls back to stdout.
func InitFileLogger(logDir, fileName string) error {
	fl := &FileLogger{
		logDir:   logDir,
		fileName: fileName,
	}

	file, err := initLogFile(logDir, fileName, os.O_APPEND)
	if err != nil {
		// File initialization failed - fall back to stdout
		log.Printf("WARNING: Failed to initialize log file: %v", err)
		log.Printf("WARNING: Falling back to stdout for logging")
		fl.useFallback = true
		fl.logger = log.New(os.Stdout, "", 0) // timestamps added in Log
		initGlobalFileLogger(fl)
		return nil
	}

	fl.logFile = file
	fl.logger = log.New(file, "", 0)

	initGlobalFileLogger(fl)
	return nil
}

// initLogFile creates the log directory if needed and opens the log file.
// No fallback behavior here - callers decide whether to fall back to stdout.
func initLogFile(logDir, fileName string, flags int) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, fileName)
	file, err := os.OpenFile(logPath, flags|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, nil
}

// Log writes a log message with the specified level and category.
func (fl *FileLogger) Log(level LogLevel, category, format string, args ...interface{}) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	timestamp := time.Now().UTC().Format(time.RFC3339)
	message := fmt.Sprintf(format, args...)

	fl.logger.Printf("[%s] [%s] [%s] %s", timestamp, level, category, message)

	// Flush immediately so other processes can tail the log
	if fl.logFile != nil {
		if err := fl.logFile.Sync(); err != nil {
			log.Printf("WARNING: Failed to sync log file: %v", err)
		}
	}
}

// Close closes the log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.logFile == nil {
		return nil
	}

	// Sync errors are logged but don't prevent closing; resources must be
	// released either way.
	if err := fl.logFile.Sync(); err != nil {
		log.Printf("WARNING: Failed to sync log file before close: %v", err)
	}
	return fl.logFile.Close()
}

// GetWriter returns the underlying io.Writer for the file logger.
func (fl *FileLogger) GetWriter() io.Writer {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.logFile != nil {
		return fl.logFile
	}
	return os.Stdout
}

func initGlobalFileLogger(fl *FileLogger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()

	if globalFileLogger != nil {
		globalFileLogger.Close()
	}
	globalFileLogger = fl
}

// CloseGlobalLogger closes the global file logger.
func CloseGlobalLogger() error {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()

	if globalFileLogger != nil {
		err := globalFileLogger.Close()
		globalFileLogger = nil
		return err
	}
	return nil
}

// Global logging functions that use the global file logger.

// LogInfo logs an informational message.
func LogInfo(category, format string, args ...interface{}) {
	logGlobal(LogLevelInfo, category, format, args...)
}

// LogWarn logs a warning message.
func LogWarn(category, format string, args ...interface{}) {
	logGlobal(LogLevelWarn, category, format, args...)
}

// LogError logs an error message.
func LogError(category, format string, args ...interface{}) {
	logGlobal(LogLevelError, category, format, args...)
}

// LogDebug logs a debug message.
func LogDebug(category, format string, args ...interface{}) {
	logGlobal(LogLevelDebug, category, format, args...)
}

func logGlobal(level LogLevel, category, format string, args ...interface{}) {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()

	if globalFileLogger != nil {
		globalFileLogger.Log(level, category, format, args...)
	}
}
