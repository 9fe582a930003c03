// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ------------------- global loggers -------------------

// four logger levels accessible throughout the application
var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

// logFile is the currently open log file, if any.
var logFile *os.File

// ------------------- logger initialization -------------------

// InitLogger (re)configures the logging system. It:
// - Always writes to stdout.
// - When dir is non-empty, ensures it exists and also writes to a timestamped
//   log file inside it.
// - Configures separate loggers (Info, Warn, Error, Debug) with consistent prefixes & flags.
func InitLogger(dir string) error {
	var out io.Writer = os.Stdout

	if dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
		name := filepath.Join(dir, time.Now().Format("2006-01-02_15-04-05")+".log")
		file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec
		if err != nil {
			return err
		}
		if logFile != nil {
			_ = logFile.Close()
		}
		logFile = file
		out = io.MultiWriter(os.Stdout, file)
	}

	SetOutput(out)
	return nil
}

// SetOutput points every logger at w. Tests use it to capture or silence output.
func SetOutput(w io.Writer) {
	Info = log.New(w, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	Warn = log.New(w, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(w, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	Debug = log.New(w, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// SetLogLevel adjusts the Debug logger's output depending on environment.
// Production discards debug output entirely.
func SetLogLevel(env string) {
	if env == "production" {
		Debug.SetOutput(io.Discard)
	}
}

// Close releases the log file opened by InitLogger.
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// init wires stdout-only loggers so packages can log before main configures a file.
func init() {
	SetOutput(os.Stdout)
}
