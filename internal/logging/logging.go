package logging

import (
	"io"
	"log"
	"os"
)

var (
	Debug   = log.New(io.Discard, "", 0)
	Scanner = log.New(io.Discard, "", 0)
	Delete  = log.New(io.Discard, "", 0)
	Enabled bool
)

// Setup routes the loggers to path when enabled. The returned func closes
// the log file; it is safe to call when logging is disabled.
func Setup(enabled bool, path string) func() error {
	if !enabled {
		Debug.SetOutput(io.Discard)
		Scanner.SetOutput(io.Discard)
		Delete.SetOutput(io.Discard)
		Enabled = false
		return func() error { return nil }
	}

	Enabled = true

	// Open the log once for all loggers
	debugFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		// Fallback to stderr if we can't open the file
		Debug = log.New(os.Stderr, "[DEBUG] ", log.Ldate|log.Ltime)
		Scanner = log.New(os.Stderr, "[SCANNER] ", log.Ldate|log.Ltime)
		Delete = log.New(os.Stderr, "[DELETE] ", log.Ldate|log.Ltime)
		Debug.Printf("could not open %s: %v", path, err)
		return func() error { return nil }
	}

	Debug = log.New(debugFile, "", log.Lmicroseconds)
	Scanner = log.New(debugFile, "scan ", log.Lmicroseconds)
	Delete = log.New(debugFile, "delete ", log.Lmicroseconds)
	return debugFile.Close
}
