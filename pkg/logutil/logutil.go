// Package logutil provides logging utilities.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	out     io.Writer = io.Discard
	outFile *os.File
	loggers []*log.Logger
)

// GetLogger gets a logger with a prefix. Its output is discarded until
// redirected by SetOutput or SetOutputFile.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers, including those to be
// created in the future, to the given Writer.
func SetOutput(newout io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile is like SetOutput, but opens the named file for appending
// first. An empty name reverts all loggers to discard their output.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	outFile = file
	out = file
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
	return nil
}

func closeFile() {
	if outFile != nil {
		outFile.Close()
		outFile = nil
	}
}
