package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// New returns a stdlib-backed bootstrap logger with component prefix.
// It is used before the structured logger exists (config loading, CLI setup).
func New(component string) *log.Logger {
	return NewWithWriter(os.Stderr, component)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, component string) *log.Logger {
	prefix := fmt.Sprintf("[%s] ", component)
	return log.New(w, prefix, log.LstdFlags|log.Lmsgprefix)
}
