package recorder

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"

	"github.com/yanun0323/errors"
)

// Writer appends events to a JSON-line file. Safe for concurrent use.
type Writer struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
}

// NewWriter opens or creates the log file in append mode.
func NewWriter(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open event log").With("path", path)
	}
	return &Writer{file: file, buf: bufio.NewWriter(file)}, nil
}

// Write appends one event as a single JSON line.
func (w *Writer) Write(e Event) error {
	if w == nil {
		return nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.buf.Write(data); err != nil {
		return errors.Wrap(err, "write event")
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "write event")
	}
	return nil
}

// Flush pushes buffered events to disk.
func (w *Writer) Flush() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Flush()
}

// Close flushes and closes the log file.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.buf.Flush(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
