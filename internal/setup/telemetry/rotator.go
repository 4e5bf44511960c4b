package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// lineCappedFile is a log sink that keeps its file at roughly maxLines
// lines. Writes append as usual; once twice the cap has accumulated, the
// file is rewritten with only the most recent lines. A cap of zero or less
// disables the rewrite and the sink behaves like a plain append file.
type lineCappedFile struct {
	mu       sync.Mutex
	file     *os.File
	path     string
	maxLines int
	recent   []string
	written  int
}

func newLineCappedFile(path string, maxLines int) (*lineCappedFile, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	return &lineCappedFile{
		file:     file,
		path:     path,
		maxLines: maxLines,
	}, nil
}

// Write implements io.Writer.
func (f *lineCappedFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, err := f.file.Write(p)
	if err != nil {
		return n, err
	}

	if f.maxLines <= 0 {
		return n, nil
	}

	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}

		f.recent = append(f.recent, line)
		if len(f.recent) > f.maxLines {
			f.recent = f.recent[len(f.recent)-f.maxLines:]
		}

		f.written++
	}

	if f.written >= f.maxLines*2 {
		if err := f.compact(); err != nil {
			return n, fmt.Errorf("compact log file: %w", err)
		}

		f.written = len(f.recent)
	}

	return n, nil
}

// Sync flushes the underlying file, satisfying zapcore.WriteSyncer.
func (f *lineCappedFile) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.file.Sync()
}

// compact rewrites the file with only the retained lines and reopens it for
// appending. Written via a temp file so a crash never loses the log.
func (f *lineCappedFile) compact() error {
	temp, err := os.CreateTemp(filepath.Dir(f.path), "log-compact-")
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	content := strings.Join(f.recent, "\n") + "\n"
	if _, err := temp.WriteString(content); err != nil {
		temp.Close()
		os.Remove(tempPath)

		return err
	}

	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	f.file.Close()

	if err := os.Rename(tempPath, f.path); err != nil {
		return err
	}

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	f.file = file

	return nil
}
