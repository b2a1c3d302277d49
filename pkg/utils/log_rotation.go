package utils

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// RotationConfig configures a RotatingFile.
type RotationConfig struct {
	// Path is the active log file.
	Path string

	// MaxSize is the size in bytes at which the file is rotated.
	MaxSize int64

	// MaxBackups is the number of rotated files kept as Path.1 ... Path.N.
	// 0 keeps none.
	MaxBackups int

	// Compress gzips rotated files.
	Compress bool
}

// RotatingFile is an io.WriteCloser that rotates Path once it reaches
// MaxSize. Path.1 is always the most recent backup. It is safe for concurrent
// use.
type RotatingFile struct {
	mu     sync.Mutex
	config RotationConfig
	file   *os.File
	size   int64
}

// NewRotatingFile opens (or creates) cfg.Path for appending.
func NewRotatingFile(cfg RotationConfig) (*RotatingFile, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("log path is required")
	}
	if cfg.MaxSize <= 0 {
		return nil, fmt.Errorf("max size must be greater than 0")
	}
	if cfg.MaxBackups < 0 {
		return nil, fmt.Errorf("max backups cannot be negative")
	}

	rf := &RotatingFile{config: cfg}
	if err := rf.open(); err != nil {
		return nil, err
	}
	return rf, nil
}

// Write implements io.Writer. A single write larger than MaxSize goes to a
// fresh file and is not split. When rotation fails p is still appended to the
// active file and the rotation error is returned.
func (rf *RotatingFile) Write(p []byte) (int, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return 0, os.ErrClosed
	}
	var rotateErr error
	if rf.size > 0 && rf.size+int64(len(p)) > rf.config.MaxSize {
		if err := rf.rotate(); err != nil {
			rotateErr = fmt.Errorf("failed to rotate log: %w", err)
			if rf.file == nil {
				return 0, rotateErr
			}
		}
	}

	n, err := rf.file.Write(p)
	rf.size += int64(n)
	if err == nil {
		err = rotateErr
	}
	return n, err
}

// Close closes the active file.
func (rf *RotatingFile) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return nil
	}
	err := rf.file.Close()
	rf.file = nil
	return err
}

// Rotate rotates the file now regardless of its size.
func (rf *RotatingFile) Rotate() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()
	return rf.rotate()
}

// rotate must be called with rf.mu held. The active file is reopened even
// when shifting the backups fails.
func (rf *RotatingFile) rotate() error {
	if rf.file != nil {
		if err := rf.file.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
		rf.file = nil
	}

	if err := rf.shiftBackups(); err != nil {
		if openErr := rf.open(); openErr != nil {
			return fmt.Errorf("%w (reopen: %v)", err, openErr)
		}
		return err
	}
	return rf.open()
}

func (rf *RotatingFile) shiftBackups() error {
	if rf.config.MaxBackups == 0 {
		if err := os.Remove(rf.config.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	if err := os.Remove(rf.backupName(rf.config.MaxBackups)); err != nil && !os.IsNotExist(err) {
		return err
	}
	for i := rf.config.MaxBackups - 1; i >= 1; i-- {
		if err := os.Rename(rf.backupName(i), rf.backupName(i+1)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	first := rf.config.Path + ".1"
	if err := os.Rename(rf.config.Path, first); err != nil && !os.IsNotExist(err) {
		return err
	}
	if rf.config.Compress {
		if err := compressFile(first); err != nil {
			return fmt.Errorf("failed to compress %s: %w", first, err)
		}
	}
	return nil
}

func (rf *RotatingFile) backupName(i int) string {
	name := rf.config.Path + "." + strconv.Itoa(i)
	if rf.config.Compress {
		name += ".gz"
	}
	return name
}

func (rf *RotatingFile) open() error {
	if err := os.MkdirAll(filepath.Dir(rf.config.Path), 0750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(rf.config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	rf.file = file
	rf.size = info.Size()
	return nil
}

// compressFile replaces name with name.gz.
func compressFile(name string) error {
	src, err := os.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(name+".gz", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		_ = zw.Close()
		_ = dst.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		_ = dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}
