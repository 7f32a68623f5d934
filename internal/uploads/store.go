// Package uploads stores challenge attachments and submission files.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

const (
	KindChallengeAttachment = "challenge_attachments"
	KindSubmissionFile      = "submission_files"
)

var (
	ErrInvalidFilename = errors.New("INVALID_FILENAME")
	ErrTooLarge        = errors.New("PAYLOAD_TOO_LARGE")
	ErrWriteFailed     = errors.New("STORAGE_WRITE_FAILED")
)

type StoredFile struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"-"`
}

// Store writes under baseDir on fs. Files are replaced when the same name
// is uploaded twice.
type Store struct {
	fs       afero.Fs
	baseDir  string
	maxBytes int64
}

func NewStore(fs afero.Fs, baseDir string, maxBytes int64) *Store {
	return &Store{fs: fs, baseDir: baseDir, maxBytes: maxBytes}
}

// NewOSStore stores files on the local disk.
func NewOSStore(baseDir string, maxBytes int64) *Store {
	return NewStore(afero.NewOsFs(), baseDir, maxBytes)
}

func (s *Store) MaxBytes() int64 { return s.maxBytes }

// SanitizeFilename keeps only the final path element of a client supplied
// name, treating both slash styles as separators.
func SanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(strings.TrimSpace(name))
	switch base {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return base, nil
}

// Save copies r to <baseDir>/<kind>/<ownerID>/<filename>. A partially
// written file is removed when the size limit is exceeded.
func (s *Store) Save(kind string, ownerID int64, filename string, r io.Reader) (*StoredFile, error) {
	name, err := SanitizeFilename(filename)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.baseDir, kind, strconv.FormatInt(ownerID, 10))
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	dest := filepath.Join(dir, name)
	f, err := s.fs.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		_ = s.fs.Remove(dest)
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, copyErr)
	case closeErr != nil:
		_ = s.fs.Remove(dest)
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, closeErr)
	case s.maxBytes > 0 && n > s.maxBytes:
		_ = s.fs.Remove(dest)
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}

	return &StoredFile{Filename: name, Path: dest, Size: n}, nil
}
