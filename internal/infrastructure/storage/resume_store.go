package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

const pdfMIME = "application/pdf"

// errOutsideDir rejects paths that do not resolve inside the upload directory.
var errOutsideDir = errors.New("path outside upload directory")

// ResumeStore keeps resumes as PDF files in a local directory. Stored paths
// are the directory joined with a random file name, e.g.
// "uploads/resumes/3f0c...pdf".
type ResumeStore struct {
	dir      string
	maxBytes int64
}

// NewResumeStore creates dir if needed.
func NewResumeStore(dir string, maxBytes int64) (*ResumeStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ResumeStore{dir: filepath.Clean(dir), maxBytes: maxBytes}, nil
}

// Save writes r as a new resume. Anything that is not a PDF, or is larger than
// the configured limit, is rejected before it touches the disk.
func (s *ResumeStore) Save(_ context.Context, r io.Reader) (string, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}
	if n > s.maxBytes {
		return "", domain.Invalid(fmt.Sprintf("Resume must not exceed %d bytes", s.maxBytes))
	}
	if !mimetype.Detect(buf.Bytes()).Is(pdfMIME) {
		return "", domain.ErrInvalidResume
	}

	path := filepath.Join(s.dir, uuid.NewString()+".pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write resume: %w", err)
	}
	return path, nil
}

func (s *ResumeStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	if err := s.contains(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NotFound("Resume not found")
		}
		return nil, fmt.Errorf("open resume: %w", err)
	}
	return f, nil
}

// Remove deletes the resume. A file that is already gone is not an error.
func (s *ResumeStore) Remove(_ context.Context, path string) error {
	if err := s.contains(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove resume: %w", err)
	}
	return nil
}

// Writable checks that new resumes can be stored.
func (s *ResumeStore) Writable() error {
	f, err := os.CreateTemp(s.dir, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func (s *ResumeStore) contains(path string) error {
	rel, err := filepath.Rel(s.dir, filepath.Clean(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", errOutsideDir, path)
	}
	return nil
}

var _ ports.ResumeStore = (*ResumeStore)(nil)
