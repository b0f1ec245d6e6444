package ports

import (
	"context"
	"io"
	"time"
)

// ResumeStore is the blob store holding uploaded resumes, keyed by path.
type ResumeStore interface {
	// Save writes the resume and returns the path it is stored under.
	Save(ctx context.Context, r io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Remove deletes the file. A missing file is not an error.
	Remove(ctx context.Context, path string) error
}

// ResumeJanitor discards resume files that no applicant owns any more.
// Discard never fails from the caller's point of view.
type ResumeJanitor interface {
	Discard(path string)
}

// Transactor runs fn so that its store writes commit or abort together when
// the backing store supports it, and sequentially otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Atomic reports whether writes inside fn roll back together on failure.
	Atomic() bool
}

// TokenRevoker tracks tokens invalidated before their expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
