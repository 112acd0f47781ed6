// Package voice announces predictions through an optional speech backend.
// Every failure here is a normal outcome and never reaches the caller.
package voice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnavailable reports that no speech backend is configured or reachable.
	ErrUnavailable = errors.New("voice output unavailable")
	// ErrClipNotFound is returned for unknown, pending or expired clip IDs.
	ErrClipNotFound = errors.New("announcement clip not found")
)

// Synthesizer turns text into an audio clip.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Disabled is the Synthesizer used when voice output is switched off.
type Disabled struct{}

func (Disabled) Synthesize(context.Context, string) ([]byte, error) {
	return nil, ErrUnavailable
}

// Sink delivers a synthesized clip under the ID handed out by Announce.
type Sink interface {
	Play(ctx context.Context, id string, clip []byte) error
}

// DirSink keeps each clip in a directory until the client fetches it.
// Clips older than Retention are removed on the next write.
type DirSink struct {
	Dir       string
	Ext       string
	Retention time.Duration

	now func() time.Time
}

func (s DirSink) ext() string {
	if s.Ext == "" {
		return ".mp3"
	}
	return s.Ext
}

func (s DirSink) Play(_ context.Context, id string, clip []byte) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid clip id %q: %w", id, err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create announcement dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, id+s.ext()), clip, 0o644); err != nil {
		return fmt.Errorf("write announcement: %w", err)
	}
	return s.prune()
}

// ClipPath returns the file holding clip id.
func (s DirSink) ClipPath(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return "", ErrClipNotFound
	}
	path := filepath.Join(s.Dir, id+s.ext())
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || s.expired(info.ModTime()) {
		return "", ErrClipNotFound
	}
	return path, nil
}

func (s DirSink) expired(modified time.Time) bool {
	if s.Retention <= 0 {
		return false
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().Sub(modified) > s.Retention
}

func (s DirSink) prune() error {
	if s.Retention <= 0 {
		return nil
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return fmt.Errorf("list announcements: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), s.ext()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if s.expired(info.ModTime()) {
			_ = os.Remove(filepath.Join(s.Dir, e.Name()))
		}
	}
	return nil
}
