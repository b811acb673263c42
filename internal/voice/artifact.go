package voice

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/foxseedlab/moodlog/internal/mood"
	"github.com/google/uuid"
)

// ArtifactStore decides where recordings are written and removes them once
// they are no longer needed.
type ArtifactStore struct {
	dir    string
	format string
}

func NewArtifactStore(dir, format string) *ArtifactStore {
	if dir == "" {
		dir = os.TempDir()
	}
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if format == "" {
		format = "wav"
	}
	return &ArtifactStore{dir: dir, format: format}
}

func (s *ArtifactStore) Dir() string { return s.dir }

// NewOutputPath returns a fresh, unique file path for the next recording.
func (s *ArtifactStore) NewOutputPath() (string, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", fmt.Errorf("create recordings dir: %w", err)
	}
	return filepath.Join(s.dir, fmt.Sprintf("recording-%s.%s", uuid.NewString(), s.format)), nil
}

// Materialize turns a finished capture into an artifact with a generated
// display name.
func (s *ArtifactStore) Materialize(outputPath string, durationSeconds int) mood.VoiceArtifact {
	ext := filepath.Ext(outputPath)
	if ext == "" {
		ext = "." + s.format
	}
	name := fmt.Sprintf("voice-note-%s%s", uuid.NewString(), strings.ToLower(ext))
	return mood.VoiceArtifact{
		LocalURI:        outputPath,
		DisplayName:     name,
		MimeType:        mood.MimeTypeFor(name),
		DurationSeconds: durationSeconds,
	}
}

// Discard removes a recorded artifact's file. Files outside the store's
// directory, such as clips picked by the user, are left alone.
func (s *ArtifactStore) Discard(artifact mood.VoiceArtifact) error {
	if artifact.LocalURI == "" || !s.owns(artifact.LocalURI) {
		return nil
	}
	if err := os.Remove(artifact.LocalURI); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("discard recording: %w", err)
	}
	slog.Debug("recording discarded", "path", artifact.LocalURI)
	return nil
}

func (s *ArtifactStore) owns(path string) bool {
	rel, err := filepath.Rel(filepath.Clean(s.dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..") && strings.HasPrefix(filepath.Base(path), "recording-")
}
