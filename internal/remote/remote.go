package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/foxseedlab/moodlog/internal/mood"
)

var (
	ErrUpload             = errors.New("voice note upload failed")
	ErrRemoteCreateFailed = errors.New("mood entry creation failed")
	ErrNetworkUnreachable = errors.New("mood service unreachable")
	ErrRemoteRequest      = errors.New("mood service request failed")
)

// StatusError carries a non-2xx answer from the mood service. Kind is one of
// the sentinel errors above so callers can match it with errors.Is.
type StatusError struct {
	Kind       error
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v: status %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d: %s", e.Kind, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return e.Kind }

// LogMoodRequest is the body of POST /mood-log.
type LogMoodRequest struct {
	Mood              mood.Label
	Date              time.Time
	TextNote          string
	VoiceNoteFilename string
}

// Client is the fixed contract of the remote mood service.
type Client interface {
	UploadVoice(ctx context.Context, filename, mimeType string, r io.Reader) (mood.RemoteAttachmentRef, error)
	LogMood(ctx context.Context, req LogMoodRequest) (string, error)
	History(ctx context.Context) ([]mood.Entry, error)
	Insight(ctx context.Context, id string) (string, error)
	DeleteMood(ctx context.Context, id string) error
}
