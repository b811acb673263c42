package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/foxseedlab/moodlog/internal/mood"
	"github.com/foxseedlab/moodlog/internal/remote"
)

// MaxUploadBytes mirrors the service's request size limit.
const MaxUploadBytes = 10 << 20

// Uploader sends one local clip to the service.
type Uploader interface {
	Upload(ctx context.Context, localURI, displayName string) (mood.RemoteAttachmentRef, error)
}

type AttachmentUploader struct {
	client remote.Client
}

func NewAttachmentUploader(client remote.Client) *AttachmentUploader {
	return &AttachmentUploader{client: client}
}

// Upload makes a single attempt. Every failure, including ones caught
// locally before any network I/O, wraps remote.ErrUpload.
func (u *AttachmentUploader) Upload(ctx context.Context, localURI, displayName string) (mood.RemoteAttachmentRef, error) {
	if displayName == "" {
		displayName = filepath.Base(localURI)
	}
	if !mood.SupportedAudioExtension(displayName) {
		return mood.RemoteAttachmentRef{}, fmt.Errorf("%w: unsupported audio type %q", remote.ErrUpload, filepath.Ext(displayName))
	}

	f, err := os.Open(localURI)
	if err != nil {
		return mood.RemoteAttachmentRef{}, fmt.Errorf("%w: open voice note: %w", remote.ErrUpload, err)
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return mood.RemoteAttachmentRef{}, fmt.Errorf("%w: stat voice note: %w", remote.ErrUpload, err)
	}
	if info.Size() > MaxUploadBytes {
		return mood.RemoteAttachmentRef{}, fmt.Errorf("%w: voice note is %d bytes, limit is %d", remote.ErrUpload, info.Size(), MaxUploadBytes)
	}

	slog.Info("uploading voice note", "filename", displayName, "size_bytes", info.Size())
	ref, err := u.client.UploadVoice(ctx, displayName, mood.MimeTypeFor(displayName), f)
	if err != nil {
		return mood.RemoteAttachmentRef{}, wrapUpload(err)
	}
	return ref, nil
}

func wrapUpload(err error) error {
	if errors.Is(err, remote.ErrUpload) {
		return err
	}
	return fmt.Errorf("%w: %w", remote.ErrUpload, err)
}
