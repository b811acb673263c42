package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foxseedlab/moodlog/internal/mood"
	"github.com/foxseedlab/moodlog/internal/remote"
)

var ErrInvalidDraft = errors.New("invalid mood entry")

// ArtifactDiscarder removes a clip once it is no longer needed locally.
type ArtifactDiscarder interface {
	Discard(artifact mood.VoiceArtifact) error
}

// Pipeline submits one draft: the optional voice upload first, then the mood
// record. An upload failure degrades to a record without attachment; it never
// aborts the submission. Nothing is retried.
type Pipeline struct {
	uploader  Uploader
	client    remote.Client
	discarder ArtifactDiscarder
	now       func() time.Time
}

func NewPipeline(uploader Uploader, client remote.Client, discarder ArtifactDiscarder, now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		uploader:  uploader,
		client:    client,
		discarder: discarder,
		now:       now,
	}
}

func (p *Pipeline) Submit(ctx context.Context, draft mood.Draft) mood.SubmissionResult {
	if !draft.Mood.Valid() {
		slog.Warn("refusing to submit draft", "mood", draft.Mood)
		return mood.Failure(fmt.Errorf("%w: unknown mood %q", ErrInvalidDraft, draft.Mood))
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = p.now()
	}

	var (
		attachment *mood.RemoteAttachmentRef
		warning    error
	)
	if draft.Voice != nil {
		ref, err := p.uploader.Upload(ctx, draft.Voice.LocalURI, draft.Voice.DisplayName)
		if err != nil {
			warning = wrapUpload(err)
			slog.Warn("voice note upload failed; logging mood without it", "error", err, "artifact", draft.Voice.DisplayName)
		} else {
			attachment = &ref
			slog.Info("voice note uploaded", "filename", ref.Filename)
		}
	}

	req := remote.LogMoodRequest{
		Mood:     draft.Mood,
		Date:     draft.CreatedAt,
		TextNote: draft.Note,
	}
	if attachment != nil {
		req.VoiceNoteFilename = attachment.Filename
	}
	id, err := p.client.LogMood(ctx, req)
	if err != nil {
		slog.Error("failed to log mood", "error", err, "mood", draft.Mood)
		return mood.Failure(err)
	}

	p.discard(draft.Voice)
	if warning != nil {
		slog.Info("mood logged without voice note", "id", id, "mood", draft.Mood)
		return mood.PartialSuccess(id, warning)
	}
	slog.Info("mood logged", "id", id, "mood", draft.Mood, "with_voice_note", attachment != nil)
	return mood.Success(id)
}

// discard drops the local clip once the record exists. A failed submission
// keeps the file so the user can retry.
func (p *Pipeline) discard(artifact *mood.VoiceArtifact) {
	if artifact == nil || p.discarder == nil {
		return
	}
	if err := p.discarder.Discard(*artifact); err != nil {
		slog.Warn("failed to discard voice note", "error", err, "artifact", artifact.DisplayName)
	}
}
