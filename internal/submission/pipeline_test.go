package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foxseedlab/moodlog/internal/mood"
	"github.com/foxseedlab/moodlog/internal/remote"
	"github.com/google/go-cmp/cmp"
)

var submittedAt = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return submittedAt }

func voiceClip() *mood.VoiceArtifact {
	return &mood.VoiceArtifact{
		LocalURI:        "/tmp/recording-1.wav",
		DisplayName:     "voice-note-1.wav",
		MimeType:        "audio/wav",
		DurationSeconds: 12,
	}
}

func TestSubmit_WithoutVoiceNeverUploads(t *testing.T) {
	uploader := &mockUploader{}
	client := &mockClient{logMoodID: "id-1"}
	discarder := &mockDiscarder{}
	p := NewPipeline(uploader, client, discarder, fixedNow)

	got := p.Submit(context.Background(), mood.Draft{Mood: mood.LabelHappy, Note: "great day"})

	if diff := cmp.Diff(mood.Success("id-1"), got, cmp.Comparer(errorsEqual)); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if len(uploader.calls) != 0 {
		t.Fatalf("upload must not be called, got %v", uploader.calls)
	}
	want := []remote.LogMoodRequest{{Mood: mood.LabelHappy, Date: submittedAt, TextNote: "great day"}}
	if diff := cmp.Diff(want, client.logRequests); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
	if len(discarder.discarded) != 0 {
		t.Fatal("nothing to discard without a voice note")
	}
}

func TestSubmit_UploadThenLogWithFilename(t *testing.T) {
	var order []string
	uploader := &mockUploader{ref: mood.RemoteAttachmentRef{Filename: "0b9e.wav", URL: "/voice/0b9e.wav"}, log: &order}
	client := &mockClient{logMoodID: "id-2", log: &order}
	discarder := &mockDiscarder{}
	p := NewPipeline(uploader, client, discarder, fixedNow)

	voice := voiceClip()
	got := p.Submit(context.Background(), mood.Draft{Mood: mood.LabelCalm, Note: "walk", Voice: voice})

	if got.Outcome != mood.OutcomeSuccess || got.RemoteID != "id-2" {
		t.Fatalf("unexpected result: %s", got)
	}
	if diff := cmp.Diff([]string{"upload", "log"}, order); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/tmp/recording-1.wav|voice-note-1.wav"}, uploader.calls); diff != "" {
		t.Fatalf("upload args mismatch (-want +got):\n%s", diff)
	}
	if client.logRequests[0].VoiceNoteFilename != "0b9e.wav" {
		t.Fatalf("expected filename threaded into create, got %q", client.logRequests[0].VoiceNoteFilename)
	}
	if diff := cmp.Diff([]mood.VoiceArtifact{*voice}, discarder.discarded); diff != "" {
		t.Fatalf("discard mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_UploadFailureDegradesToPartialSuccess(t *testing.T) {
	uploadErr := errors.New("connection reset")
	uploader := &mockUploader{err: uploadErr}
	client := &mockClient{logMoodID: "id-3"}
	discarder := &mockDiscarder{}
	p := NewPipeline(uploader, client, discarder, fixedNow)

	got := p.Submit(context.Background(), mood.Draft{Mood: mood.LabelSad, Note: "", Voice: voiceClip()})

	if got.Outcome != mood.OutcomePartialSuccess || got.RemoteID != "id-3" {
		t.Fatalf("unexpected result: %s", got)
	}
	if !errors.Is(got.AttachmentWarning, remote.ErrUpload) || !errors.Is(got.AttachmentWarning, uploadErr) {
		t.Fatalf("warning must carry the upload failure, got %v", got.AttachmentWarning)
	}
	if got.Reason != nil {
		t.Fatalf("partial success has no failure reason, got %v", got.Reason)
	}
	if len(client.logRequests) != 1 {
		t.Fatalf("create must be called exactly once, got %d", len(client.logRequests))
	}
	req := client.logRequests[0]
	if req.VoiceNoteFilename != "" || req.Mood != mood.LabelSad || req.TextNote != "" {
		t.Fatalf("create must omit the attachment, got %+v", req)
	}
	if len(discarder.discarded) != 1 {
		t.Fatal("clip must be discarded once the record exists")
	}
}

func TestSubmit_CreateFailureIsFailure(t *testing.T) {
	createErr := &remote.StatusError{Kind: remote.ErrRemoteCreateFailed, StatusCode: 500}
	uploader := &mockUploader{ref: mood.RemoteAttachmentRef{Filename: "0b9e.wav"}}
	client := &mockClient{logMoodErr: createErr}
	discarder := &mockDiscarder{}
	p := NewPipeline(uploader, client, discarder, fixedNow)

	got := p.Submit(context.Background(), mood.Draft{Mood: mood.LabelAnxious, Note: "exam", Voice: voiceClip()})

	if got.Outcome != mood.OutcomeFailure || got.RemoteID != "" {
		t.Fatalf("unexpected result: %s", got)
	}
	if !errors.Is(got.Reason, remote.ErrRemoteCreateFailed) {
		t.Fatalf("expected create failure reason, got %v", got.Reason)
	}
	if got.Logged() {
		t.Fatal("failure must not report the mood as logged")
	}
	if len(uploader.calls) != 1 || len(client.logRequests) != 1 {
		t.Fatalf("expected one upload and one create, got %d and %d", len(uploader.calls), len(client.logRequests))
	}
	if len(discarder.discarded) != 0 {
		t.Fatal("failed submission must keep the clip for a retry")
	}
}

func TestSubmit_NetworkFailureIsFailure(t *testing.T) {
	netErr := errors.Join(remote.ErrRemoteCreateFailed, remote.ErrNetworkUnreachable)
	client := &mockClient{logMoodErr: netErr}
	p := NewPipeline(&mockUploader{}, client, nil, fixedNow)

	got := p.Submit(context.Background(), mood.Draft{Mood: mood.LabelNeutral})
	if got.Outcome != mood.OutcomeFailure || !errors.Is(got.Reason, remote.ErrNetworkUnreachable) {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestSubmit_UploadAndCreateBothFail(t *testing.T) {
	uploader := &mockUploader{err: errors.New("upload broke")}
	client := &mockClient{logMoodErr: remote.ErrRemoteCreateFailed}
	p := NewPipeline(uploader, client, &mockDiscarder{}, fixedNow)

	got := p.Submit(context.Background(), mood.Draft{Mood: mood.LabelAngry, Voice: voiceClip()})
	if got.Outcome != mood.OutcomeFailure || !errors.Is(got.Reason, remote.ErrRemoteCreateFailed) {
		t.Fatalf("unexpected result: %s", got)
	}
	if got.AttachmentWarning != nil {
		t.Fatalf("failure carries no attachment warning, got %v", got.AttachmentWarning)
	}
}

func TestSubmit_InvalidMoodMakesNoCalls(t *testing.T) {
	uploader := &mockUploader{}
	client := &mockClient{logMoodID: "id"}
	p := NewPipeline(uploader, client, &mockDiscarder{}, fixedNow)

	for _, label := range []mood.Label{"", "Bored", "happy"} {
		got := p.Submit(context.Background(), mood.Draft{Mood: label, Voice: voiceClip()})
		if got.Outcome != mood.OutcomeFailure || !errors.Is(got.Reason, ErrInvalidDraft) {
			t.Fatalf("mood %q: unexpected result %s", label, got)
		}
	}
	if len(uploader.calls) != 0 || len(client.logRequests) != 0 {
		t.Fatal("invalid drafts must not reach the service")
	}
}

func TestSubmit_KeepsExplicitCreatedAt(t *testing.T) {
	client := &mockClient{logMoodID: "id"}
	p := NewPipeline(&mockUploader{}, client, nil, fixedNow)

	createdAt := time.Date(2026, 10, 1, 22, 15, 0, 0, time.UTC)
	_ = p.Submit(context.Background(), mood.Draft{Mood: mood.LabelExcited, CreatedAt: createdAt})
	if !client.logRequests[0].Date.Equal(createdAt) {
		t.Fatalf("expected %v, got %v", createdAt, client.logRequests[0].Date)
	}
}

func TestSubmit_DiscardErrorDoesNotChangeOutcome(t *testing.T) {
	client := &mockClient{logMoodID: "id-9"}
	discarder := &mockDiscarder{err: errors.New("permission denied")}
	p := NewPipeline(&mockUploader{ref: mood.RemoteAttachmentRef{Filename: "x.wav"}}, client, discarder, fixedNow)

	got := p.Submit(context.Background(), mood.Draft{Mood: mood.LabelHappy, Voice: voiceClip()})
	if got.Outcome != mood.OutcomeSuccess {
		t.Fatalf("unexpected result: %s", got)
	}
}

func errorsEqual(a, b error) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return errors.Is(a, b) || errors.Is(b, a)
}
