package submission

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	remotehttp "github.com/foxseedlab/moodlog/external/remote"
	"github.com/foxseedlab/moodlog/internal/mood"
	"github.com/foxseedlab/moodlog/internal/remote"
	"github.com/foxseedlab/moodlog/internal/voice"
)

type fakeMoodService struct {
	mu          sync.Mutex
	uploadCode  int
	createCode  int
	uploads     int
	createdBody []map[string]any
}

func (s *fakeMoodService) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload-voice", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.uploads++
		if s.uploadCode != http.StatusCreated {
			w.WriteHeader(s.uploadCode)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"filename":"srv-1.wav","url":"/voice/srv-1.wav"}`))
	})
	mux.HandleFunc("POST /mood-log", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad create body: %v", err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.createdBody = append(s.createdBody, body)
		if s.createCode != http.StatusCreated {
			w.WriteHeader(s.createCode)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Mood logged successfully","id":"entry-1"}`))
	})
	return mux
}

func (s *fakeMoodService) snapshot() (int, []map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads, append([]map[string]any(nil), s.createdBody...)
}

func newScenario(t *testing.T, svc *fakeMoodService) (*Pipeline, *voice.ArtifactStore) {
	t.Helper()
	server := httptest.NewServer(svc.handler(t))
	t.Cleanup(server.Close)

	client := remotehttp.NewHTTPClient(server.URL, 2*time.Second)
	store := voice.NewArtifactStore(t.TempDir(), "wav")
	return NewPipeline(NewAttachmentUploader(client), client, store, fixedNow), store
}

func recordedClip(t *testing.T, store *voice.ArtifactStore) mood.VoiceArtifact {
	t.Helper()
	path, err := store.NewOutputPath()
	if err != nil {
		t.Fatalf("failed to allocate output path: %v", err)
	}
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o600); err != nil {
		t.Fatalf("failed to write clip: %v", err)
	}
	return store.Materialize(path, 7)
}

func TestScenario_HappyNoteWithoutVoice(t *testing.T) {
	svc := &fakeMoodService{uploadCode: http.StatusCreated, createCode: http.StatusCreated}
	p, _ := newScenario(t, svc)

	got := p.Submit(context.Background(), mood.Draft{Mood: mood.LabelHappy, Note: "great day"})

	if got.Outcome != mood.OutcomeSuccess || got.RemoteID != "entry-1" {
		t.Fatalf("unexpected result: %s", got)
	}
	uploads, created := svc.snapshot()
	if uploads != 0 {
		t.Fatalf("upload must not be called, got %d", uploads)
	}
	body := created[0]
	if _, ok := body["voice_note_filename"]; ok {
		t.Fatalf("create body must not carry a filename: %v", body)
	}
	if body["mood"] != "Happy" || body["text_note"] != "great day" {
		t.Fatalf("unexpected create body: %v", body)
	}
}

func TestScenario_SadVoiceUploadFails(t *testing.T) {
	svc := &fakeMoodService{uploadCode: http.StatusInternalServerError, createCode: http.StatusCreated}
	p, store := newScenario(t, svc)
	clip := recordedClip(t, store)

	got := p.Submit(context.Background(), mood.Draft{Mood: mood.LabelSad, Note: "", Voice: &clip})

	if got.Outcome != mood.OutcomePartialSuccess || got.RemoteID != "entry-1" {
		t.Fatalf("unexpected result: %s", got)
	}
	var statusErr *remote.StatusError
	if !errors.As(got.AttachmentWarning, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("warning must carry the upload status, got %v", got.AttachmentWarning)
	}
	uploads, created := svc.snapshot()
	if uploads != 1 || len(created) != 1 {
		t.Fatalf("expected one upload and one create, got %d and %d", uploads, len(created))
	}
	if _, ok := created[0]["voice_note_filename"]; ok {
		t.Fatalf("create body must not carry a filename: %v", created[0])
	}
	if _, err := os.Stat(clip.LocalURI); !os.IsNotExist(err) {
		t.Fatalf("recorded clip must be discarded after the record exists, stat err=%v", err)
	}
}

func TestScenario_CreateFails(t *testing.T) {
	svc := &fakeMoodService{uploadCode: http.StatusCreated, createCode: http.StatusInternalServerError}
	p, store := newScenario(t, svc)
	clip := recordedClip(t, store)

	got := p.Submit(context.Background(), mood.Draft{Mood: mood.LabelStressed, Note: "deadline", Voice: &clip})

	if got.Outcome != mood.OutcomeFailure || !errors.Is(got.Reason, remote.ErrRemoteCreateFailed) {
		t.Fatalf("unexpected result: %s", got)
	}
	_, created := svc.snapshot()
	if created[0]["voice_note_filename"] != "srv-1.wav" {
		t.Fatalf("create must carry the uploaded filename: %v", created[0])
	}
	if _, err := os.Stat(clip.LocalURI); err != nil {
		t.Fatalf("clip must be kept for a retry: %v", err)
	}
}
