package submission

import (
	"context"
	"io"
	"sync"

	"github.com/foxseedlab/moodlog/internal/mood"
	"github.com/foxseedlab/moodlog/internal/remote"
)

type mockUploader struct {
	mu    sync.Mutex
	ref   mood.RemoteAttachmentRef
	err   error
	calls []string
	log   *[]string
}

func (m *mockUploader) Upload(_ context.Context, localURI, displayName string) (mood.RemoteAttachmentRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, localURI+"|"+displayName)
	if m.log != nil {
		*m.log = append(*m.log, "upload")
	}
	return m.ref, m.err
}

type mockClient struct {
	mu          sync.Mutex
	logMoodID   string
	logMoodErr  error
	logRequests []remote.LogMoodRequest
	log         *[]string

	uploadRef      mood.RemoteAttachmentRef
	uploadErr      error
	uploadName     string
	uploadMimeType string
	uploadBody     string
}

func (m *mockClient) UploadVoice(_ context.Context, filename, mimeType string, r io.Reader) (mood.RemoteAttachmentRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := io.ReadAll(r)
	if err != nil {
		return mood.RemoteAttachmentRef{}, err
	}
	m.uploadName = filename
	m.uploadMimeType = mimeType
	m.uploadBody = string(b)
	return m.uploadRef, m.uploadErr
}

func (m *mockClient) LogMood(_ context.Context, req remote.LogMoodRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logRequests = append(m.logRequests, req)
	if m.log != nil {
		*m.log = append(*m.log, "log")
	}
	return m.logMoodID, m.logMoodErr
}

func (m *mockClient) History(context.Context) ([]mood.Entry, error) { return nil, nil }

func (m *mockClient) Insight(context.Context, string) (string, error) { return "", nil }

func (m *mockClient) DeleteMood(context.Context, string) error { return nil }

type mockDiscarder struct {
	mu        sync.Mutex
	discarded []mood.VoiceArtifact
	err       error
}

func (m *mockDiscarder) Discard(artifact mood.VoiceArtifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discarded = append(m.discarded, artifact)
	return m.err
}
