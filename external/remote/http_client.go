package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/foxseedlab/moodlog/internal/mood"
	"github.com/foxseedlab/moodlog/internal/remote"
)

const (
	voiceNoteField   = "voice_note"
	maxErrorBodySize = 4 << 10
)

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type logMoodPayload struct {
	Mood              string `json:"mood"`
	Date              string `json:"date"`
	TextNote          string `json:"text_note"`
	VoiceNoteFilename string `json:"voice_note_filename,omitempty"`
}

type logMoodResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type uploadResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type historyEntry struct {
	ID                string `json:"_id"`
	Mood              string `json:"mood"`
	Date              string `json:"date"`
	TextNote          string `json:"text_note"`
	VoiceNoteFilename string `json:"voice_note_filename"`
	VoiceNoteURL      string `json:"voice_note_url"`
	Insight           string `json:"insight"`
	CreatedAt         string `json:"created_at"`
}

type insightResponse struct {
	Insight string `json:"insight"`
}

func (c *HTTPClient) UploadVoice(ctx context.Context, filename, mimeType string, r io.Reader) (mood.RemoteAttachmentRef, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	// CreateFormFile would label the part application/octet-stream; the
	// service checks the audio type, so the part header is built by hand.
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, voiceNoteField, escapeQuotes(filename)))
	partHeader.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return mood.RemoteAttachmentRef{}, fmt.Errorf("%w: create form part: %w", remote.ErrUpload, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return mood.RemoteAttachmentRef{}, fmt.Errorf("%w: read voice note: %w", remote.ErrUpload, err)
	}
	if err := writer.Close(); err != nil {
		return mood.RemoteAttachmentRef{}, fmt.Errorf("%w: close multipart body: %w", remote.ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-voice", &buf)
	if err != nil {
		return mood.RemoteAttachmentRef{}, fmt.Errorf("%w: %w", remote.ErrUpload, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out uploadResponse
	if err := c.do(req, remote.ErrUpload, &out); err != nil {
		return mood.RemoteAttachmentRef{}, err
	}
	if out.Filename == "" {
		return mood.RemoteAttachmentRef{}, fmt.Errorf("%w: response carried no filename", remote.ErrUpload)
	}
	return mood.RemoteAttachmentRef{Filename: out.Filename, URL: c.resolve(out.URL)}, nil
}

func (c *HTTPClient) LogMood(ctx context.Context, in remote.LogMoodRequest) (string, error) {
	b, err := json.Marshal(logMoodPayload{
		Mood:              string(in.Mood),
		Date:              in.Date.UTC().Format(time.RFC3339),
		TextNote:          in.TextNote,
		VoiceNoteFilename: in.VoiceNoteFilename,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", remote.ErrRemoteCreateFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mood-log", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %w", remote.ErrRemoteCreateFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out logMoodResponse
	if err := c.do(req, remote.ErrRemoteCreateFailed, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: response carried no id", remote.ErrRemoteCreateFailed)
	}
	return out.ID, nil
}

func (c *HTTPClient) History(ctx context.Context) ([]mood.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/mood-history", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", remote.ErrRemoteRequest, err)
	}
	var raw []historyEntry
	if err := c.do(req, remote.ErrRemoteRequest, &raw); err != nil {
		return nil, err
	}
	entries := make([]mood.Entry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, mood.Entry{
			ID:                e.ID,
			Mood:              mood.Label(e.Mood),
			Date:              parseServiceTime(e.Date),
			TextNote:          e.TextNote,
			VoiceNoteFilename: e.VoiceNoteFilename,
			VoiceNoteURL:      c.resolve(e.VoiceNoteURL),
			Insight:           e.Insight,
			CreatedAt:         parseServiceTime(e.CreatedAt),
		})
	}
	return entries, nil
}

func (c *HTTPClient) Insight(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/mood/"+url.PathEscape(id)+"/insight", nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", remote.ErrRemoteRequest, err)
	}
	var out insightResponse
	if err := c.do(req, remote.ErrRemoteRequest, &out); err != nil {
		return "", err
	}
	return out.Insight, nil
}

func (c *HTTPClient) DeleteMood(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/mood/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("%w: %w", remote.ErrRemoteRequest, err)
	}
	return c.do(req, remote.ErrRemoteRequest, nil)
}

// do sends req and decodes a 2xx JSON body into out. kind tags every failure
// so callers can tell which operation broke.
func (c *HTTPClient) do(req *http.Request, kind error, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w: %w", kind, remote.ErrNetworkUnreachable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if !isHTTPSuccessStatus(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &remote.StatusError{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", kind, err)
	}
	return nil
}

// resolve turns the service's relative voice URLs into absolute ones.
func (c *HTTPClient) resolve(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + "/" + strings.TrimLeft(ref, "/")
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

var serviceTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// parseServiceTime accepts both zoned timestamps and the naive ISO form the
// service writes for stored dates, which are UTC.
func parseServiceTime(s string) time.Time {
	for _, layout := range serviceTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
