package mood

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Label is one of the fixed moods a user can log.
type Label string

const (
	LabelHappy    Label = "Happy"
	LabelSad      Label = "Sad"
	LabelStressed Label = "Stressed"
	LabelNeutral  Label = "Neutral"
	LabelExcited  Label = "Excited"
	LabelAngry    Label = "Angry"
	LabelAnxious  Label = "Anxious"
	LabelCalm     Label = "Calm"
)

var labels = []Label{
	LabelHappy,
	LabelSad,
	LabelStressed,
	LabelNeutral,
	LabelExcited,
	LabelAngry,
	LabelAnxious,
	LabelCalm,
}

// Labels returns the selectable moods in display order.
func Labels() []Label {
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}

func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	for _, l := range labels {
		if strings.EqualFold(string(l), s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

func (l Label) Valid() bool {
	for _, known := range labels {
		if l == known {
			return true
		}
	}
	return false
}

// VoiceArtifact is a local audio clip waiting to be submitted. It is never
// mutated after creation.
type VoiceArtifact struct {
	LocalURI        string
	DisplayName     string
	MimeType        string
	DurationSeconds int
}

// Draft is what the user has composed before hitting submit.
type Draft struct {
	Mood      Label
	Note      string
	Voice     *VoiceArtifact
	CreatedAt time.Time
}

// RemoteAttachmentRef identifies an uploaded voice note on the service.
type RemoteAttachmentRef struct {
	Filename string
	URL      string
}

// Entry is a logged mood as returned by the history endpoint.
type Entry struct {
	ID                string
	Mood              Label
	Date              time.Time
	TextNote          string
	VoiceNoteFilename string
	VoiceNoteURL      string
	Insight           string
	CreatedAt         time.Time
}

func (e Entry) HasVoiceNote() bool {
	return e.VoiceNoteURL != ""
}

var mimeTypes = map[string]string{
	".wav": "audio/wav",
	".mp3": "audio/mpeg",
	".m4a": "audio/mp4",
	".aac": "audio/aac",
	".ogg": "audio/ogg",
}

// MimeTypeFor maps a file name to the audio MIME type the service expects.
func MimeTypeFor(name string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// SupportedAudioExtension reports whether the service accepts the file's extension.
func SupportedAudioExtension(name string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ArtifactFromFile builds an artifact for a clip picked from disk rather than
// recorded. The duration is unknown and left at zero.
func ArtifactFromFile(path string) VoiceArtifact {
	name := filepath.Base(path)
	return VoiceArtifact{
		LocalURI:    path,
		DisplayName: name,
		MimeType:    MimeTypeFor(name),
	}
}
