package voice

import (
	"context"
	"errors"
	"time"

	"github.com/foxseedlab/moodlog/internal/mood"
)

var (
	ErrBusy             = errors.New("a recording is already in progress")
	ErrNoActiveSession  = errors.New("no active recording session")
	ErrPermissionDenied = errors.New("microphone permission denied")
	ErrRecordingFailed  = errors.New("recording failed")
	ErrPlaybackFailed   = errors.New("playback failed")
	ErrCancelled        = errors.New("audio operation cancelled")
)

type RecordingState string

const (
	RecordingStateIdle                 RecordingState = "idle"
	RecordingStateRequestingPermission RecordingState = "requesting_permission"
	RecordingStateRecording            RecordingState = "recording"
	RecordingStateStopping             RecordingState = "stopping"
	RecordingStateStopped              RecordingState = "stopped"
	RecordingStateError                RecordingState = "error"
)

// Live reports whether a session in this state blocks a new Start.
func (s RecordingState) Live() bool {
	switch s {
	case RecordingStateRequestingPermission, RecordingStateRecording, RecordingStateStopping:
		return true
	default:
		return false
	}
}

type PlaybackState string

const (
	PlaybackStateIdle    PlaybackState = "idle"
	PlaybackStateLoading PlaybackState = "loading"
	PlaybackStatePlaying PlaybackState = "playing"
	PlaybackStateError   PlaybackState = "error"
)

// Reason explains why a controller entered its current state.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonStarted          Reason = "started"
	ReasonUser             Reason = "user"
	ReasonMaxDuration      Reason = "max_duration"
	ReasonPreempted        Reason = "preempted"
	ReasonCompleted        Reason = "completed"
	ReasonReplaced         Reason = "replaced"
	ReasonCancelled        Reason = "cancelled"
	ReasonClosed           Reason = "closed"
	ReasonPermissionDenied Reason = "permission_denied"
	ReasonRecordingFailed  Reason = "recording_failed"
	ReasonPlaybackFailed   Reason = "playback_failed"
)

// RecordingStatus is a snapshot of the recorder.
type RecordingStatus struct {
	State          RecordingState
	Reason         Reason
	ElapsedSeconds int
	StartedAt      time.Time
}

// PlaybackStatus is a snapshot of the player.
type PlaybackStatus struct {
	State    PlaybackState
	Reason   Reason
	Artifact *mood.VoiceArtifact
}

// Permission asks the platform for microphone access.
type Permission interface {
	RequestMicrophone(ctx context.Context) (bool, error)
}

// EventSink receives controller notifications for display.
type EventSink interface {
	RecordingStateChanged(state RecordingState, reason Reason)
	RecordingTick(elapsedSeconds int)
	RecordingStopped(artifact mood.VoiceArtifact, reason Reason)
	PlaybackStateChanged(state PlaybackState, reason Reason)
}

type nopEvents struct{}

func (nopEvents) RecordingStateChanged(RecordingState, Reason) {}

func (nopEvents) RecordingTick(int) {}

func (nopEvents) RecordingStopped(mood.VoiceArtifact, Reason) {}

func (nopEvents) PlaybackStateChanged(PlaybackState, Reason) {}
