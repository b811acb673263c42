package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/moodlog/internal/audio"
	"github.com/foxseedlab/moodlog/internal/config"
	"github.com/foxseedlab/moodlog/internal/mood"
)

var ErrClosed = errors.New("voice studio closed")

const defaultTickInterval = time.Second

type RecorderConfig struct {
	MaxSeconds   int
	TickInterval time.Duration
}

func (c RecorderConfig) withDefaults() RecorderConfig {
	if c.MaxSeconds <= 0 || c.MaxSeconds > config.MaxRecordingSeconds {
		c.MaxSeconds = config.MaxRecordingSeconds
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	return c
}

// Recorder drives one voice-note capture at a time. A session that reached
// stopped or error is finished; the next Start begins a fresh one.
type Recorder struct {
	guard      *audio.Guard
	device     audio.Device
	permission Permission
	clock      Clock
	store      *ArtifactStore
	events     EventSink
	cfg        RecorderConfig

	mu      sync.Mutex
	current *recordingSession
	closed  bool
}

type recordingSession struct {
	state     RecordingState
	reason    Reason
	startedAt time.Time
	elapsed   int

	handle  *audio.Handle
	capture audio.CaptureSession
	ticker  Ticker
	done    chan struct{}

	cancelPermission context.CancelFunc
	artifact         *mood.VoiceArtifact
}

func NewRecorder(guard *audio.Guard, device audio.Device, permission Permission, clock Clock, store *ArtifactStore, events EventSink, cfg RecorderConfig) *Recorder {
	if clock == nil {
		clock = RealClock()
	}
	if events == nil {
		events = nopEvents{}
	}
	return &Recorder{
		guard:      guard,
		device:     device,
		permission: permission,
		clock:      clock,
		store:      store,
		events:     events,
		cfg:        cfg.withDefaults(),
	}
}

// Start asks for microphone permission and begins capturing. It returns
// ErrBusy without touching the running session if one is in flight.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.current != nil && r.current.state.Live() {
		state := r.current.state
		r.mu.Unlock()
		slog.Info("recording start rejected; session busy", "state", state)
		return ErrBusy
	}
	permCtx, cancel := context.WithCancel(ctx)
	s := &recordingSession{cancelPermission: cancel}
	r.current = s
	r.setStateLocked(s, RecordingStateRequestingPermission, ReasonNone)
	r.mu.Unlock()

	granted, permErr := r.permission.RequestMicrophone(permCtx)
	cancel()

	r.mu.Lock()
	if r.current != s || s.state != RecordingStateRequestingPermission {
		r.mu.Unlock()
		return ErrCancelled
	}
	if permErr != nil || !granted {
		r.setStateLocked(s, RecordingStateError, ReasonPermissionDenied)
		r.mu.Unlock()
		slog.Warn("microphone permission not granted", "granted", granted, "error", permErr)
		if permErr != nil {
			return fmt.Errorf("%w: %w", ErrPermissionDenied, permErr)
		}
		return ErrPermissionDenied
	}
	outputPath, err := r.store.NewOutputPath()
	if err != nil {
		r.setStateLocked(s, RecordingStateError, ReasonRecordingFailed)
		r.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrRecordingFailed, err)
	}
	r.mu.Unlock()

	var capture audio.CaptureSession
	handle, err := r.guard.Acquire(ctx, audio.ModeRecord, r, func(ctx context.Context) (audio.Session, error) {
		cs, err := r.device.StartCapture(ctx, outputPath)
		if err != nil {
			return nil, err
		}
		capture = cs
		return cs, nil
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		if r.current == s && s.state == RecordingStateRequestingPermission {
			r.setStateLocked(s, RecordingStateError, ReasonRecordingFailed)
		}
		slog.Error("failed to acquire audio resource for recording", "error", err)
		return fmt.Errorf("%w: %w", ErrRecordingFailed, err)
	}
	if r.current != s || s.state != RecordingStateRequestingPermission {
		_ = r.guard.Release(handle)
		_ = r.store.Discard(mood.VoiceArtifact{LocalURI: outputPath})
		return ErrCancelled
	}

	s.handle = handle
	s.capture = capture
	s.startedAt = r.clock.Now()
	s.elapsed = 0
	s.ticker = r.clock.NewTicker(r.cfg.TickInterval)
	s.done = make(chan struct{})
	r.setStateLocked(s, RecordingStateRecording, ReasonStarted)
	slog.Info("recording started", "output_path", outputPath, "max_seconds", r.cfg.MaxSeconds, "handle_id", handle.ID())

	go r.runTicker(s)
	return nil
}

// Stop ends the running capture and returns the produced artifact.
func (r *Recorder) Stop(_ context.Context) (mood.VoiceArtifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.current
	if s == nil {
		return mood.VoiceArtifact{}, ErrNoActiveSession
	}
	switch s.state {
	case RecordingStateRecording:
		return r.stopLocked(s, ReasonUser)
	case RecordingStateRequestingPermission:
		s.cancelPermission()
		r.setStateLocked(s, RecordingStateError, ReasonCancelled)
		return mood.VoiceArtifact{}, ErrCancelled
	default:
		return mood.VoiceArtifact{}, ErrNoActiveSession
	}
}

// Preempt stops a running capture so the audio resource can be used for
// playback. The artifact is still produced and reported.
func (r *Recorder) Preempt(_ context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.current
	if s == nil {
		return
	}
	switch s.state {
	case RecordingStateRecording:
		if _, err := r.stopLocked(s, ReasonPreempted); err != nil {
			slog.Warn("preempted recording failed to stop cleanly", "error", err)
		}
	case RecordingStateRequestingPermission:
		s.cancelPermission()
		r.setStateLocked(s, RecordingStateError, ReasonCancelled)
	}
}

// Close tears the recorder down. A capture still running is stopped and its
// file discarded, since nobody is left to submit it.
func (r *Recorder) Close(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	s := r.current
	if s == nil {
		return nil
	}
	switch s.state {
	case RecordingStateRecording:
		artifact, err := r.stopLocked(s, ReasonClosed)
		if err != nil {
			return err
		}
		return r.store.Discard(artifact)
	case RecordingStateRequestingPermission:
		s.cancelPermission()
		r.setStateLocked(s, RecordingStateError, ReasonCancelled)
	}
	return nil
}

func (r *Recorder) Status() RecordingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return RecordingStatus{State: RecordingStateIdle}
	}
	return RecordingStatus{
		State:          r.current.state,
		Reason:         r.current.reason,
		ElapsedSeconds: r.current.elapsed,
		StartedAt:      r.current.startedAt,
	}
}

// Artifact returns the clip of the latest session if it stopped cleanly.
func (r *Recorder) Artifact() (mood.VoiceArtifact, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.current.artifact == nil {
		return mood.VoiceArtifact{}, false
	}
	return *r.current.artifact, true
}

func (r *Recorder) runTicker(s *recordingSession) {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C():
			r.handleTick(s)
		}
	}
}

func (r *Recorder) handleTick(s *recordingSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != s || s.state != RecordingStateRecording {
		return
	}
	s.elapsed++
	r.events.RecordingTick(s.elapsed)
	if s.elapsed >= r.cfg.MaxSeconds {
		slog.Info("recording reached max duration", "elapsed_seconds", s.elapsed)
		if _, err := r.stopLocked(s, ReasonMaxDuration); err != nil {
			slog.Error("auto-stop at max duration failed", "error", err)
		}
	}
}

// stopLocked is the only way out of the recording state: user stop,
// max duration, preemption and teardown all come through here.
func (r *Recorder) stopLocked(s *recordingSession, reason Reason) (mood.VoiceArtifact, error) {
	r.setStateLocked(s, RecordingStateStopping, reason)
	s.ticker.Stop()
	close(s.done)

	handle, capture := s.handle, s.capture
	s.handle, s.capture = nil, nil
	outputPath := capture.OutputPath()

	if err := r.guard.Release(handle); err != nil {
		r.setStateLocked(s, RecordingStateError, ReasonRecordingFailed)
		_ = r.store.Discard(mood.VoiceArtifact{LocalURI: outputPath})
		slog.Error("failed to stop audio capture", "error", err, "reason", reason)
		return mood.VoiceArtifact{}, fmt.Errorf("%w: %w", ErrRecordingFailed, err)
	}

	artifact := r.store.Materialize(outputPath, s.elapsed)
	s.artifact = &artifact
	r.setStateLocked(s, RecordingStateStopped, reason)
	r.events.RecordingStopped(artifact, reason)
	slog.Info("recording stopped", "reason", reason, "elapsed_seconds", s.elapsed, "artifact", artifact.DisplayName)
	return artifact, nil
}

func (r *Recorder) setStateLocked(s *recordingSession, state RecordingState, reason Reason) {
	s.state = state
	s.reason = reason
	r.events.RecordingStateChanged(state, reason)
}
