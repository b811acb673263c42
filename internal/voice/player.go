package voice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/foxseedlab/moodlog/internal/audio"
	"github.com/foxseedlab/moodlog/internal/mood"
)

// Player plays back one artifact at a time. Natural completion arrives as a
// message from the device and moves the player back to idle on its own.
type Player struct {
	guard  *audio.Guard
	device audio.Device
	events EventSink

	mu      sync.Mutex
	current *playbackSession
	state   PlaybackState
	reason  Reason
	closed  bool
}

type playbackSession struct {
	artifact mood.VoiceArtifact
	handle   *audio.Handle
	playback audio.PlaybackSession
	done     chan struct{}
}

func NewPlayer(guard *audio.Guard, device audio.Device, events EventSink) *Player {
	if events == nil {
		events = nopEvents{}
	}
	return &Player{
		guard:  guard,
		device: device,
		events: events,
		state:  PlaybackStateIdle,
	}
}

// Play starts playing artifact. Anything already loading or playing is
// stopped and released first.
func (p *Player) Play(ctx context.Context, artifact mood.VoiceArtifact) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.current != nil {
		p.stopLocked(ReasonReplaced)
	}
	s := &playbackSession{artifact: artifact}
	p.current = s
	p.setStateLocked(PlaybackStateLoading, ReasonNone)
	p.mu.Unlock()

	var playback audio.PlaybackSession
	handle, err := p.guard.Acquire(ctx, audio.ModePlayback, p, func(ctx context.Context) (audio.Session, error) {
		ps, err := p.device.StartPlayback(ctx, artifact.LocalURI)
		if err != nil {
			return nil, err
		}
		playback = ps
		return ps, nil
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		if p.current == s {
			p.current = nil
			p.setStateLocked(PlaybackStateError, ReasonPlaybackFailed)
		}
		slog.Error("failed to start playback", "error", err, "artifact", artifact.DisplayName)
		return fmt.Errorf("%w: %w", ErrPlaybackFailed, err)
	}
	if p.current != s {
		_ = p.guard.Release(handle)
		return ErrCancelled
	}

	s.handle = handle
	s.playback = playback
	s.done = make(chan struct{})
	p.setStateLocked(PlaybackStatePlaying, ReasonStarted)
	slog.Info("playback started", "artifact", artifact.DisplayName, "handle_id", handle.ID())

	go p.watch(s)
	return nil
}

// Stop halts playback immediately. It is a no-op when nothing is playing.
func (p *Player) Stop(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	return p.stopLocked(ReasonUser)
}

func (p *Player) Preempt(_ context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return
	}
	if err := p.stopLocked(ReasonPreempted); err != nil {
		slog.Warn("preempted playback failed to stop cleanly", "error", err)
	}
}

func (p *Player) Close(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.current == nil {
		return nil
	}
	return p.stopLocked(ReasonClosed)
}

func (p *Player) Status() PlaybackStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := PlaybackStatus{State: p.state, Reason: p.reason}
	if p.current != nil {
		artifact := p.current.artifact
		st.Artifact = &artifact
	}
	return st
}

func (p *Player) watch(s *playbackSession) {
	select {
	case <-s.done:
	case err := <-s.playback.Completed():
		p.handleCompleted(s, err)
	}
}

func (p *Player) handleCompleted(s *playbackSession, playErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != s {
		return
	}
	p.current = nil
	close(s.done)
	releaseErr := p.guard.Release(s.handle)

	if playErr != nil {
		p.setStateLocked(PlaybackStateError, ReasonPlaybackFailed)
		slog.Error("playback ended with error", "error", playErr, "artifact", s.artifact.DisplayName)
		return
	}
	if releaseErr != nil {
		slog.Warn("playback session released with error", "error", releaseErr)
	}
	p.setStateLocked(PlaybackStateIdle, ReasonCompleted)
	slog.Info("playback completed", "artifact", s.artifact.DisplayName)
}

// stopLocked releases whatever the current session holds. A session still
// loading has no handle yet; Play notices it was superseded and releases the
// handle it gets.
func (p *Player) stopLocked(reason Reason) error {
	s := p.current
	p.current = nil
	var err error
	if s.handle != nil {
		close(s.done)
		err = p.guard.Release(s.handle)
	}
	p.setStateLocked(PlaybackStateIdle, reason)
	slog.Info("playback stopped", "reason", reason, "artifact", s.artifact.DisplayName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPlaybackFailed, err)
	}
	return nil
}

func (p *Player) setStateLocked(state PlaybackState, reason Reason) {
	p.state = state
	p.reason = reason
	p.events.PlaybackStateChanged(state, reason)
}
