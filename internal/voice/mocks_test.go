package voice

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foxseedlab/moodlog/internal/audio"
	"github.com/foxseedlab/moodlog/internal/mood"
)

type mockDevice struct {
	mu             sync.Mutex
	log            []string
	live           int
	overlapped     bool
	captureErr     error
	captureStopErr error
	playbackErr    error
	captures       []*mockCapture
	playbacks      []*mockPlayback
}

func (d *mockDevice) StartCapture(_ context.Context, outputPath string) (audio.CaptureSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.captureErr != nil {
		d.log = append(d.log, "capture-failed")
		return nil, d.captureErr
	}
	c := &mockCapture{device: d, id: fmt.Sprintf("capture-%d", len(d.captures)+1), path: outputPath, stopErr: d.captureStopErr}
	d.captures = append(d.captures, c)
	d.startLocked(c.id)
	return c, nil
}

func (d *mockDevice) StartPlayback(_ context.Context, sourcePath string) (audio.PlaybackSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.playbackErr != nil {
		d.log = append(d.log, "playback-failed")
		return nil, d.playbackErr
	}
	p := &mockPlayback{device: d, id: "play " + filepath.Base(sourcePath), completed: make(chan error, 1)}
	d.playbacks = append(d.playbacks, p)
	d.startLocked(p.id)
	return p, nil
}

func (d *mockDevice) startLocked(id string) {
	d.live++
	if d.live > 1 {
		d.overlapped = true
	}
	d.log = append(d.log, "start "+id)
}

func (d *mockDevice) stopped(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.live--
	d.log = append(d.log, "stop "+id)
}

func (d *mockDevice) snapshotLog() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.log...)
}

func (d *mockDevice) setCaptureErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.captureErr = err
}

func (d *mockDevice) setCaptureStopErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.captureStopErr = err
}

type mockCapture struct {
	device  *mockDevice
	id      string
	path    string
	stopErr error
	stops   atomic.Int32
}

func (c *mockCapture) Stop() error {
	c.stops.Add(1)
	c.device.stopped(c.id)
	return c.stopErr
}

func (c *mockCapture) OutputPath() string { return c.path }

type mockPlayback struct {
	device    *mockDevice
	id        string
	completed chan error
	stops     atomic.Int32
}

func (p *mockPlayback) Stop() error {
	p.stops.Add(1)
	p.device.stopped(p.id)
	return nil
}

func (p *mockPlayback) Completed() <-chan error { return p.completed }

type mockPermission struct {
	granted bool
	err     error
	block   chan struct{}
	calls   atomic.Int32
}

func (m *mockPermission) RequestMicrophone(ctx context.Context) (bool, error) {
	m.calls.Add(1)
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return m.granted, m.err
}

type mockClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*mockTicker
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) NewTicker(_ time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTicker{ch: make(chan time.Time, 64)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *mockClock) lastTicker(t *testing.T) *mockTicker {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		t.Fatal("no ticker was created")
	}
	return c.tickers[len(c.tickers)-1]
}

type mockTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *mockTicker) C() <-chan time.Time { return m.ch }

func (m *mockTicker) Stop() { m.stopped.Store(true) }

func (m *mockTicker) deliver(n int) {
	for i := 0; i < n; i++ {
		m.ch <- time.Time{}
	}
}

type recordedState struct {
	state  RecordingState
	reason Reason
}

type recordedPlayback struct {
	state  PlaybackState
	reason Reason
}

type mockEventSink struct {
	mu        sync.Mutex
	states    []recordedState
	playback  []recordedPlayback
	ticks     []int
	artifacts []mood.VoiceArtifact
	stopped   chan mood.VoiceArtifact
}

func newMockEventSink() *mockEventSink {
	return &mockEventSink{stopped: make(chan mood.VoiceArtifact, 16)}
}

func (m *mockEventSink) RecordingStateChanged(state RecordingState, reason Reason) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = append(m.states, recordedState{state: state, reason: reason})
}

func (m *mockEventSink) RecordingTick(elapsed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks = append(m.ticks, elapsed)
}

func (m *mockEventSink) RecordingStopped(artifact mood.VoiceArtifact, _ Reason) {
	m.mu.Lock()
	m.artifacts = append(m.artifacts, artifact)
	m.mu.Unlock()
	select {
	case m.stopped <- artifact:
	default:
	}
}

func (m *mockEventSink) PlaybackStateChanged(state PlaybackState, reason Reason) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playback = append(m.playback, recordedPlayback{state: state, reason: reason})
}

func (m *mockEventSink) snapshotStates() []recordedState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedState(nil), m.states...)
}

func (m *mockEventSink) snapshotTicks() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.ticks...)
}

func (m *mockEventSink) snapshotArtifacts() []mood.VoiceArtifact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mood.VoiceArtifact(nil), m.artifacts...)
}

func (m *mockEventSink) snapshotPlayback() []recordedPlayback {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedPlayback(nil), m.playback...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

type recorderFixture struct {
	guard      *audio.Guard
	device     *mockDevice
	permission *mockPermission
	clock      *mockClock
	events     *mockEventSink
	store      *ArtifactStore
	recorder   *Recorder
}

func newRecorderFixture(t *testing.T) *recorderFixture {
	t.Helper()
	f := &recorderFixture{
		guard:      audio.NewGuard(),
		device:     &mockDevice{},
		permission: &mockPermission{granted: true},
		clock:      newMockClock(),
		events:     newMockEventSink(),
		store:      NewArtifactStore(t.TempDir(), "wav"),
	}
	f.recorder = NewRecorder(f.guard, f.device, f.permission, f.clock, f.store, f.events, RecorderConfig{})
	return f
}

// tickNow runs one tick through the state machine synchronously.
func (f *recorderFixture) tickNow() {
	f.recorder.mu.Lock()
	s := f.recorder.current
	f.recorder.mu.Unlock()
	if s != nil {
		f.recorder.handleTick(s)
	}
}
