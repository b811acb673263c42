package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/foxseedlab/moodlog/internal/mood"
	"github.com/foxseedlab/moodlog/internal/voice"
)

type playbackEnd struct {
	state  voice.PlaybackState
	reason voice.Reason
}

// terminalEvents renders controller events on the terminal and hands the
// ones commands wait for over channels. Controllers call it under their own
// locks, so nothing here blocks.
type terminalEvents struct {
	mu         sync.Mutex
	out        io.Writer
	maxSeconds int

	stopped       chan mood.VoiceArtifact
	failed        chan voice.Reason
	playbackEnded chan playbackEnd
}

func newTerminalEvents(out io.Writer, maxSeconds int) *terminalEvents {
	return &terminalEvents{
		out:           out,
		maxSeconds:    maxSeconds,
		stopped:       make(chan mood.VoiceArtifact, 1),
		failed:        make(chan voice.Reason, 1),
		playbackEnded: make(chan playbackEnd, 1),
	}
}

// RecordingStateChanged reports a recording that ended in error, including a
// stop at the length limit that could not save the clip. Cancellations are
// user initiated and stay quiet.
func (e *terminalEvents) RecordingStateChanged(state voice.RecordingState, reason voice.Reason) {
	if state != voice.RecordingStateError || reason == voice.ReasonCancelled {
		return
	}
	e.mu.Lock()
	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, errorStyle.Render(recordingFailureText(reason)))
	e.mu.Unlock()

	select {
	case e.failed <- reason:
	default:
	}
}

func recordingFailureText(reason voice.Reason) string {
	switch reason {
	case voice.ReasonPermissionDenied:
		return "Microphone access was denied."
	case voice.ReasonRecordingFailed:
		return "The recording could not be saved."
	default:
		return "Recording failed."
	}
}

func (e *terminalEvents) RecordingTick(elapsed int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintf(e.out, "\r%s %s / %s", recordingDot, clock(elapsed), clock(e.maxSeconds))
}

func (e *terminalEvents) RecordingStopped(artifact mood.VoiceArtifact, reason voice.Reason) {
	e.mu.Lock()
	fmt.Fprintln(e.out)
	if reason == voice.ReasonMaxDuration {
		fmt.Fprintln(e.out, mutedStyle.Render(fmt.Sprintf("Reached the %d second limit.", e.maxSeconds)))
	}
	e.mu.Unlock()

	select {
	case e.stopped <- artifact:
	default:
	}
}

func (e *terminalEvents) PlaybackStateChanged(state voice.PlaybackState, reason voice.Reason) {
	ended := state == voice.PlaybackStateError ||
		(state == voice.PlaybackStateIdle && (reason == voice.ReasonCompleted || reason == voice.ReasonPreempted))
	if !ended {
		return
	}
	select {
	case e.playbackEnded <- playbackEnd{state: state, reason: reason}:
	default:
	}
}

func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
