package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/foxseedlab/moodlog/internal/mood"
	"github.com/foxseedlab/moodlog/internal/voice"
)

// keyboard turns Enter presses on stdin into channel receives. One reader
// goroutine serves the whole command, so recording and the playback that
// follows it share it instead of each leaving a blocked read behind.
type keyboard struct {
	in    io.Reader
	once  sync.Once
	lines chan struct{}
	eof   chan struct{}
}

func newKeyboard(in io.Reader) *keyboard {
	return &keyboard{
		in:    in,
		lines: make(chan struct{}),
		eof:   make(chan struct{}),
	}
}

func (k *keyboard) start() {
	k.once.Do(func() {
		go func() {
			defer close(k.eof)
			r := bufio.NewReader(k.in)
			for {
				if _, err := r.ReadString('\n'); err != nil {
					return
				}
				k.lines <- struct{}{}
			}
		}()
	})
}

// enter fires once per line read.
func (k *keyboard) enter() <-chan struct{} {
	k.start()
	return k.lines
}

// closed fires when stdin has no more input.
func (k *keyboard) closed() <-chan struct{} {
	k.start()
	return k.eof
}

// recordVoiceNote records until the user presses Enter, stdin ends or the
// length limit is hit. Interrupting discards the clip.
func recordVoiceNote(ctx context.Context, a *app, studio *voice.Studio, out io.Writer) (mood.VoiceArtifact, error) {
	rec := studio.Recorder()
	if err := rec.Start(ctx); err != nil {
		return mood.VoiceArtifact{}, err
	}
	fmt.Fprintf(out, "%s Recording, up to %d seconds. Press Enter to stop.\n", recordingDot, a.cfg.MaxRecordingSec)

	select {
	case artifact := <-a.events.stopped:
		return artifact, nil
	case reason := <-a.events.failed:
		return mood.VoiceArtifact{}, fmt.Errorf("%w (%s)", voice.ErrRecordingFailed, reason)
	case <-ctx.Done():
		artifact, err := rec.Stop(context.Background())
		if err == nil {
			_ = studio.Store().Discard(artifact)
		}
		return mood.VoiceArtifact{}, ctx.Err()
	case <-a.keys.enter():
	case <-a.keys.closed():
	}

	artifact, err := rec.Stop(ctx)
	if errors.Is(err, voice.ErrNoActiveSession) {
		// The limit was reached while Enter was being pressed.
		if artifact, ok := rec.Artifact(); ok {
			return artifact, nil
		}
		select {
		case reason := <-a.events.failed:
			return mood.VoiceArtifact{}, fmt.Errorf("%w (%s)", voice.ErrRecordingFailed, reason)
		default:
		}
	}
	return artifact, err
}

// waitPlayback blocks until the clip ends, Enter is pressed or the command
// is interrupted.
func waitPlayback(ctx context.Context, a *app, studio *voice.Studio) error {
	select {
	case end := <-a.events.playbackEnded:
		if end.state == voice.PlaybackStateError {
			return voice.ErrPlaybackFailed
		}
		return nil
	case <-a.keys.enter():
		return studio.Player().Stop(context.Background())
	case <-ctx.Done():
		return studio.Player().Stop(context.Background())
	}
}
