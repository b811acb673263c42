package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foxseedlab/moodlog/internal/audio"
)

// StartPlayback plays sourcePath with ffplay and reports the natural end of
// the clip through Completed.
func (d *FFmpegDevice) StartPlayback(ctx context.Context, sourcePath string) (audio.PlaybackSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, fmt.Errorf("voice note not readable: %w", err)
	}

	cmd := exec.Command(d.ffplay,
		"-nodisp",
		"-autoexit",
		"-hide_banner",
		"-loglevel", "error",
		sourcePath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffplay: %w", err)
	}

	s := &ffplayPlayback{
		stderr:      &stderr,
		process:     cmd.Process,
		waitErr:     make(chan error, 1),
		completed:   make(chan error, 1),
		stopTimeout: d.stopTimeout,
	}
	go s.wait(cmd)
	return s, nil
}

type ffplayPlayback struct {
	stderr *bytes.Buffer

	process     *os.Process
	waitErr     chan error
	completed   chan error
	stopTimeout time.Duration
	stopping    atomic.Bool

	stopOnce sync.Once
	stopErr  error
}

func (s *ffplayPlayback) Completed() <-chan error { return s.completed }

func (s *ffplayPlayback) wait(cmd *exec.Cmd) {
	err := cmd.Wait()
	if !s.stopping.Load() {
		if err != nil {
			s.completed <- fmt.Errorf("ffplay failed: %w: %s", err, trimOutput(s.stderr.String()))
		} else {
			s.completed <- nil
		}
	}
	s.waitErr <- err
	close(s.waitErr)
}

func (s *ffplayPlayback) Stop() error {
	s.stopOnce.Do(func() {
		s.stopping.Store(true)
		if err := stopProcess(s.process, os.Interrupt, s.waitErr, s.stopTimeout); err != nil {
			s.stopErr = fmt.Errorf("failed to stop ffplay: %w", err)
		}
	})
	return s.stopErr
}
