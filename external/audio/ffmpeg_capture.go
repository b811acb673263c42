package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/foxseedlab/moodlog/internal/audio"
)

const (
	captureSampleRate = 44100
	captureChannels   = 1
)

// StartCapture records the microphone into outputPath with ffmpeg. The
// container is picked by ffmpeg from the file extension.
func (d *FFmpegDevice) StartCapture(ctx context.Context, outputPath string) (audio.CaptureSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-y",
		"-f", d.inputFormat,
		"-i", d.inputDevice,
		"-ac", strconv.Itoa(captureChannels),
		"-ar", strconv.Itoa(captureSampleRate),
		outputPath,
	}

	// Not CommandContext: the capture outlives the Start call and must be
	// interrupted, not killed, to leave a playable file behind.
	cmd := exec.Command(d.ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	select {
	case err := <-waitErr:
		if err != nil {
			return nil, fmt.Errorf("ffmpeg exited before capture started: %w: %s", err, trimOutput(stderr.String()))
		}
		return nil, errors.New("ffmpeg exited before capture started")
	case <-time.After(d.startupGrace):
	}

	return &ffmpegCapture{
		outputPath:  outputPath,
		stderr:      &stderr,
		process:     cmd.Process,
		waitErr:     waitErr,
		stopTimeout: d.stopTimeout,
	}, nil
}

type ffmpegCapture struct {
	outputPath string
	stderr     *bytes.Buffer

	process     *os.Process
	waitErr     <-chan error
	stopTimeout time.Duration

	stopOnce sync.Once
	stopErr  error
}

func (s *ffmpegCapture) OutputPath() string { return s.outputPath }

// Stop interrupts ffmpeg so it finalises the file, killing it if it does not
// exit in time. A missing or empty file is reported as an error.
func (s *ffmpegCapture) Stop() error {
	s.stopOnce.Do(func() {
		s.stopErr = stopProcess(s.process, os.Interrupt, s.waitErr, s.stopTimeout)

		if s.stopErr == nil {
			info, err := os.Stat(s.outputPath)
			switch {
			case err != nil:
				s.stopErr = fmt.Errorf("no recording written: %w", err)
			case info.Size() == 0:
				s.stopErr = errors.New("recording is empty")
			}
		}
		if s.stopErr != nil && s.stderr.Len() > 0 {
			s.stopErr = fmt.Errorf("%w: %s", s.stopErr, trimOutput(s.stderr.String()))
		}
	})
	return s.stopErr
}

// stopProcess signals the child and waits for it, escalating to Kill after
// timeout. Exit statuses are ignored since the child was asked to stop.
func stopProcess(process *os.Process, sig os.Signal, waitErr <-chan error, timeout time.Duration) error {
	if process != nil {
		_ = process.Signal(sig)
	}
	select {
	case err, ok := <-waitErr:
		if ok {
			return normalizeStopErr(err)
		}
		return nil
	case <-time.After(timeout):
		if process != nil {
			_ = process.Kill()
		}
		err, ok := <-waitErr
		if ok {
			return normalizeStopErr(err)
		}
		return nil
	}
}

func normalizeStopErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func trimOutput(input string) string {
	if input == "" {
		return input
	}
	return string(bytes.TrimSpace([]byte(input)))
}
