package audio

import (
	"time"

	"github.com/foxseedlab/moodlog/internal/config"
)

const (
	defaultStartupGrace = 250 * time.Millisecond
	defaultStopTimeout  = 1200 * time.Millisecond
)

// FFmpegDevice drives the sound card through ffmpeg for capture and ffplay
// for playback. Each session is one child process.
type FFmpegDevice struct {
	ffmpeg      string
	ffplay      string
	inputFormat string
	inputDevice string

	startupGrace time.Duration
	stopTimeout  time.Duration
}

func NewFFmpegDevice(cfg *config.Config) *FFmpegDevice {
	d := &FFmpegDevice{
		ffmpeg:       cfg.FFmpegCommand,
		ffplay:       cfg.FFplayCommand,
		inputFormat:  cfg.AudioInputFormat,
		inputDevice:  cfg.AudioInputDevice,
		startupGrace: defaultStartupGrace,
		stopTimeout:  defaultStopTimeout,
	}
	if d.ffmpeg == "" {
		d.ffmpeg = "ffmpeg"
	}
	if d.ffplay == "" {
		d.ffplay = "ffplay"
	}
	if d.inputFormat == "" {
		d.inputFormat = "pulse"
	}
	if d.inputDevice == "" {
		d.inputDevice = "default"
	}
	return d
}
