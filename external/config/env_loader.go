package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/moodlog/internal/config"
)

type envConfig struct {
	Env               string `env:"ENV" envDefault:"production"`
	APIBaseURL        string `env:"MOODLOG_API_BASE_URL,required"`
	HTTPTimeoutSec    int    `env:"MOODLOG_HTTP_TIMEOUT_SEC" envDefault:"30"`
	RecordingsDir     string `env:"MOODLOG_RECORDINGS_DIR"`
	FFmpegCommand     string `env:"MOODLOG_FFMPEG_COMMAND" envDefault:"ffmpeg"`
	FFplayCommand     string `env:"MOODLOG_FFPLAY_COMMAND" envDefault:"ffplay"`
	AudioInputFormat  string `env:"MOODLOG_AUDIO_INPUT_FORMAT" envDefault:"pulse"`
	AudioInputDevice  string `env:"MOODLOG_AUDIO_INPUT_DEVICE" envDefault:"default"`
	RecordingFormat   string `env:"MOODLOG_RECORDING_FORMAT" envDefault:"wav"`
	MaxRecordingSec   int    `env:"MOODLOG_MAX_RECORDING_SEC" envDefault:"30"`
	MicrophoneAllowed bool   `env:"MOODLOG_MICROPHONE_ALLOWED" envDefault:"true"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	recordingsDir := raw.RecordingsDir
	if recordingsDir == "" {
		recordingsDir = os.TempDir()
	}

	cfg := &internalconfig.Config{
		Env:               raw.Env,
		APIBaseURL:        raw.APIBaseURL,
		HTTPTimeoutSec:    raw.HTTPTimeoutSec,
		RecordingsDir:     recordingsDir,
		FFmpegCommand:     raw.FFmpegCommand,
		FFplayCommand:     raw.FFplayCommand,
		AudioInputFormat:  raw.AudioInputFormat,
		AudioInputDevice:  raw.AudioInputDevice,
		RecordingFormat:   raw.RecordingFormat,
		MaxRecordingSec:   raw.MaxRecordingSec,
		MicrophoneAllowed: raw.MicrophoneAllowed,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
