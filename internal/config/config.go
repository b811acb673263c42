package config

import (
	"fmt"
	"net/url"
	"time"
)

// MaxRecordingSeconds is the hard ceiling for a single voice note.
const MaxRecordingSeconds = 30

type Config struct {
	Env               string
	APIBaseURL        string
	HTTPTimeoutSec    int
	RecordingsDir     string
	FFmpegCommand     string
	FFplayCommand     string
	AudioInputFormat  string
	AudioInputDevice  string
	RecordingFormat   string
	MaxRecordingSec   int
	MicrophoneAllowed bool
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("MOODLOG_API_BASE_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("MOODLOG_API_BASE_URL must be http or https, got %q", u.Scheme)
	}
	if c.HTTPTimeoutSec <= 0 {
		return fmt.Errorf("MOODLOG_HTTP_TIMEOUT_SEC must be positive, got %d", c.HTTPTimeoutSec)
	}
	if c.MaxRecordingSec <= 0 || c.MaxRecordingSec > MaxRecordingSeconds {
		return fmt.Errorf("MOODLOG_MAX_RECORDING_SEC must be between 1 and %d, got %d", MaxRecordingSeconds, c.MaxRecordingSec)
	}
	switch c.RecordingFormat {
	case "wav", "m4a", "aac", "ogg", "mp3":
	default:
		return fmt.Errorf("MOODLOG_RECORDING_FORMAT %q is not supported", c.RecordingFormat)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "MOODLOG_API_BASE_URL", value: c.APIBaseURL},
		{name: "MOODLOG_FFMPEG_COMMAND", value: c.FFmpegCommand},
		{name: "MOODLOG_FFPLAY_COMMAND", value: c.FFplayCommand},
		{name: "MOODLOG_RECORDING_FORMAT", value: c.RecordingFormat},
	}
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
