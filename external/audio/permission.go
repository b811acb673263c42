package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// MicrophonePermission grants the microphone when the user has not switched
// it off and the capture tool is installed.
type MicrophonePermission struct {
	allowed bool
	ffmpeg  string
}

func NewMicrophonePermission(allowed bool, ffmpeg string) *MicrophonePermission {
	return &MicrophonePermission{allowed: allowed, ffmpeg: ffmpeg}
}

func (p *MicrophonePermission) RequestMicrophone(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !p.allowed {
		slog.Info("microphone disabled by configuration")
		return false, nil
	}
	if _, err := exec.LookPath(p.ffmpeg); err != nil {
		return false, fmt.Errorf("capture tool %q not found: %w", p.ffmpeg, err)
	}
	return true, nil
}
