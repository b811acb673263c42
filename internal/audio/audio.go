package audio

import "context"

// Mode selects how the device audio session is configured.
type Mode string

const (
	ModeRecord   Mode = "record"
	ModePlayback Mode = "playback"
)

// Session is a live hardware audio session. Stop ends it and frees the
// underlying device; the Guard calls it exactly once per session.
type Session interface {
	Stop() error
}

// CaptureSession records microphone input into a local file.
type CaptureSession interface {
	Session
	OutputPath() string
}

// PlaybackSession plays a local file. Completed receives one value when
// playback ends on its own: nil for a clean finish, otherwise the failure.
// It is never signalled for a Stop.
type PlaybackSession interface {
	Session
	Completed() <-chan error
}

// Device opens hardware sessions. Implementations are not expected to
// enforce exclusivity; that is the Guard's job.
type Device interface {
	StartCapture(ctx context.Context, outputPath string) (CaptureSession, error)
	StartPlayback(ctx context.Context, sourcePath string) (PlaybackSession, error)
}

// Owner is whoever holds a Handle. Preempt asks it to wind down through its
// own stop path so the resource can be handed to someone else.
type Owner interface {
	Preempt(ctx context.Context)
}
