package voice

import (
	"context"
	"errors"

	"github.com/foxseedlab/moodlog/internal/audio"
)

// Studio owns the audio resource and both controllers for the lifetime of
// one screen. Nothing here is shared between studios.
type Studio struct {
	guard    *audio.Guard
	store    *ArtifactStore
	recorder *Recorder
	player   *Player
}

func NewStudio(device audio.Device, permission Permission, clock Clock, store *ArtifactStore, events EventSink, cfg RecorderConfig) *Studio {
	guard := audio.NewGuard()
	return &Studio{
		guard:    guard,
		store:    store,
		recorder: NewRecorder(guard, device, permission, clock, store, events, cfg),
		player:   NewPlayer(guard, device, events),
	}
}

func (s *Studio) Recorder() *Recorder { return s.recorder }

func (s *Studio) Player() *Player { return s.player }

func (s *Studio) Store() *ArtifactStore { return s.store }

func (s *Studio) AudioStats() audio.Stats { return s.guard.Stats() }

// Close stops any capture or playback and leaves the audio resource free.
func (s *Studio) Close(ctx context.Context) error {
	return errors.Join(
		s.player.Close(ctx),
		s.recorder.Close(ctx),
	)
}
