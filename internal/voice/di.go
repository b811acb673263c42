package voice

import (
	"github.com/foxseedlab/moodlog/internal/audio"
	"github.com/foxseedlab/moodlog/internal/config"
	"github.com/samber/do/v2"
)

// RegisterDI wires the artifact store and a Studio. An EventSink registered
// before the Studio is first invoked receives its events.
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*ArtifactStore, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewArtifactStore(c.RecordingsDir, c.RecordingFormat), nil
	})
	do.Provide(injector, func(i do.Injector) (*Studio, error) {
		c := do.MustInvoke[*config.Config](i)
		device := do.MustInvoke[audio.Device](i)
		permission := do.MustInvoke[Permission](i)
		store := do.MustInvoke[*ArtifactStore](i)
		events, err := do.Invoke[EventSink](i)
		if err != nil {
			events = nil
		}
		return NewStudio(device, permission, RealClock(), store, events, RecorderConfig{MaxSeconds: c.MaxRecordingSec}), nil
	})
}
