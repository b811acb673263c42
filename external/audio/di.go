package audio

import (
	"github.com/foxseedlab/moodlog/internal/audio"
	"github.com/foxseedlab/moodlog/internal/config"
	"github.com/foxseedlab/moodlog/internal/voice"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.Device, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewFFmpegDevice(c), nil
	})
	do.Provide(injector, func(i do.Injector) (voice.Permission, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewMicrophonePermission(c.MicrophoneAllowed, c.FFmpegCommand), nil
	})
}
