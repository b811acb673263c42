package submission

import (
	"github.com/foxseedlab/moodlog/internal/remote"
	"github.com/foxseedlab/moodlog/internal/voice"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (Uploader, error) {
		client := do.MustInvoke[remote.Client](i)
		return NewAttachmentUploader(client), nil
	})
	do.Provide(injector, func(i do.Injector) (*Pipeline, error) {
		uploader := do.MustInvoke[Uploader](i)
		client := do.MustInvoke[remote.Client](i)
		store := do.MustInvoke[*voice.ArtifactStore](i)
		return NewPipeline(uploader, client, store, nil), nil
	})
}
