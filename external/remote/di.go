package remote

import (
	"github.com/foxseedlab/moodlog/internal/config"
	"github.com/foxseedlab/moodlog/internal/remote"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (remote.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPClient(c.APIBaseURL, c.HTTPTimeout()), nil
	})
}
