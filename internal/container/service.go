package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/cache"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// ServicePackage provides the shortening service.
func ServicePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		generator, err := shortener.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(
			do.MustInvoke[LinkStore](i),
			do.MustInvoke[*cache.Lookup](i),
			generator,
			opts.MaxAttempts,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}
