package container

import "github.com/samber/do"

// New wires every package a serving worker needs.
func New(options *Options, worker Worker) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, options)
	do.ProvideValue(injector, worker)
	LoggerPackage(injector)
	RedisPackage(injector)
	StorePackage(injector)
	CachePackage(injector)
	MessagingPackage(injector)
	ServicePackage(injector)
	HTTPPackage(injector)

	return injector
}
