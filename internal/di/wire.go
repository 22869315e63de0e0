//go:build wireinject
// +build wireinject

package di

import (
	"LaunchCast/pkg/config"
	"LaunchCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideLookupRegistry,
		ProvideBytesCache,
		ProvidePlanCache,
		ProvidePlanPublisher,

		// Use cases
		ProvideSnippetCollector,
		ProvidePlanner,

		// HTTP
		ProvideRateLimiter,
		ProvidePlanHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
